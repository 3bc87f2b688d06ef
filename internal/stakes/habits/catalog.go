package habits

// Preset é um hábito sugerido na tela de criação
type Preset struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Icon     string `json:"icon"`
}

// Catálogo fixo de hábitos sugeridos pelo app
var presets = []Preset{
	{Title: "Evening Workout", Category: "Fitness", Icon: "🏋️"},
	{Title: "Cold Shower", Category: "Health", Icon: "🚿"},
	{Title: "No Sugar", Category: "Health", Icon: "🍬"},
	{Title: "Morning 5k Run", Category: "Fitness", Icon: "🏃"},
	{Title: "Read 30 Pages", Category: "Learning", Icon: "📚"},
}

// Presets retorna uma cópia do catálogo
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

package dto

type CreateStakeRequest struct {
	Title    string  `json:"title"`
	Category string  `json:"category"` // ex: "Fitness", "Health", "Learning"
	Icon     string  `json:"icon,omitempty"`
	Amount   float64 `json:"amount"`             // valor bruto do slider; normalizado pela política
	Deadline string  `json:"deadline,omitempty"` // default "11:59 PM"
}

type SubmitEvidenceRequest struct {
	EvidenceRef string `json:"evidenceRef"` // referência do blob capturado (foto)
}

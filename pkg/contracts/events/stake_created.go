package events

type StakeCreated struct {
	StakeID     string `json:"stake_id"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	WagerAmount int64  `json:"wager_amount"`
	Deadline    string `json:"deadline"`
	TsUnixMs    int64  `json:"ts_unix_ms"`
}

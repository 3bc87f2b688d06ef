package events

import "time"

// Evento emitido pelo stakes-service após a resolução de uma aposta de hábito.
type StakeResolved struct {
	StakeID     string    `json:"stakeId"`
	Result      string    `json:"result"` // "CONFIRMED" | "REJECTED"
	Status      string    `json:"status"` // "VERIFIED" | "FAILED"
	WagerAmount int64     `json:"wagerAmount"`
	EvidenceRef string    `json:"evidenceRef,omitempty"`
	JudgeRef    string    `json:"judgeRef,omitempty"`
	Ts          time.Time `json:"ts"`
}

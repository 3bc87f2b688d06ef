package dto

type VerifyReq struct {
	StakeID     string `json:"stakeId"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	EvidenceRef string `json:"evidenceRef"`
}

type VerifyResp struct {
	Status   string `json:"status"` // CONFIRMED | REJECTED
	JudgeRef string `json:"judgeRef"`
	Reason   string `json:"reason,omitempty"`
}

const (
	StatusConfirmed = "CONFIRMED"
	StatusRejected  = "REJECTED"
)

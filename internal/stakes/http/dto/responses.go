package dto

import "github.com/stakesapp/stakes-platform-poc/internal/stakes/registry"

type StakeResponse struct {
	StakeID     string `json:"stakeId"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Icon        string `json:"icon,omitempty"`
	WagerAmount int64  `json:"wagerAmount"`
	Deadline    string `json:"deadline"`
	Status      string `json:"status"`
}

func FromStake(st *registry.Stake) StakeResponse {
	return StakeResponse{
		StakeID:     st.ID,
		Title:       st.Title,
		Category:    st.Category,
		Icon:        st.Icon,
		WagerAmount: st.WagerAmount,
		Deadline:    st.Deadline,
		Status:      st.Status,
	}
}

type OutcomeResponse struct {
	StakeID  string `json:"stakeId"`
	Result   string `json:"result"` // CONFIRMED | REJECTED
	Status   string `json:"status"` // VERIFIED | FAILED
	JudgeRef string `json:"judgeRef,omitempty"`
}

type DashboardResponse struct {
	Stakes []StakeResponse `json:"stakes"`
	Ledger LedgerResponse  `json:"ledger"`
	Screen string          `json:"screen"`
}

type LedgerResponse struct {
	AtRisk int64 `json:"atRisk"`
	Saved  int64 `json:"saved"`
	Lost   int64 `json:"lost"`
	Streak int   `json:"streak"`
}

package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/stakesapp/stakes-platform-poc/internal/stakes/verify"
)

// Client fala com o judge-simulator (capability externa de julgamento de
// evidência) via HTTP. O timeout fica a cargo do contexto da sessão.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(base string) *Client {
	return &Client{
		BaseURL: base,
		HTTP:    &http.Client{},
	}
}

type verifyReq struct {
	StakeID     string `json:"stakeId"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	EvidenceRef string `json:"evidenceRef"`
}

type verifyResp struct {
	Status   string `json:"status"` // CONFIRMED | REJECTED
	JudgeRef string `json:"judgeRef"`
	Reason   string `json:"reason,omitempty"`
}

// VerifyEvidence implementa verify.EvidenceVerifier.
// 422 do juiz significa que a evidência não pôde ser analisada
// (ErrEvidenceCapture); estouro de prazo vira timeout via contexto.
func (c *Client) VerifyEvidence(ctx context.Context, desc verify.StakeDescription, evidenceRef string) (verify.Verdict, error) {
	body, _ := json.Marshal(verifyReq{
		StakeID:     desc.StakeID,
		Title:       desc.Title,
		Category:    desc.Category,
		EvidenceRef: evidenceRef,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/judge/verify", bytes.NewReader(body))
	if err != nil {
		return verify.Verdict{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return verify.Verdict{}, err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusUnprocessableEntity {
		return verify.Verdict{}, fmt.Errorf("%w: judge could not analyze evidence", verify.ErrEvidenceCapture)
	}
	if res.StatusCode >= 300 {
		return verify.Verdict{}, fmt.Errorf("judge http %d", res.StatusCode)
	}

	var out verifyResp
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return verify.Verdict{}, err
	}

	return verify.Verdict{
		Result:   out.Status,
		JudgeRef: out.JudgeRef,
		Reason:   out.Reason,
	}, nil
}

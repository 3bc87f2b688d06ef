package verify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/stakesapp/stakes-platform-poc/internal/stakes/registry"
)

var (
	// ErrEvidenceCapture indica que a capability não conseguiu obter evidência
	ErrEvidenceCapture = errors.New("evidence capture failed")

	// ErrVerificationTimeout indica que a capability não respondeu dentro
	// do prazo configurado
	ErrVerificationTimeout = errors.New("verification timed out")

	// ErrSessionSpent indica reuso de uma sessão que já produziu outcome
	ErrSessionSpent = errors.New("verification session already spent")
)

// StakeDescription é o que o juiz externo recebe sobre a aposta
type StakeDescription struct {
	StakeID  string
	Title    string
	Category string
}

// Verdict é a resposta do juiz externo
type Verdict struct {
	Result   string // CONFIRMED | REJECTED
	JudgeRef string
	Reason   string
}

// EvidenceVerifier é o contrato da capability externa de julgamento.
// Dado a descrição da aposta e a referência da evidência capturada, retorna
// CONFIRMED ou REJECTED, ou falha com ErrEvidenceCapture /
// ErrVerificationTimeout. O core não assume nada sobre latência nem sobre
// o mecanismo de julgamento.
type EvidenceVerifier interface {
	VerifyEvidence(ctx context.Context, desc StakeDescription, evidenceRef string) (Verdict, error)
}

// Session é o processo de verificação de uma única stake: criada para
// exatamente uma aposta, produz exatamente um outcome e é descartada.
// Falhas da capability (captura/timeout) não gastam a sessão; a submissão
// pode ser repetida.
type Session struct {
	desc     StakeDescription
	verifier EvidenceVerifier
	timeout  time.Duration

	mu    sync.Mutex
	spent bool
}

// NewSession cria a sessão para uma stake. timeout <= 0 desativa o prazo
// imposto pelo core (a capability continua obrigada a não pendurar).
func NewSession(desc StakeDescription, v EvidenceVerifier, timeout time.Duration) *Session {
	return &Session{desc: desc, verifier: v, timeout: timeout}
}

// Submit envia a evidência para a capability e aguarda o julgamento.
// Aplica o prazo configurado; estouro vira ErrVerificationTimeout.
func (s *Session) Submit(ctx context.Context, evidenceRef string) (registry.Outcome, error) {
	s.mu.Lock()
	if s.spent {
		s.mu.Unlock()
		return registry.Outcome{}, ErrSessionSpent
	}
	s.mu.Unlock()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	verdict, err := s.verifier.VerifyEvidence(ctx, s.desc, evidenceRef)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return registry.Outcome{}, fmt.Errorf("%w: %v", ErrVerificationTimeout, err)
		}
		// falhas da capability ficam retryable; a stake segue VERIFYING
		return registry.Outcome{}, err
	}

	if verdict.Result != registry.ResultConfirmed && verdict.Result != registry.ResultRejected {
		return registry.Outcome{}, fmt.Errorf("%w: unexpected verdict %q", ErrEvidenceCapture, verdict.Result)
	}

	s.mu.Lock()
	s.spent = true
	s.mu.Unlock()

	return registry.Outcome{
		StakeID:     s.desc.StakeID,
		Result:      verdict.Result,
		EvidenceRef: evidenceRef,
		JudgeRef:    verdict.JudgeRef,
	}, nil
}

// StakeID retorna a stake alvo da sessão
func (s *Session) StakeID() string { return s.desc.StakeID }

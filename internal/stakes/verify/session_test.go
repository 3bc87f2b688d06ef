package verify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stakesapp/stakes-platform-poc/internal/stakes/registry"
)

// fakeVerifier é o double determinístico da capability externa
type fakeVerifier struct {
	verdict Verdict
	err     error
	block   bool // simula juiz pendurado (só retorna quando o contexto expira)

	calls int
}

func (f *fakeVerifier) VerifyEvidence(ctx context.Context, desc StakeDescription, evidenceRef string) (Verdict, error) {
	f.calls++
	if f.block {
		<-ctx.Done()
		return Verdict{}, ctx.Err()
	}
	return f.verdict, f.err
}

func desc() StakeDescription {
	return StakeDescription{StakeID: "stake-1", Title: "Morning 5k Run", Category: "Fitness"}
}

func TestSubmitConfirmed(t *testing.T) {
	fv := &fakeVerifier{verdict: Verdict{Result: registry.ResultConfirmed, JudgeRef: "JUDGE-1"}}
	s := NewSession(desc(), fv, time.Second)

	out, err := s.Submit(context.Background(), "blob://photo-1")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if out.StakeID != "stake-1" || out.Result != registry.ResultConfirmed {
		t.Errorf("outcome = %+v", out)
	}
	if out.EvidenceRef != "blob://photo-1" || out.JudgeRef != "JUDGE-1" {
		t.Errorf("refs = %+v", out)
	}
}

func TestSubmitRejected(t *testing.T) {
	fv := &fakeVerifier{verdict: Verdict{Result: registry.ResultRejected, Reason: "wrong shoes"}}
	s := NewSession(desc(), fv, time.Second)

	out, err := s.Submit(context.Background(), "blob://photo-1")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if out.Result != registry.ResultRejected {
		t.Errorf("result = %s, want REJECTED", out.Result)
	}
}

func TestSubmitSingleUse(t *testing.T) {
	fv := &fakeVerifier{verdict: Verdict{Result: registry.ResultConfirmed}}
	s := NewSession(desc(), fv, time.Second)

	if _, err := s.Submit(context.Background(), "blob://photo-1"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Submit(context.Background(), "blob://photo-2"); !errors.Is(err, ErrSessionSpent) {
		t.Errorf("segundo Submit: err = %v, want ErrSessionSpent", err)
	}
	if fv.calls != 1 {
		t.Errorf("capability chamada %d vezes, want 1", fv.calls)
	}
}

func TestSubmitCaptureFailureIsRetriable(t *testing.T) {
	fv := &fakeVerifier{err: ErrEvidenceCapture}
	s := NewSession(desc(), fv, time.Second)

	if _, err := s.Submit(context.Background(), ""); !errors.Is(err, ErrEvidenceCapture) {
		t.Fatalf("err = %v, want ErrEvidenceCapture", err)
	}

	// a falha não gasta a sessão; a nova tentativa pode concluir
	fv.err = nil
	fv.verdict = Verdict{Result: registry.ResultConfirmed}
	out, err := s.Submit(context.Background(), "blob://photo-2")
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if out.Result != registry.ResultConfirmed {
		t.Errorf("result = %s", out.Result)
	}
}

func TestSubmitTimeout(t *testing.T) {
	fv := &fakeVerifier{block: true}
	s := NewSession(desc(), fv, 20*time.Millisecond)

	_, err := s.Submit(context.Background(), "blob://photo-1")
	if !errors.Is(err, ErrVerificationTimeout) {
		t.Fatalf("err = %v, want ErrVerificationTimeout", err)
	}

	// timeout também é retryable
	fv.block = false
	fv.verdict = Verdict{Result: registry.ResultRejected}
	if _, err := s.Submit(context.Background(), "blob://photo-1"); err != nil {
		t.Errorf("retry após timeout: %v", err)
	}
}

func TestSubmitUnknownVerdict(t *testing.T) {
	fv := &fakeVerifier{verdict: Verdict{Result: "MAYBE"}}
	s := NewSession(desc(), fv, time.Second)

	if _, err := s.Submit(context.Background(), "blob://photo-1"); !errors.Is(err, ErrEvidenceCapture) {
		t.Errorf("err = %v, want ErrEvidenceCapture", err)
	}
}

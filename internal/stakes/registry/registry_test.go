package registry

import (
	"errors"
	"testing"
)

func mustCreate(t *testing.T, r *Registry, title string, amount int64) *Stake {
	t.Helper()
	st, err := r.Create(title, "Fitness", "🏃", amount, "10:00 AM")
	if err != nil {
		t.Fatalf("Create(%q, %d): %v", title, amount, err)
	}
	return st
}

func TestCreateValidation(t *testing.T) {
	r := New()

	tests := []struct {
		name   string
		title  string
		amount int64
	}{
		{"empty title", "", 20},
		{"blank title", "   ", 20},
		{"zero amount", "Morning 5k Run", 0},
		{"negative amount", "Morning 5k Run", -5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := r.Create(tc.title, "Fitness", "", tc.amount, ""); !errors.Is(err, ErrInvalidStake) {
				t.Errorf("err = %v, want ErrInvalidStake", err)
			}
		})
	}

	if len(r.List()) != 0 {
		t.Errorf("criação inválida não deve mutar a coleção")
	}
}

func TestCreateStartsPending(t *testing.T) {
	r := New()
	st := mustCreate(t, r, "Morning 5k Run", 20)

	if st.Status != StatusPending {
		t.Errorf("status = %s, want PENDING", st.Status)
	}
	if st.ID == "" {
		t.Error("stake sem identidade")
	}
}

func TestListMostRecentFirst(t *testing.T) {
	r := New()
	a := mustCreate(t, r, "A", 5)
	b := mustCreate(t, r, "B", 10)
	c := mustCreate(t, r, "C", 15)

	got := r.List()
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, want := range []string{c.ID, b.ID, a.ID} {
		if got[i].ID != want {
			t.Errorf("ordem[%d] = %s, want %s", i, got[i].ID, want)
		}
	}
}

func TestBeginVerificationSingleInFlight(t *testing.T) {
	r := New()
	a := mustCreate(t, r, "A", 20)
	b := mustCreate(t, r, "B", 10)

	if _, err := r.BeginVerification(a.ID); err != nil {
		t.Fatalf("BeginVerification(A): %v", err)
	}

	// segunda chamada para a mesma stake
	if _, err := r.BeginVerification(a.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("repetir BeginVerification(A): err = %v, want ErrInvalidTransition", err)
	}

	// outra stake enquanto A está VERIFYING
	if _, err := r.BeginVerification(b.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("BeginVerification(B) com A em andamento: err = %v, want ErrInvalidTransition", err)
	}

	if r.Verifying() != a.ID {
		t.Errorf("Verifying() = %s, want %s", r.Verifying(), a.ID)
	}
}

func TestResolveConfirmedAndRejected(t *testing.T) {
	r := New()
	a := mustCreate(t, r, "A", 20)
	b := mustCreate(t, r, "B", 10)

	if _, err := r.BeginVerification(a.ID); err != nil {
		t.Fatal(err)
	}
	st, err := r.Resolve(Outcome{StakeID: a.ID, Result: ResultConfirmed})
	if err != nil {
		t.Fatalf("Resolve(confirmed): %v", err)
	}
	if st.Status != StatusVerified {
		t.Errorf("status = %s, want VERIFIED", st.Status)
	}

	// lock liberado: B pode iniciar
	if _, err := r.BeginVerification(b.ID); err != nil {
		t.Fatalf("BeginVerification(B) após resolução: %v", err)
	}
	st, err = r.Resolve(Outcome{StakeID: b.ID, Result: ResultRejected})
	if err != nil {
		t.Fatalf("Resolve(rejected): %v", err)
	}
	if st.Status != StatusFailed {
		t.Errorf("status = %s, want FAILED", st.Status)
	}
}

func TestResolveIsNotRepeatable(t *testing.T) {
	r := New()
	a := mustCreate(t, r, "A", 20)

	if _, err := r.BeginVerification(a.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Resolve(Outcome{StakeID: a.ID, Result: ResultConfirmed}); err != nil {
		t.Fatal(err)
	}

	// estado terminal: resolver de novo falha, ledger não conta em dobro
	if _, err := r.Resolve(Outcome{StakeID: a.ID, Result: ResultConfirmed}); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Resolve duplicado: err = %v, want ErrInvalidTransition", err)
	}
	if led := r.Aggregate(); led.Saved != 20 {
		t.Errorf("Saved = %d, want 20", led.Saved)
	}
}

func TestResolveRequiresVerifying(t *testing.T) {
	r := New()
	a := mustCreate(t, r, "A", 20)

	if _, err := r.Resolve(Outcome{StakeID: a.ID, Result: ResultConfirmed}); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Resolve em PENDING: err = %v, want ErrInvalidTransition", err)
	}
	if _, err := r.Resolve(Outcome{StakeID: "nope", Result: ResultConfirmed}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Resolve de id desconhecido: err = %v, want ErrNotFound", err)
	}
}

func TestFindPending(t *testing.T) {
	r := New()
	a := mustCreate(t, r, "A", 20)

	if _, err := r.FindPending(a.ID); err != nil {
		t.Fatalf("FindPending(PENDING): %v", err)
	}

	if _, err := r.BeginVerification(a.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := r.FindPending(a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindPending(VERIFYING): err = %v, want ErrNotFound", err)
	}
}

// resolve leva a stake de PENDING até o estado terminal indicado
func resolveAs(t *testing.T, r *Registry, id, result string) {
	t.Helper()
	if _, err := r.BeginVerification(id); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Resolve(Outcome{StakeID: id, Result: result}); err != nil {
		t.Fatal(err)
	}
}

func TestLedgerConservation(t *testing.T) {
	r := New()
	a := mustCreate(t, r, "A", 20)
	b := mustCreate(t, r, "B", 10)
	mustCreate(t, r, "C", 35)

	total := int64(20 + 10 + 35)
	check := func(step string) {
		led := r.Aggregate()
		if led.AtRisk+led.Saved+led.Lost != total {
			t.Errorf("%s: at_risk(%d)+saved(%d)+lost(%d) != %d",
				step, led.AtRisk, led.Saved, led.Lost, total)
		}
	}

	check("inicial")

	if _, err := r.BeginVerification(a.ID); err != nil {
		t.Fatal(err)
	}
	check("com A em VERIFYING")

	if _, err := r.Resolve(Outcome{StakeID: a.ID, Result: ResultConfirmed}); err != nil {
		t.Fatal(err)
	}
	check("A verificada")

	resolveAs(t, r, b.ID, ResultRejected)
	check("B falhada")

	led := r.Aggregate()
	if led.Saved != 20 || led.Lost != 10 || led.AtRisk != 35 {
		t.Errorf("ledger = %+v", led)
	}
}

func TestLedgerStreak(t *testing.T) {
	r := New()
	ids := make([]string, 0, 4)
	for _, title := range []string{"A", "B", "C", "D"} {
		ids = append(ids, mustCreate(t, r, title, 10).ID)
	}

	resolveAs(t, r, ids[0], ResultConfirmed)
	resolveAs(t, r, ids[1], ResultConfirmed)
	if led := r.Aggregate(); led.Streak != 2 {
		t.Errorf("streak = %d, want 2", led.Streak)
	}

	// falha zera o streak
	resolveAs(t, r, ids[2], ResultRejected)
	if led := r.Aggregate(); led.Streak != 0 {
		t.Errorf("streak após falha = %d, want 0", led.Streak)
	}

	resolveAs(t, r, ids[3], ResultConfirmed)
	if led := r.Aggregate(); led.Streak != 1 {
		t.Errorf("streak recomeçado = %d, want 1", led.Streak)
	}
}

func TestReturnedStakesAreCopies(t *testing.T) {
	r := New()
	a := mustCreate(t, r, "A", 20)

	a.Status = StatusVerified // mutação externa não pode vazar pro registry
	got, err := r.Find(a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != StatusPending {
		t.Errorf("status = %s, want PENDING", got.Status)
	}
}

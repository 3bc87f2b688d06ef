package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry é o dono da coleção de stakes e de todas as transições de status.
// Estado em memória, com exclusão mútua: cada transição é atômica do ponto
// de vista do chamador. Nenhuma operação remove stakes.
type Registry struct {
	mu     sync.Mutex
	stakes map[string]*Stake
	order  []string // IDs em ordem de exibição (mais recente primeiro)

	verifyingID string // ID da stake em VERIFYING; "" quando não há
	resolveSeq  int64
}

func New() *Registry {
	return &Registry{
		stakes: make(map[string]*Stake),
	}
}

// Create aloca identidade nova, status PENDING, e insere no topo da ordem
// de exibição. Falha com ErrInvalidStake se o título for vazio ou o valor
// não for positivo.
func (r *Registry) Create(title, category, icon string, amount int64, deadline string) (*Stake, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: empty title", ErrInvalidStake)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidStake)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	st := &Stake{
		ID:          uuid.NewString(),
		Title:       title,
		Category:    category,
		Icon:        icon,
		WagerAmount: amount,
		Deadline:    deadline,
		Status:      StatusPending,
		CreatedAt:   time.Now(),
	}
	r.stakes[st.ID] = st
	r.order = append([]string{st.ID}, r.order...)

	cp := *st
	return &cp, nil
}

// Find retorna uma cópia da stake pelo ID
func (r *Registry) Find(id string) (*Stake, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.stakes[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *st
	return &cp, nil
}

// FindPending retorna a stake apenas se ainda estiver PENDING
func (r *Registry) FindPending(id string) (*Stake, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.stakes[id]
	if !ok || st.Status != StatusPending {
		return nil, ErrNotFound
	}
	cp := *st
	return &cp, nil
}

// List retorna cópias das stakes na ordem de exibição
func (r *Registry) List() []*Stake {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Stake, 0, len(r.order))
	for _, id := range r.order {
		cp := *r.stakes[id]
		out = append(out, &cp)
	}
	return out
}

// BeginVerification transiciona PENDING -> VERIFYING.
// Falha com ErrInvalidTransition se a stake não estiver PENDING ou se outra
// stake já estiver em verificação (invariante de verificação única).
func (r *Registry) BeginVerification(id string) (*Stake, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.stakes[id]
	if !ok {
		return nil, fmt.Errorf("%w: stake %s", ErrNotFound, id)
	}
	if r.verifyingID != "" {
		return nil, fmt.Errorf("%w: stake %s already verifying", ErrInvalidTransition, r.verifyingID)
	}
	if st.Status != StatusPending {
		return nil, fmt.Errorf("%w: %s -> VERIFYING", ErrInvalidTransition, st.Status)
	}

	st.Status = StatusVerifying
	r.verifyingID = st.ID

	cp := *st
	return &cp, nil
}

// Resolve consome um Outcome e transiciona VERIFYING -> VERIFIED (CONFIRMED)
// ou VERIFYING -> FAILED (REJECTED). Estados terminais nunca saem: resolver
// duas vezes a mesma stake falha com ErrInvalidTransition.
func (r *Registry) Resolve(o Outcome) (*Stake, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.stakes[o.StakeID]
	if !ok {
		return nil, fmt.Errorf("%w: stake %s", ErrNotFound, o.StakeID)
	}
	if st.Status != StatusVerifying || r.verifyingID != st.ID {
		return nil, fmt.Errorf("%w: stake %s is %s, not VERIFYING", ErrInvalidTransition, st.ID, st.Status)
	}

	switch o.Result {
	case ResultConfirmed:
		st.Status = StatusVerified
	case ResultRejected:
		st.Status = StatusFailed
	default:
		return nil, fmt.Errorf("%w: unknown result %q", ErrInvalidTransition, o.Result)
	}

	r.resolveSeq++
	st.resolvedSeq = r.resolveSeq
	st.ResolvedAt = time.Now()
	r.verifyingID = ""

	cp := *st
	return &cp, nil
}

// Verifying retorna o ID da stake atualmente em verificação ("" se nenhuma)
func (r *Registry) Verifying() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.verifyingID
}

// Aggregate recomputa o ledger a partir da coleção atual. Computação pura,
// sem efeitos colaterais. O streak é derivado da ordem de resolução:
// quantidade de VERIFIED consecutivos a partir da resolução mais recente.
func (r *Registry) Aggregate() Ledger {
	r.mu.Lock()
	defer r.mu.Unlock()

	var led Ledger
	type resolved struct {
		seq      int64
		verified bool
	}
	var history []resolved

	for _, st := range r.stakes {
		switch st.Status {
		case StatusPending, StatusVerifying:
			led.AtRisk += st.WagerAmount
		case StatusVerified:
			led.Saved += st.WagerAmount
			history = append(history, resolved{st.resolvedSeq, true})
		case StatusFailed:
			led.Lost += st.WagerAmount
			history = append(history, resolved{st.resolvedSeq, false})
		}
	}

	sort.Slice(history, func(i, j int) bool { return history[i].seq < history[j].seq })
	for i := len(history) - 1; i >= 0; i-- {
		if !history[i].verified {
			break
		}
		led.Streak++
	}

	return led
}

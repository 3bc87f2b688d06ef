package registry

import "time"

// Status de uma aposta de hábito. PENDING é o único estado inicial;
// VERIFIED e FAILED são terminais.
const (
	StatusPending   = "PENDING"
	StatusVerifying = "VERIFYING"
	StatusVerified  = "VERIFIED"
	StatusFailed    = "FAILED"
)

// Resultado do julgamento de evidência (capability externa)
const (
	ResultConfirmed = "CONFIRMED"
	ResultRejected  = "REJECTED"
)

// Stake é a aposta de hábito: dinheiro comprometido contra a conclusão
// de uma tarefa até o deadline.
type Stake struct {
	ID          string
	Title       string
	Category    string    // agrupamento de exibição, sem efeito comportamental
	Icon        string    // emoji exibido no card do app
	WagerAmount int64
	Deadline    string // informativo; nenhum job de expiração atua sobre ele
	Status      string
	CreatedAt   time.Time
	ResolvedAt  time.Time

	// ordem de resolução, usada para derivar o streak no ledger
	resolvedSeq int64
}

// Outcome é o valor transiente produzido por uma sessão de verificação
// e consumido imediatamente pelo registry.
type Outcome struct {
	StakeID     string
	Result      string // CONFIRMED | REJECTED
	EvidenceRef string
	JudgeRef    string
}

// Ledger é a projeção derivada da coleção de stakes. Não possui estado
// mutável próprio; é recomputada sob demanda.
type Ledger struct {
	AtRisk int64 `json:"at_risk"` // soma de PENDING + VERIFYING
	Saved  int64 `json:"saved"`   // soma de VERIFIED
	Lost   int64 `json:"lost"`    // soma de FAILED
	Streak int   `json:"streak"`  // resoluções VERIFIED consecutivas
}

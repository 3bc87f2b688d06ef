package wager

import "math"

// Policy define os limites do seletor de valores: mínimo, teto (configurável,
// o front exibe "100+" acima dele) e granularidade dos passos.
type Policy struct {
	Min  int64
	Max  int64
	Step int64
}

// DefaultPolicy espelha o slider do app: $5 a $100, passos de $5
func DefaultPolicy() Policy {
	return Policy{Min: 5, Max: 100, Step: 5}
}

// Selector normaliza valores de wager vindos da UI.
// É um controle de conveniência, não um gate de validação: entrada fora da
// faixa é ajustada silenciosamente, nunca rejeitada.
type Selector struct {
	policy Policy
}

func NewSelector(p Policy) *Selector {
	if p.Step <= 0 {
		p = DefaultPolicy()
	}
	return &Selector{policy: p}
}

// SetAmount arredonda o valor bruto para o passo válido mais próximo e
// limita ao intervalo [Min, Max]. Nunca falha.
func (s *Selector) SetAmount(raw float64) int64 {
	p := s.policy

	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return p.Min
	}

	stepped := int64(math.Round(raw/float64(p.Step))) * p.Step
	if stepped < p.Min {
		return p.Min
	}
	if stepped > p.Max {
		return p.Max
	}
	return stepped
}

// Policy retorna a política vigente (usada no /v1/habits e nos DTOs)
func (s *Selector) Policy() Policy { return s.policy }

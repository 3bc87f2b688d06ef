package registry

import "errors"

var (
	// ErrInvalidStake indica entrada inválida na criação (título vazio ou valor <= 0)
	ErrInvalidStake = errors.New("invalid stake")

	// ErrInvalidTransition indica transição fora da máquina de estados
	// ou violação do invariante de verificação única em andamento
	ErrInvalidTransition = errors.New("invalid transition")

	ErrNotFound = errors.New("not found")
)

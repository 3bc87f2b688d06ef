package repo

import (
	"context"
	"database/sql"

	"github.com/stakesapp/stakes-platform-poc/internal/stakes/registry"
)

// Postgres implementa o journal durável de stakes. O registry em memória é
// a fonte de verdade do processo; aqui fica o histórico anexado pela
// aplicação hospedeira (write-behind, best-effort no controller).
type Postgres struct{ db *sql.DB }

// NewPostgres retorna uma instância do journal de stakes
func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// StakeCreated insere a stake recém-criada com status PENDING
func (p *Postgres) StakeCreated(ctx context.Context, st *registry.Stake) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO stakes (id,title,category,icon,wager_amount,deadline,status,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		st.ID, st.Title, st.Category, st.Icon, st.WagerAmount, st.Deadline, st.Status, st.CreatedAt,
	)
	return err
}

// StakeTransition atualiza o status corrente e grava a linha de auditoria
func (p *Postgres) StakeTransition(ctx context.Context, st *registry.Stake, oldStatus, reason string) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx,
		`UPDATE stakes SET status=$1, updated_at=NOW() WHERE id=$2`,
		st.Status, st.ID); err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO stake_transitions (stake_id, old_status, new_status, reason, created_at)
		VALUES ($1,$2,$3,$4,NOW())`,
		st.ID, oldStatus, st.Status, reason); err != nil {
		return err
	}

	return tx.Commit()
}

// GetStatus retorna o status persistido de uma stake pelo ID
func (p *Postgres) GetStatus(ctx context.Context, stakeID string) (string, error) {
	var s string
	err := p.db.QueryRowContext(ctx, `SELECT status FROM stakes WHERE id=$1`, stakeID).Scan(&s)
	return s, err
}

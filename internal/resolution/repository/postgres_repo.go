package repository

import (
	"context"
	"database/sql"

	"github.com/stakesapp/stakes-platform-poc/pkg/contracts/events"
)

// PostgresRepo persiste o histórico de resoluções consumidas do Kafka
// DB: conexão com o banco de dados
type PostgresRepo struct {
	DB *sql.DB
}

// NewPostgresRepo retorna uma instância de repositório Postgres
func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{DB: db}
}

// InsertResolution insere a resolução no log de resoluções (stake_resolution_log)
// ON CONFLICT ignora reentrega do mesmo evento pelo consumer group
func (r *PostgresRepo) InsertResolution(ctx context.Context, e events.StakeResolved) error {
	const q = `
		INSERT INTO stake_resolution_log
		  (stake_id, result, status, wager_amount, evidence_ref, judge_ref, resolved_at)
		VALUES
		  ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (stake_id) DO NOTHING
	`
	_, err := r.DB.ExecContext(ctx, q,
		e.StakeID, e.Result, e.Status, e.WagerAmount, e.EvidenceRef, e.JudgeRef, e.Ts,
	)
	return err
}

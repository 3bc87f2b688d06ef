package consumer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/stakesapp/stakes-platform-poc/internal/resolution/repository"
	skafka "github.com/stakesapp/stakes-platform-poc/internal/shared/kafka"
	"github.com/stakesapp/stakes-platform-poc/pkg/contracts/events"
)

// Processor consome eventos stake_resolved do Kafka, persiste o log de
// resoluções e dispara o broadcast para o hub WebSocket.
// Callbacks de métricas podem ser usadas para monitoramento de cada etapa.
type Processor struct {
	Log    *zap.Logger
	Reader *kafka.Reader
	Repo   *repository.PostgresRepo
	DLQ    *kafka.Writer // opcional; recebe mensagens indeserializáveis

	OnConsumed     func()                      // métricas (counter++)
	OnPersist      func()                      // métricas
	OnError        func(string)                // métricas por fase
	OnAfterPersist func(ev events.StakeResolved) // broadcast pós-persistência
}

// Run inicia o loop principal de consumo e processamento das mensagens Kafka
func (p *Processor) Run(ctx context.Context) error {
	for {
		m, err := p.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err() // encerra se o contexto for cancelado
			}
			p.Log.Warn("kafka read failed", zap.Error(err))
			if p.OnError != nil {
				p.OnError("read")
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		if p.OnConsumed != nil {
			p.OnConsumed() // callback de métrica: mensagem consumida
		}

		var ev events.StakeResolved
		if err := json.Unmarshal(m.Value, &ev); err != nil {
			p.Log.Warn("invalid message", zap.Error(err))
			if p.OnError != nil {
				p.OnError("decode")
			}
			if p.DLQ != nil {
				_ = skafka.WriteJSON(ctx, p.DLQ, string(m.Key), m.Value)
			}
			continue
		}

		// Persiste o log de resolução no Postgres
		if err := p.Repo.InsertResolution(ctx, ev); err != nil {
			p.Log.Warn("db insert resolution failed", zap.Error(err))
			if p.OnError != nil {
				p.OnError("db_insert")
			}
			continue
		}
		if p.OnPersist != nil {
			p.OnPersist() // callback de métrica: persistência concluída
		}

		if p.OnAfterPersist != nil {
			p.OnAfterPersist(ev)
		}
	}
}

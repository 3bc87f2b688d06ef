package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/stakesapp/stakes-platform-poc/internal/stakes/registry"
	"github.com/stakesapp/stakes-platform-poc/pkg/contracts/events"
)

// KafkaPublisher publica os eventos de domínio do stakes-service
type KafkaPublisher struct {
	CreatedWriter  *kafka.Writer
	ResolvedWriter *kafka.Writer
}

func NewKafkaPublisher(created, resolved *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{CreatedWriter: created, ResolvedWriter: resolved}
}

func (p *KafkaPublisher) PublishStakeCreated(ctx context.Context, st *registry.Stake) error {
	e := events.StakeCreated{
		StakeID:     st.ID,
		Title:       st.Title,
		Category:    st.Category,
		WagerAmount: st.WagerAmount,
		Deadline:    st.Deadline,
		TsUnixMs:    time.Now().UnixMilli(),
	}
	b, _ := json.Marshal(e)
	return p.CreatedWriter.WriteMessages(ctx, kafka.Message{Key: []byte(st.ID), Value: b})
}

func (p *KafkaPublisher) PublishStakeResolved(ctx context.Context, st *registry.Stake, o registry.Outcome) error {
	e := events.StakeResolved{
		StakeID:     st.ID,
		Result:      o.Result,
		Status:      st.Status,
		WagerAmount: st.WagerAmount,
		EvidenceRef: o.EvidenceRef,
		JudgeRef:    o.JudgeRef,
		Ts:          time.Now(),
	}
	b, _ := json.Marshal(e)
	return p.ResolvedWriter.WriteMessages(ctx, kafka.Message{Key: []byte(st.ID), Value: b})
}

package events

import (
	"context"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

// OutboxEvent is a stored message waiting for delivery.
type OutboxEvent struct {
	ID      int64  `db:"id"`
	Topic   string `db:"topic"`
	Key     string `db:"key"`
	Payload []byte `db:"payload"`
}

type OutboxSource interface {
	FetchUnsentEvents(ctx context.Context, limit int) ([]OutboxEvent, error)
	MarkEventsSent(ctx context.Context, ids []int64) error
}

// Relay drains the outbox to Kafka. Delivery is at-least-once: a row
// is marked sent only after the broker acks, so a crash in between
// re-sends it on the next pass.
type Relay struct {
	outbox   OutboxSource
	producer sarama.SyncProducer
	interval time.Duration
	batch    int
	log      *zap.Logger
}

func NewRelay(outbox OutboxSource, producer sarama.SyncProducer, interval time.Duration, log *zap.Logger) *Relay {
	return &Relay{
		outbox:   outbox,
		producer: producer,
		interval: interval,
		batch:    100,
		log:      log.Named("relay"),
	}
}

func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := r.Drain(ctx); err != nil {
				r.log.Error("drain outbox", zap.Error(err))
			}
		case <-ctx.Done():
			return nil
		}
	}
}

// Drain sends every pending batch until the outbox is empty.
func (r *Relay) Drain(ctx context.Context) error {
	for {
		evts, err := r.outbox.FetchUnsentEvents(ctx, r.batch)
		if err != nil {
			return err
		}
		if len(evts) == 0 {
			return nil
		}

		sent := make([]int64, 0, len(evts))
		for _, evt := range evts {
			msg := &sarama.ProducerMessage{
				Topic: evt.Topic,
				Key:   sarama.StringEncoder(evt.Key),
				Value: sarama.ByteEncoder(evt.Payload),
			}
			if _, _, err := r.producer.SendMessage(msg); err != nil {
				// keep ordering per key: stop the batch, retry next pass
				r.log.Error("send message",
					zap.String("topic", evt.Topic),
					zap.String("key", evt.Key),
					zap.Error(err))
				break
			}
			sent = append(sent, evt.ID)
		}
		if len(sent) > 0 {
			if err := r.outbox.MarkEventsSent(ctx, sent); err != nil {
				return err
			}
		}
		if len(sent) < len(evts) {
			return nil
		}
	}
}

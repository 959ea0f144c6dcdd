package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/bookvault/borrowing-service/internal/events"
)

// EnqueueEvents stores messages outside of any surrounding transaction,
// for producers (the sweeps) that have no loan write to pair with.
func (r *repository) EnqueueEvents(ctx context.Context, msgs ...events.Message) error {
	return r.enqueueEvents(ctx, r.db, msgs...)
}

func (r *repository) enqueueEvents(ctx context.Context, ext sqlx.ExtContext, msgs ...events.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	b := qb.Insert(outboxTableName).Columns("topic", "key", "payload")
	for _, msg := range msgs {
		b = b.Values(msg.Topic, msg.Key, msg.Payload)
	}
	q, args, err := b.ToSql()
	if err != nil {
		return err
	}
	_, err = ext.ExecContext(ctx, q, args...)
	return err
}

func (r *repository) FetchUnsentEvents(ctx context.Context, limit int) ([]events.OutboxEvent, error) {
	q, args, err := qb.Select("id", "topic", "key", "payload").
		From(outboxTableName).
		Where(sq.Eq{"sent_at": nil}).
		OrderBy("id").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, err
	}
	var evts []events.OutboxEvent
	if err := r.db.SelectContext(ctx, &evts, q, args...); err != nil {
		return nil, err
	}
	return evts, nil
}

func (r *repository) MarkEventsSent(ctx context.Context, ids []int64) error {
	q, args, err := qb.Update(outboxTableName).
		Set("sent_at", sq.Expr("now()")).
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, q, args...)
	return err
}

package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	TopicLoanCreated     = "loan.created"
	TopicLoanReturned    = "loan.returned"
	TopicLoanOverdue     = "loan.overdue"
	TopicLoanOverdueFine = "loan.overdue.fine"
	TopicLoanDueReminder = "loan.due.reminder"
)

// LoanEvent is the outbound payload shared by all loan topics.
// Consumers pick the fields relevant to the eventType.
type LoanEvent struct {
	EventType    string     `json:"eventType"`
	LoanID       string     `json:"loanId"`
	UserID       int64      `json:"userId"`
	Email        string     `json:"email,omitempty"`
	BookID       int64      `json:"bookId,omitempty"`
	BookTitle    string     `json:"bookTitle,omitempty"`
	Quantity     int        `json:"quantity,omitempty"`
	DueDate      *time.Time `json:"dueDate,omitempty"`
	ReturnedAt   *time.Time `json:"returnedAt,omitempty"`
	FineAmount   float64    `json:"fineAmount,omitempty"`
	OverdueDays  int        `json:"overdueDays,omitempty"`
	DaysUntilDue int        `json:"daysUntilDue,omitempty"`
	Timestamp    time.Time  `json:"timestamp"`
}

// Message is a serialized event bound for a topic, keyed by loan id so
// all events of one loan land on the same partition.
type Message struct {
	Topic   string
	Key     string
	Payload []byte
}

func NewMessage(topic string, event LoanEvent) (Message, error) {
	event.EventType = topic
	payload, err := json.Marshal(event)
	if err != nil {
		return Message{}, err
	}
	return Message{Topic: topic, Key: event.LoanID, Payload: payload}, nil
}

// UserEmail mirrors the placeholder address the notification service
// expects until a user-profile lookup exists.
func UserEmail(userID int64) string {
	return fmt.Sprintf("user%d@bookvault.com", userID)
}

// Enqueuer durably stores messages for later delivery.
type Enqueuer interface {
	EnqueueEvents(ctx context.Context, msgs ...Message) error
}

type Publisher interface {
	Publish(ctx context.Context, msg Message)
}

// outboxPublisher hands messages to the outbox; the relay delivers
// them to the bus. Enqueue failures are logged and swallowed, the
// caller never blocks on delivery.
type outboxPublisher struct {
	outbox Enqueuer
	log    *zap.Logger
}

func NewOutboxPublisher(outbox Enqueuer, log *zap.Logger) Publisher {
	return &outboxPublisher{
		outbox: outbox,
		log:    log.Named("publisher"),
	}
}

func (p *outboxPublisher) Publish(ctx context.Context, msg Message) {
	if err := p.outbox.EnqueueEvents(ctx, msg); err != nil {
		p.log.Error("enqueue event",
			zap.String("topic", msg.Topic),
			zap.String("key", msg.Key),
			zap.Error(err))
	}
}

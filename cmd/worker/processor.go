package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-lambda-go/events"

	itemevents "github.com/imrishuroy/go-wardrobe-api/internal/events"
	"github.com/imrishuroy/go-wardrobe-api/internal/logger"
)

// Processor consumes item lifecycle events from the items queue and writes an
// audit line for each one.
type Processor struct {
	log *logger.Logger
}

func NewProcessor(log *logger.Logger) *Processor {
	return &Processor{log: log.With("ItemEventWorker")}
}

// Handle processes an SQS batch. Bad messages are reported one by one as batch
// item failures so the rest of the batch is not redelivered.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) (events.SQSEventResponse, error) {
	var resp events.SQSEventResponse
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			p.log.Error("rejecting message", "message_id", rec.MessageId, "error", err)
			resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{
				ItemIdentifier: rec.MessageId,
			})
		}
	}
	return resp, nil
}

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	var e itemevents.Event
	if err := json.Unmarshal([]byte(rec.Body), &e); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}
	if e.ItemID == "" {
		return fmt.Errorf("event without item id")
	}

	// attributes are set by the publisher and must agree with the body
	if attr, ok := rec.MessageAttributes["event_type"]; ok && attr.StringValue != nil && *attr.StringValue != e.Type {
		return fmt.Errorf("event_type attribute %q does not match body %q", *attr.StringValue, e.Type)
	}

	switch e.Type {
	case itemevents.ItemCreated, itemevents.ItemUpdated:
		if e.Item == nil {
			return fmt.Errorf("%s event for %s carries no item", e.Type, e.ItemID)
		}
	case itemevents.ItemDeleted:
	default:
		return fmt.Errorf("unknown event type %q", e.Type)
	}

	p.log.Info("item event", "type", e.Type, "item_id", e.ItemID, "user_id", e.UserID, "occurred_at", e.OccurredAt)
	return nil
}

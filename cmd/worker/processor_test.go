package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imrishuroy/go-wardrobe-api/internal/logger"
)

func strPtr(s string) *string { return &s }

func TestProcessor_Handle(t *testing.T) {
	var buf bytes.Buffer
	p := NewProcessor(logger.New(&buf, logger.INFO, false))

	ev := events.SQSEvent{Records: []events.SQSMessage{
		{
			MessageId: "ok-create",
			Body:      `{"type":"item.created","item_id":"i1","user_id":"user-123","occurred_at":"2024-01-15T00:00:00Z","item":{"id":"i1"}}`,
			MessageAttributes: map[string]events.SQSMessageAttribute{
				"event_type": {DataType: "String", StringValue: strPtr("item.created")},
			},
		},
		{MessageId: "ok-delete", Body: `{"type":"item.deleted","item_id":"i1"}`},
		{MessageId: "not-json", Body: `{`},
		{MessageId: "no-id", Body: `{"type":"item.deleted"}`},
		{MessageId: "unknown-type", Body: `{"type":"item.sold","item_id":"i1"}`},
		{MessageId: "missing-item", Body: `{"type":"item.updated","item_id":"i1"}`},
		{
			MessageId: "attr-mismatch",
			Body:      `{"type":"item.deleted","item_id":"i1"}`,
			MessageAttributes: map[string]events.SQSMessageAttribute{
				"event_type": {DataType: "String", StringValue: strPtr("item.created")},
			},
		},
	}}

	resp, err := p.Handle(context.Background(), ev)
	require.NoError(t, err)

	var failed []string
	for _, f := range resp.BatchItemFailures {
		failed = append(failed, f.ItemIdentifier)
	}
	assert.Equal(t, []string{"not-json", "no-id", "unknown-type", "missing-item", "attr-mismatch"}, failed)

	out := buf.String()
	assert.Contains(t, out, "type=item.created")
	assert.NotContains(t, out, "user-123", "user ids are hashed outside development")
}

package aws

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imrishuroy/go-wardrobe-api/internal/logger"
	"github.com/imrishuroy/go-wardrobe-api/internal/metrics"
)

type mockCloudWatch struct {
	mu     sync.Mutex
	inputs []*cloudwatch.PutMetricDataInput
	err    error
}

func (m *mockCloudWatch) PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.inputs = append(m.inputs, params)
	return &cloudwatch.PutMetricDataOutput{}, nil
}

func (m *mockCloudWatch) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.inputs)
}

func TestMetricsRecorder_FlushBatches(t *testing.T) {
	cw := &mockCloudWatch{}
	rec := NewMetricsRecorder(cw, "WardrobeAPI", logger.Discard())
	ctx := context.Background()

	// two datums per request
	for i := 0; i < 501; i++ {
		rec.ObserveRequest(ctx, metrics.Request{Route: "/items", Method: "GET", Status: 200, Latency: 5 * time.Millisecond})
	}
	require.NoError(t, rec.Flush(ctx))

	require.Len(t, cw.inputs, 2)
	assert.Len(t, cw.inputs[0].MetricData, 1000)
	assert.Len(t, cw.inputs[1].MetricData, 2)
	assert.Equal(t, "WardrobeAPI", *cw.inputs[0].Namespace)

	latency := cw.inputs[0].MetricData[1]
	assert.Equal(t, "Latency", *latency.MetricName)
	assert.Equal(t, 5.0, *latency.Value)
	require.Len(t, latency.Dimensions, 3)
	assert.Equal(t, "2xx", *latency.Dimensions[2].Value)

	require.NoError(t, rec.Flush(ctx))
	assert.Len(t, cw.inputs, 2, "empty flush should not call CloudWatch")
}

func TestMetricsRecorder_FlushError(t *testing.T) {
	cw := &mockCloudWatch{err: errors.New("throttled")}
	rec := NewMetricsRecorder(cw, "ns", logger.Discard())

	rec.ObserveRequest(context.Background(), metrics.Request{Route: "/", Method: "GET", Status: 500})
	assert.ErrorContains(t, rec.Flush(context.Background()), "throttled")
}

func TestMetricsRecorder_RunFlushesOnCancel(t *testing.T) {
	cw := &mockCloudWatch{}
	rec := NewMetricsRecorder(cw, "ns", logger.Discard())
	rec.ObserveRequest(context.Background(), metrics.Request{Route: "/health", Method: "GET", Status: 200})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		rec.Run(ctx, time.Hour)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Equal(t, 1, cw.calls())
}

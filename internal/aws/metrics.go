package aws

import (
	"context"
	"fmt"
	"sync"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/imrishuroy/go-wardrobe-api/internal/logger"
	"github.com/imrishuroy/go-wardrobe-api/internal/metrics"
)

// maxDatumsPerCall is the PutMetricData limit.
const maxDatumsPerCall = 1000

// MetricsRecorder buffers request metrics and ships them to CloudWatch in batches.
type MetricsRecorder struct {
	client    CloudWatchAPI
	namespace string
	nowFunc   func() time.Time
	log       *logger.Logger

	mu      sync.Mutex
	pending []cwtypes.MetricDatum
}

// NewMetricsRecorder returns a recorder writing into namespace.
func NewMetricsRecorder(client CloudWatchAPI, namespace string, log *logger.Logger) *MetricsRecorder {
	if log == nil {
		log = logger.Default()
	}
	return &MetricsRecorder{
		client:    client,
		namespace: namespace,
		nowFunc:   time.Now,
		log:       log.With("Metrics"),
	}
}

// ObserveRequest implements metrics.Recorder. It never blocks on the network.
func (m *MetricsRecorder) ObserveRequest(_ context.Context, r metrics.Request) {
	dims := []cwtypes.Dimension{
		{Name: sdkaws.String("Route"), Value: sdkaws.String(r.Route)},
		{Name: sdkaws.String("Method"), Value: sdkaws.String(r.Method)},
		{Name: sdkaws.String("StatusClass"), Value: sdkaws.String(r.StatusClass())},
	}
	ts := m.nowFunc()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = append(m.pending,
		cwtypes.MetricDatum{
			MetricName: sdkaws.String("RequestCount"),
			Dimensions: dims,
			Timestamp:  &ts,
			Unit:       cwtypes.StandardUnitCount,
			Value:      sdkaws.Float64(1),
		},
		cwtypes.MetricDatum{
			MetricName: sdkaws.String("Latency"),
			Dimensions: dims,
			Timestamp:  &ts,
			Unit:       cwtypes.StandardUnitMilliseconds,
			Value:      sdkaws.Float64(float64(r.Latency) / float64(time.Millisecond)),
		},
	)
}

// Flush sends everything buffered so far. Data from a failed call is dropped.
func (m *MetricsRecorder) Flush(ctx context.Context) error {
	m.mu.Lock()
	batch := m.pending
	m.pending = nil
	m.mu.Unlock()

	for len(batch) > 0 {
		n := len(batch)
		if n > maxDatumsPerCall {
			n = maxDatumsPerCall
		}
		_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
			Namespace:  &m.namespace,
			MetricData: batch[:n],
		})
		if err != nil {
			return fmt.Errorf("put metric data: %w", err)
		}
		batch = batch[n:]
	}
	return nil
}

// Run flushes every interval until ctx is cancelled, then flushes once more.
func (m *MetricsRecorder) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			if err := m.Flush(context.Background()); err != nil {
				m.log.Warn("final metrics flush failed", "error", err)
			}
			return
		case <-ticker.C:
			if err := m.Flush(ctx); err != nil {
				m.log.Warn("metrics flush failed", "error", err)
			}
		}
	}
}

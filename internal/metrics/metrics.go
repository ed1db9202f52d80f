package metrics

import (
	"context"
	"strconv"
	"time"
)

// Request describes one finished HTTP request.
type Request struct {
	Route   string
	Method  string
	Status  int
	Latency time.Duration
}

// StatusClass returns "2xx", "4xx" and so on.
func (r Request) StatusClass() string {
	if r.Status < 100 || r.Status > 599 {
		return "unknown"
	}
	return strconv.Itoa(r.Status/100) + "xx"
}

// Recorder collects request measurements.
type Recorder interface {
	ObserveRequest(ctx context.Context, r Request)
}

// Noop discards every measurement.
type Noop struct{}

func (Noop) ObserveRequest(context.Context, Request) {}

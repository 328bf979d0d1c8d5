package api

import (
	"fmt"
	"io"
	"time"
)

// CallEvent records metadata about a single platform API call.
type CallEvent struct {
	Method    string
	URL       string
	Status    int
	LatencyMs int64
	Err       string
}

// Observer receives events about API calls for logging and diagnostics.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver writes API call events to an io.Writer.
type LogObserver struct {
	w io.Writer
}

// NewLogObserver creates an Observer that logs events to w.
func NewLogObserver(w io.Writer) *LogObserver {
	return &LogObserver{w: w}
}

func (o *LogObserver) OnCallComplete(event CallEvent) {
	ts := time.Now().UTC().Format(time.RFC3339)
	status := fmt.Sprintf("%d", event.Status)
	if event.Err != "" {
		status = "err:" + event.Err
	}
	fmt.Fprintf(o.w, "[%s] api_call method=%s url=%s status=%s latency_ms=%d\n",
		ts, event.Method, event.URL, status, event.LatencyMs)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}

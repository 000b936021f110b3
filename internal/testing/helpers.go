package testing

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/imamik/iotflow/internal/config"
	"github.com/imamik/iotflow/internal/provisioning"
)

// TestContext returns a context with a reasonable timeout for tests.
func TestContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// NewProvisioningContext returns a provisioning context for the fixture
// Target that records its events in a RecordingObserver.
func NewProvisioningContext(t *testing.T, cfg *config.Config, providers provisioning.Providers) (*provisioning.Context, *RecordingObserver) {
	t.Helper()
	ctx := provisioning.NewContext(TestContext(t), cfg, Target, providers)
	observer := NewRecordingObserver()
	ctx.SetObserver(observer)
	return ctx, observer
}

// RecordingObserver is a provisioning.Observer that keeps every event.
type RecordingObserver struct {
	mu       *sync.Mutex
	events   *[]provisioning.Event
	messages *[]string
	fields   map[string]string
}

// NewRecordingObserver creates an empty recording observer.
func NewRecordingObserver() *RecordingObserver {
	return &RecordingObserver{
		mu:       &sync.Mutex{},
		events:   &[]provisioning.Event{},
		messages: &[]string{},
		fields:   map[string]string{},
	}
}

func (o *RecordingObserver) Printf(format string, _ ...interface{}) {
	o.mu.Lock()
	defer o.mu.Unlock()
	*o.messages = append(*o.messages, format)
}

func (o *RecordingObserver) Event(event provisioning.Event) {
	o.mu.Lock()
	defer o.mu.Unlock()
	*o.events = append(*o.events, event)
}

func (o *RecordingObserver) Progress(string, int, int) {}

// WithFields returns an observer sharing this observer's records.
func (o *RecordingObserver) WithFields(fields map[string]string) provisioning.Observer {
	merged := make(map[string]string, len(o.fields)+len(fields))
	for k, v := range o.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &RecordingObserver{mu: o.mu, events: o.events, messages: o.messages, fields: merged}
}

// Events returns the recorded events.
func (o *RecordingObserver) Events() []provisioning.Event {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]provisioning.Event(nil), *o.events...)
}

// EventsOfType returns the recorded events of type typ.
func (o *RecordingObserver) EventsOfType(typ provisioning.EventType) []provisioning.Event {
	var out []provisioning.Event
	for _, e := range o.Events() {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

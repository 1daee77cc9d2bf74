package mt02

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intelcon-group/gt06-gateway/internal/devicestate"
	"github.com/intelcon-group/gt06-gateway/internal/logging"
	"github.com/intelcon-group/gt06-gateway/internal/output"
)

type fakeSender struct {
	mu    sync.Mutex
	calls []string
}

func (f *fakeSender) Send(deviceID, inputSourceName, outputProtocol string, data []byte, packetType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, deviceID)
	return nil
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newTestSource(t *testing.T, handler http.HandlerFunc) (*Source, *fakeSender) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := devicestate.NewMemoryStore()
	registry := output.NewRegistry()
	output.RegisterGT06(registry, 0xA0)
	sender := &fakeSender{}
	processor := output.NewProcessor(store, registry, sender, "gt06", logging.New())
	client := NewClient(srv.URL, "test-key")

	return NewSource(client, store, processor, logging.New(), 20*time.Millisecond), sender
}

func TestSource_PollOnce_ForwardsFreshReport(t *testing.T) {
	source, sender := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]vendorRecordWire{
			"dev1": {Timestamp: 1000, Lat: floatPtr(-23.5505), Lng: floatPtr(-46.6333)},
		})
	})

	source.pollOnce(context.Background())
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, 1, sender.count())
}

func TestSource_PollOnce_DuplicateTimestampSkipsForward(t *testing.T) {
	source, sender := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]vendorRecordWire{
			"dev1": {Timestamp: 1000, Lat: floatPtr(-23.5505), Lng: floatPtr(-46.6333)},
		})
	})

	ctx := context.Background()
	source.pollOnce(ctx)
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, 1, sender.count())

	source.pollOnce(ctx)
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, 1, sender.count())
}

func TestSource_IsNew_AbsentRecordIsNew(t *testing.T) {
	source, _ := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]vendorRecordWire{})
	})

	assert.True(t, source.isNew(context.Background(), "dev1", 1000))
}

func TestSource_Name(t *testing.T) {
	source, _ := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]vendorRecordWire{})
	})

	assert.Equal(t, "mt02", source.Name())
}

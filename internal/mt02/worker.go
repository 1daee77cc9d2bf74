package mt02

import (
	"context"
	"strconv"
	"time"

	"github.com/intelcon-group/gt06-gateway/internal/devicestate"
	"github.com/intelcon-group/gt06-gateway/internal/logging"
	"github.com/intelcon-group/gt06-gateway/internal/output"
)

const sourceName = "mt02"

// Source is the MT02 input source (C9): it satisfies registry.InputSource,
// polling the vendor API on a fixed interval, deduping by timestamp
// against the device state store, and forwarding fresh fixes to the
// output processor.
type Source struct {
	client       *Client
	store        devicestate.Store
	processor    *output.Processor
	log          *logging.Logger
	pollInterval time.Duration
}

// NewSource constructs a Source. pollInterval defaults to 10 seconds
// when zero.
func NewSource(client *Client, store devicestate.Store, processor *output.Processor, log *logging.Logger, pollInterval time.Duration) *Source {
	if pollInterval <= 0 {
		pollInterval = 10 * time.Second
	}
	return &Source{
		client:       client,
		store:        store,
		processor:    processor,
		log:          log.With(sourceName),
		pollInterval: pollInterval,
	}
}

// Name identifies this input source, matching device hash keys and the
// registry lookup sessions use.
func (s *Source) Name() string {
	return sourceName
}

// StartWorker polls the vendor API until ctx is cancelled, spawning a
// goroutine per fresh report per device — mirroring one-thread-per-fix
// dispatch from the original worker loop.
func (s *Source) StartWorker(ctx context.Context) {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	s.pollOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.pollOnce(ctx)
		}
	}
}

func (s *Source) pollOnce(ctx context.Context) {
	records, err := s.client.FetchAll()
	if err != nil {
		s.log.Error("fetch_all failed: %v", err)
		return
	}

	for deviceID, rec := range records {
		if !s.isNew(ctx, deviceID, rec.Timestamp) {
			continue
		}
		key := "device:mt02:" + deviceID
		if err := s.store.HSet(ctx, key, "last_timestamp", strconv.FormatInt(rec.Timestamp, 10)); err != nil {
			s.log.Warn("failed to persist last_timestamp for device %s: %v", deviceID, err)
			continue
		}
		go s.ProcessLocation(ctx, deviceID, rec)
	}
}

// isNew reports whether timestamp is strictly newer than the device's
// last recorded timestamp, treating an absent record as new.
func (s *Source) isNew(ctx context.Context, deviceID string, timestamp int64) bool {
	v, ok, err := s.store.HGet(ctx, "device:mt02:"+deviceID, "last_timestamp")
	if err != nil || !ok || v == "" {
		return true
	}
	last, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return true
	}
	return timestamp > last
}

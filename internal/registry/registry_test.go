package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	name string
}

func (s stubSource) Name() string                        { return s.name }
func (s stubSource) StartWorker(ctx context.Context)      {}
func (s stubSource) HandleCommand(deviceID, command string) {}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := New()
	r.Register(stubSource{name: "mt02"})

	src, ok := r.Get("mt02")
	require.True(t, ok)
	assert.Equal(t, "mt02", src.Name())
}

func TestRegistry_GetUnknownReturnsFalse(t *testing.T) {
	r := New()
	_, ok := r.Get("missing")
	assert.False(t, ok)
}

func TestRegistry_RegisterDuplicatePanics(t *testing.T) {
	r := New()
	r.Register(stubSource{name: "mt02"})

	assert.Panics(t, func() {
		r.Register(stubSource{name: "mt02"})
	})
}

func TestRegistry_All(t *testing.T) {
	r := New()
	r.Register(stubSource{name: "mt02"})
	r.Register(stubSource{name: "other"})

	assert.Len(t, r.All(), 2)
}

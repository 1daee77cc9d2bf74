package adminhttp

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/intelcon-group/gt06-gateway/internal/logging"
)

func TestHub_SessionEvent_DoesNotBlockWithoutRunLoop(t *testing.T) {
	h := NewHub(logging.New())

	assert.NotPanics(t, func() {
		h.SessionEvent("dev1", "connected")
	})
}

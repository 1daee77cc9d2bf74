package mt02

import (
	"testing"

	"github.com/intelcon-group/gt06-gateway/internal/logging"
)

func TestSource_HandleCommand_DoesNotPanic(t *testing.T) {
	source := &Source{log: logging.New()}
	source.HandleCommand("dev1", "PING")
}

package companion

import (
	"time"

	"github.com/teslashibe/dance-companion/pkg/display"
	"github.com/teslashibe/dance-companion/pkg/mirror"
)

// DefaultWaitBudget is how long each iteration waits for the cancel key.
// It also throttles the loop to roughly 30 fps.
const DefaultWaitBudget = 30 * time.Millisecond

// Config holds the orchestration settings. It is data only.
type Config struct {
	Style      mirror.Style  // Mirrored skeleton appearance
	WaitBudget time.Duration // Per-iteration wait for the cancel key
	QuitKey    int           // Key that stops the loop
}

// DefaultConfig returns the default loop configuration.
func DefaultConfig() Config {
	return Config{
		Style:      mirror.DefaultStyle(),
		WaitBudget: DefaultWaitBudget,
		QuitKey:    display.KeyQuit,
	}
}

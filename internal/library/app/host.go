package app

import (
	"log/slog"
	"sync"

	"github.com/aussiebroadwan/libris/internal/library/navigation"
)

// transition is a screen change as the terminal reports it.
type transition struct {
	Reset  bool              `json:"reset"`
	Screen navigation.Screen `json:"screen"`
	Params navigation.Params `json:"params,omitempty"`
}

// terminalHost stands in for a UI router: it remembers the last screen
// change so commands can print where the user ended up.
type terminalHost struct {
	logger *slog.Logger

	mu   sync.Mutex
	last transition
}

func (h *terminalHost) Reset(screen navigation.Screen, params navigation.Params) {
	h.record(transition{Reset: true, Screen: screen, Params: params})
}

func (h *terminalHost) Navigate(screen navigation.Screen, params navigation.Params) {
	h.record(transition{Screen: screen, Params: params})
}

func (h *terminalHost) record(t transition) {
	h.mu.Lock()
	h.last = t
	h.mu.Unlock()
	h.logger.Debug("screen_changed", "screen", t.Screen, "reset", t.Reset)
}

func (h *terminalHost) Last() transition {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last
}

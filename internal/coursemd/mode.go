package coursemd

import (
	"fmt"
	"strings"
)

// Mode selects how standalone links and embeds are treated.
type Mode int

const (
	// ModeDefault removes standalone URL lines and video embeds while cleaning.
	ModeDefault Mode = iota
	// ModeFull keeps them so the renderer can turn them into resource cards.
	// Chapters left empty after cleaning are dropped.
	ModeFull
)

// String returns the mode name as accepted by ParseMode.
func (m Mode) String() string {
	switch m {
	case ModeFull:
		return "full"
	default:
		return "default"
	}
}

// ParseMode converts a mode name into a Mode.
// Accepts "default", "simple", "full" and the empty string (default).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default", "simple":
		return ModeDefault, nil
	case "full":
		return ModeFull, nil
	default:
		return ModeDefault, fmt.Errorf("unknown mode %q (use default or full)", s)
	}
}

package agent

const (
	// DefaultRetries is how many constrained deals the Determinizer tries
	// before falling back to an unconstrained partition.
	DefaultRetries = 30

	// DefaultWeakSuitLimit: a suit is weak for a seat when it could hold at
	// most this many cards of it.
	DefaultWeakSuitLimit = 4

	DefaultWindow = 5
	MinWindow     = 1
	MaxWindow     = 10

	// ModeScale multiplies the matching heuristic component when any active
	// opponent shows that mode.
	ModeScale = 1.5
)

// Mode is the play style inferred for an opponent from recent history.
type Mode uint8

const (
	ModeNeutral          Mode = iota
	ModeTunnelAggressive      // opens tunnel ends early
	ModeBlocker               // sits on cards next to the sevens and passes
)

func (m Mode) String() string {
	switch m {
	case ModeTunnelAggressive:
		return "tunnel-aggressive"
	case ModeBlocker:
		return "blocker"
	}
	return "neutral"
}

package reason

// Reason defines the set of predefined CT ban reasons.
type Reason int

const (
	// Manual is a plain operator issued ban.
	Manual Reason = iota + 1
	// Freekill is killing a teammate without provocation.
	Freekill
	// Leaver is disconnecting before the match concludes.
	Leaver
)

func (r Reason) String() string {
	return map[Reason]string{
		Manual:   "Manual",
		Freekill: "Freekill",
		Leaver:   "Leaver",
	}[r]
}

func (r Reason) Valid() bool {
	switch r {
	case Manual, Freekill, Leaver:
		return true
	default:
		return false
	}
}

var Reasons = []Reason{ //nolint:gochecknoglobals
	Manual,
	Freekill,
	Leaver,
}

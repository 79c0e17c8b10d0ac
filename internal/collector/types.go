package collector

import (
	"strings"
	"time"
)

// State is the charging state of a battery.
type State int

const (
	StateUnknown State = iota
	StateCharging
	StateDischarging
	StateFull
	StateNotCharging
)

var stateNames = map[State]string{
	StateUnknown:     "Unknown",
	StateCharging:    "Charging",
	StateDischarging: "Discharging",
	StateFull:        "Full",
	StateNotCharging: "NotCharging",
}

// String returns the name written to the record log.
func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return stateNames[StateUnknown]
}

// ParseState maps a record-log name or a sysfs status string to a State.
// Unrecognised values map to StateUnknown.
func ParseState(s string) State {
	switch strings.ToLower(strings.Join(strings.Fields(s), "")) {
	case "charging":
		return StateCharging
	case "discharging":
		return StateDischarging
	case "full":
		return StateFull
	case "notcharging":
		return StateNotCharging
	default:
		return StateUnknown
	}
}

// MarshalText encodes the state by name, so JSON carries "Charging" rather
// than an ordinal.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	*s = ParseState(string(text))
	return nil
}

// Sample holds one observation of the first battery on the host.
type Sample struct {
	Timestamp        time.Time `json:"timestamp"`
	Percentage       float64   `json:"percentage"`
	Model            string    `json:"model"`
	State            State     `json:"state"`
	CycleCount       *int      `json:"cycle_count,omitempty"` // nil when the battery does not report it
	EnergyFull       float64   `json:"energy_full_wh"`
	EnergyFullDesign float64   `json:"energy_full_design_wh"`
	Energy           float64   `json:"energy_wh"`
	Voltage          float64   `json:"voltage_v"`
}

// Reader reads the instantaneous state of the first available battery.
// The returned sample has no timestamp; the caller stamps it.
type Reader interface {
	Read() (*Sample, error)
}

package collector

import (
	"fmt"

	"github.com/distatus/battery"
)

// DistatusReader reads the first battery through github.com/distatus/battery.
// The library does not expose model names or cycle counts, so those fields
// are always empty.
type DistatusReader struct {
	getAll func() ([]*battery.Battery, error)
}

// NewDistatusReader returns a portable reader.
func NewDistatusReader() *DistatusReader {
	return &DistatusReader{getAll: battery.GetAll}
}

// Read implements Reader.
func (r *DistatusReader) Read() (*Sample, error) {
	batteries, err := r.getAll()
	// GetAll reports per-battery partial failures alongside usable values,
	// so an error only matters when nothing came back.
	if len(batteries) == 0 || batteries[0] == nil {
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoBattery, err)
		}
		return nil, ErrNoBattery
	}

	b := batteries[0]
	s := &Sample{
		State:            fromDistatusState(b.State.Raw),
		EnergyFull:       b.Full / 1000,
		EnergyFullDesign: b.Design / 1000,
		Energy:           b.Current / 1000,
		Voltage:          b.Voltage,
	}
	if b.Full > 0 {
		s.Percentage = b.Current / b.Full * 100
	}
	return s, nil
}

func fromDistatusState(s battery.AgnosticState) State {
	switch s {
	case battery.Charging:
		return StateCharging
	case battery.Discharging:
		return StateDischarging
	case battery.Full:
		return StateFull
	case battery.Idle:
		return StateNotCharging
	default:
		return StateUnknown
	}
}

// NewReader returns the reader registered under name ("sysfs" or "distatus").
func NewReader(name string) (Reader, error) {
	switch name {
	case "", "sysfs":
		return NewSysfsReader(), nil
	case "distatus":
		return NewDistatusReader(), nil
	default:
		return nil, fmt.Errorf("unknown battery reader %q", name)
	}
}

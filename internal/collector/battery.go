package collector

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrNoBattery is returned when the host exposes no battery.
var ErrNoBattery = errors.New("no battery found")

// sysfsRoot is overridden by tests to point at a fixture tree.
var sysfsRoot = "/sys"

// SysfsReader reads battery info from /sys/class/power_supply/BAT*/uevent.
type SysfsReader struct{}

// NewSysfsReader returns a reader backed by the kernel power_supply class.
func NewSysfsReader() *SysfsReader {
	return &SysfsReader{}
}

// Read implements Reader.
func (SysfsReader) Read() (*Sample, error) {
	matches, err := filepath.Glob(filepath.Join(sysfsRoot, "class/power_supply/BAT*"))
	if err != nil {
		return nil, fmt.Errorf("glob battery: %w", err)
	}
	if len(matches) == 0 {
		return nil, ErrNoBattery
	}

	data, err := os.ReadFile(filepath.Join(matches[0], "uevent"))
	if err != nil {
		return nil, fmt.Errorf("read uevent: %w", err)
	}

	props := parseUevent(string(data))
	s := &Sample{
		Model: strings.TrimSpace(props["POWER_SUPPLY_MODEL_NAME"]),
		State: ParseState(props["POWER_SUPPLY_STATUS"]),
	}

	voltageUV := propInt(props, "POWER_SUPPLY_VOLTAGE_NOW")
	s.Voltage = float64(voltageUV) / 1e6

	// Energy is reported either directly in µWh or as charge in µAh, which
	// needs the design voltage to convert.
	if _, ok := props["POWER_SUPPLY_ENERGY_FULL"]; ok {
		s.EnergyFull = float64(propInt(props, "POWER_SUPPLY_ENERGY_FULL")) / 1e6
		s.EnergyFullDesign = float64(propInt(props, "POWER_SUPPLY_ENERGY_FULL_DESIGN")) / 1e6
		s.Energy = float64(propInt(props, "POWER_SUPPLY_ENERGY_NOW")) / 1e6
	} else {
		designUV := propInt(props, "POWER_SUPPLY_VOLTAGE_MIN_DESIGN")
		if designUV == 0 {
			designUV = voltageUV
		}
		s.EnergyFull = chargeToWh(propInt(props, "POWER_SUPPLY_CHARGE_FULL"), designUV)
		s.EnergyFullDesign = chargeToWh(propInt(props, "POWER_SUPPLY_CHARGE_FULL_DESIGN"), designUV)
		s.Energy = chargeToWh(propInt(props, "POWER_SUPPLY_CHARGE_NOW"), designUV)
	}

	if s.EnergyFull > 0 && s.Energy > 0 {
		s.Percentage = s.Energy / s.EnergyFull * 100
	} else {
		s.Percentage = float64(propInt(props, "POWER_SUPPLY_CAPACITY"))
	}

	if raw, ok := props["POWER_SUPPLY_CYCLE_COUNT"]; ok {
		if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && n >= 0 {
			s.CycleCount = &n
		}
	}

	// Some firmware reports "Discharging" at full capacity while on AC power.
	if s.State == StateDischarging && propInt(props, "POWER_SUPPLY_CAPACITY") >= 100 && isACOnline() {
		s.State = StateFull
	}

	return s, nil
}

// isACOnline checks if any AC adapter is online.
func isACOnline() bool {
	matches, err := filepath.Glob(filepath.Join(sysfsRoot, "class/power_supply/AC*/online"))
	if err != nil {
		return false
	}
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err == nil && strings.TrimSpace(string(data)) == "1" {
			return true
		}
	}
	return false
}

func parseUevent(data string) map[string]string {
	props := make(map[string]string)
	for _, line := range strings.Split(data, "\n") {
		if k, v, ok := strings.Cut(line, "="); ok {
			props[k] = v
		}
	}
	return props
}

func propInt(props map[string]string, key string) int64 {
	v, _ := strconv.ParseInt(strings.TrimSpace(props[key]), 10, 64)
	return v
}

func chargeToWh(chargeUAH, voltageUV int64) float64 {
	return float64(chargeUAH) * float64(voltageUV) / 1e12
}

package storage

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cptspacemanspiff/battery-tracker/internal/collector"
)

// Header is the first line of every record log. It names the record fields
// in order.
const Header = "timestamp,hour,minute,percentage,model,state,cycle_count,energy_full,energy_full_design,energy,voltage"

// Field positions within a record.
const (
	fieldTimestamp = iota
	fieldHour
	fieldMinute
	fieldPercentage
	fieldModel
	fieldState
	fieldCycleCount
	fieldEnergyFull
	fieldEnergyFullDesign
	fieldEnergy
	fieldVoltage

	// minFields is the field count below which a line is dropped.
	minFields
)

const delimiter = ","

// EncodeRecord renders s as one log line without the trailing newline.
func EncodeRecord(s collector.Sample) string {
	t := s.Timestamp
	cycles := ""
	if s.CycleCount != nil {
		cycles = strconv.Itoa(*s.CycleCount)
	}
	fields := []string{
		fmt.Sprintf("%d-%d-%d %d:%d:%d", t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second()),
		strconv.Itoa(t.Hour()),
		strconv.Itoa(t.Minute()),
		fmt.Sprintf("%.2f", s.Percentage),
		sanitize(s.Model),
		s.State.String(),
		cycles,
		fmt.Sprintf("%.2f", s.EnergyFull),
		fmt.Sprintf("%.2f", s.EnergyFullDesign),
		fmt.Sprintf("%.2f", s.Energy),
		fmt.Sprintf("%.2f", s.Voltage),
	}
	return strings.Join(fields, delimiter)
}

// sanitize keeps free text from splitting a record.
func sanitize(s string) string {
	s = strings.ReplaceAll(s, delimiter, " ")
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}

// ParseFloat parses a numeric record field. On failure it returns 0 and
// false; the loader treats such fields as zero and counts them. NaN and the
// infinities are failures too, since nothing downstream can plot them.
func ParseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

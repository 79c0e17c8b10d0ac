package storage

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cptspacemanspiff/battery-tracker/internal/collector"
)

// Point is one plotted observation: X is the hour of day as a fraction
// (hour + minute/60), Y the charge percentage.
type Point struct {
	X float64
	Y float64
}

// DeviceInfo holds the descriptive fields of the most recent record.
type DeviceInfo struct {
	Timestamp        string          `json:"timestamp"`
	Percentage       float64         `json:"percentage"`
	Model            string          `json:"model"`
	State            collector.State `json:"state"`
	CycleCount       *int            `json:"cycle_count,omitempty"`
	EnergyFull       float64         `json:"energy_full_wh"`
	EnergyFullDesign float64         `json:"energy_full_design_wh"`
	Energy           float64         `json:"energy_wh"`
	Voltage          float64         `json:"voltage_v"`
}

// Health is the current full capacity as a percentage of the design
// capacity, or 0 when the design capacity is unknown.
func (d DeviceInfo) Health() float64 {
	if d.EnergyFullDesign <= 0 {
		return 0
	}
	return d.EnergyFull / d.EnergyFullDesign * 100
}

// Result is the outcome of one pass over a record log.
type Result struct {
	Points []Point
	// Info describes the last accepted record; nil when none was accepted.
	Info *DeviceInfo

	// Lines counts records after the header, Skipped those dropped for
	// having too few fields, and Defaulted the numeric fields that failed
	// to parse and were taken as zero.
	Lines     int
	Skipped   int
	Defaulted int
}

// Parse reads a record log. The first line is the header and is ignored.
// Lines with fewer than the expected number of fields are skipped, which
// also absorbs a partially written last line. Lines have no length limit.
func Parse(r io.Reader) (*Result, error) {
	res := &Result{}
	br := bufio.NewReader(r)
	first := true
	for {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read log: %w", err)
		}
		if line == "" && err != nil {
			break
		}
		if first {
			first = false
		} else {
			res.add(strings.TrimRight(line, "\r\n"))
		}
		if err != nil {
			break
		}
	}
	return res, nil
}

func (res *Result) add(line string) {
	res.Lines++
	parts := strings.Split(line, delimiter)
	if len(parts) < minFields {
		res.Skipped++
		return
	}
	pt, info, defaulted := parseRecord(parts)
	res.Points = append(res.Points, pt)
	res.Info = &info
	res.Defaulted += defaulted
}

func parseRecord(parts []string) (Point, DeviceInfo, int) {
	defaulted := 0
	num := func(i int) float64 {
		v, ok := ParseFloat(parts[i])
		if !ok {
			defaulted++
		}
		return v
	}

	hour := num(fieldHour)
	minute := num(fieldMinute)
	info := DeviceInfo{
		Timestamp:        parts[fieldTimestamp],
		Percentage:       num(fieldPercentage),
		Model:            parts[fieldModel],
		State:            collector.ParseState(parts[fieldState]),
		EnergyFull:       num(fieldEnergyFull),
		EnergyFullDesign: num(fieldEnergyFullDesign),
		Energy:           num(fieldEnergy),
		Voltage:          num(fieldVoltage),
	}
	if raw := strings.TrimSpace(parts[fieldCycleCount]); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			info.CycleCount = &n
		}
	}

	return Point{X: hour + minute/60, Y: info.Percentage}, info, defaulted
}

// Load parses the record log at path.
func Load(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Loader loads a record log, optionally from a snapshot.
type Loader struct {
	Path string
	// Snapshot reads the whole log into memory first and drops an
	// unterminated last line, so a record that is still being appended is
	// never parsed even when its cut-off still has enough fields.
	Snapshot bool
}

// Load parses the log at l.Path.
func (l Loader) Load() (*Result, error) {
	if !l.Snapshot {
		return Load(l.Path)
	}

	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	if i := bytes.LastIndexByte(data, '\n'); i >= 0 {
		data = data[:i+1]
	} else {
		data = nil
	}
	return Parse(bytes.NewReader(data))
}

// PointFromSample projects a sample onto the chart axes the same way a
// loaded record is projected.
func PointFromSample(s collector.Sample) Point {
	return Point{X: float64(s.Timestamp.Hour()) + float64(s.Timestamp.Minute())/60, Y: s.Percentage}
}

// InfoFromSample returns the DeviceInfo a record of s would load as.
func InfoFromSample(s collector.Sample) DeviceInfo {
	fields := strings.Split(EncodeRecord(s), delimiter)
	_, info, _ := parseRecord(fields)
	return info
}

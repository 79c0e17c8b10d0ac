package storage

import (
	"errors"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cptspacemanspiff/battery-tracker/internal/collector"
)

func writeLog(t *testing.T, lines ...string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "battery_data.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func TestLoad_AppendedSamplesComeBackInOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "battery_data.csv")
	rec := NewRecorder(path)
	start := time.Date(2024, time.March, 9, 6, 0, 0, 0, time.Local)

	const n = 12
	for i := 0; i < n; i++ {
		require.NoError(t, rec.Append(testSample(start.Add(time.Duration(i)*15*time.Minute), float64(90-i))))
	}

	res, err := Load(path)
	require.NoError(t, err)
	require.Len(t, res.Points, n)
	assert.Equal(t, n, res.Lines)
	assert.Zero(t, res.Skipped)
	for i, p := range res.Points {
		assert.InDelta(t, 6+float64(i)*0.25, p.X, 1e-9)
		assert.InDelta(t, float64(90-i), p.Y, 1e-9)
	}
}

func TestLoad_SkipsShortLines(t *testing.T) {
	path := writeLog(t,
		Header,
		"2024-3-9 8:0:0,8,0,50.00,M,Discharging,10,40.00,50.00,20.00,12.00",
		"2024-3-9 8:1:0,8,1,49.00",
		"",
		"2024-3-9 8:2:0,8,2,48.00,M,Discharging,10,40.00,50.00,19.20,11.90",
		"2024-3-9 8:3:0,8,3,47.00,M,Disch",
	)

	res, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, res.Points, 2)
	assert.Equal(t, 5, res.Lines)
	assert.Equal(t, 3, res.Skipped)
}

func TestLoad_LenientNumericFields(t *testing.T) {
	path := writeLog(t,
		Header,
		"2024-3-9 8:0:0,x,30,abc,M,Charging,many,,50.00,20.00,12.00",
	)

	res, err := Load(path)
	require.NoError(t, err)
	require.Len(t, res.Points, 1)
	assert.Equal(t, Point{X: 0.5, Y: 0}, res.Points[0])
	// hour, percentage and energy_full failed; cycle_count is optional text.
	assert.Equal(t, 3, res.Defaulted)
	require.NotNil(t, res.Info)
	assert.Nil(t, res.Info.CycleCount)
	assert.Equal(t, collector.StateCharging, res.Info.State)
}

func TestLoad_NonFiniteFieldsAreDefaulted(t *testing.T) {
	for _, bad := range []string{"NaN", "nan", "Inf", "-Inf", "+Infinity", "1e400"} {
		t.Run(bad, func(t *testing.T) {
			path := writeLog(t,
				Header,
				"2024-3-9 8:0:0,8,0,50.00,M,Discharging,10,40.00,50.00,20.00,12.00",
				"2024-3-9 8:15:0,8,15,"+bad+",M,Discharging,10,40.00,50.00,20.00,12.00",
				"2024-3-9 8:30:0,"+bad+",30,48.00,M,Discharging,10,40.00,50.00,20.00,12.00",
			)

			res, err := Load(path)
			require.NoError(t, err)
			require.Len(t, res.Points, 3)
			assert.Equal(t, 2, res.Defaulted)
			for _, p := range res.Points {
				assert.False(t, math.IsNaN(p.X) || math.IsInf(p.X, 0), "x=%v", p.X)
				assert.False(t, math.IsNaN(p.Y) || math.IsInf(p.Y, 0), "y=%v", p.Y)
			}
			assert.Equal(t, Point{X: 8.25, Y: 0}, res.Points[1])
			assert.Equal(t, Point{X: 0.5, Y: 48}, res.Points[2])
		})
	}
}

func TestLoad_OverlongLineIsSkipped(t *testing.T) {
	path := writeLog(t,
		Header,
		"2024-3-9 8:0:0,8,0,50.00,M,Discharging,10,40.00,50.00,20.00,12.00",
		strings.Repeat("x", 70000),
		"2024-3-9 8:2:0,8,2,48.00,M,Discharging,10,40.00,50.00,19.20,11.90",
	)

	res, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, res.Points, 2)
	assert.Equal(t, 3, res.Lines)
	assert.Equal(t, 1, res.Skipped)
}

func TestParse_LastLineWithoutNewline(t *testing.T) {
	in := Header + "\r\n" +
		"2024-3-9 8:0:0,8,0,50.00,M,Discharging,10,40.00,50.00,20.00,12.00\r\n" +
		"2024-3-9 8:2:0,8,2,48.00,M,Discharging,10,40.00,50.00,19.20,11.90"

	res, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, res.Points, 2)
	assert.Equal(t, 2, res.Lines)
	require.NotNil(t, res.Info)
	assert.Equal(t, 11.9, res.Info.Voltage)
}

func TestLoad_DeviceInfoIsLastWellFormedLine(t *testing.T) {
	path := writeLog(t,
		Header,
		"2024-3-9 8:0:0,8,0,50.00,Old Model,Discharging,10,40.00,50.00,20.00,12.00",
		"2024-3-9 8:5:0,8,5,55.00,New Model,Charging,11,41.00,50.00,22.55,12.40",
		"2024-3-9 8:6:0,8,6,56.00,Trunc",
	)

	res, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, res.Info)

	info := res.Info
	assert.Equal(t, "2024-3-9 8:5:0", info.Timestamp)
	assert.Equal(t, "New Model", info.Model)
	assert.Equal(t, collector.StateCharging, info.State)
	require.NotNil(t, info.CycleCount)
	assert.Equal(t, 11, *info.CycleCount)
	assert.Equal(t, 41.0, info.EnergyFull)
	assert.Equal(t, 50.0, info.EnergyFullDesign)
	assert.Equal(t, 22.55, info.Energy)
	assert.Equal(t, 12.4, info.Voltage)
	assert.Equal(t, 55.0, info.Percentage)
	assert.InDelta(t, 82.0, info.Health(), 1e-9)
}

func TestLoad_Idempotent(t *testing.T) {
	path := writeLog(t,
		Header,
		"2024-3-9 8:0:0,8,0,50.00,M,Discharging,10,40.00,50.00,20.00,12.00",
		"bad",
		"2024-3-9 9:30:0,9,30,55.00,M,Charging,10,40.00,50.00,22.00,12.30",
	)

	first, err := Load(path)
	require.NoError(t, err)
	second, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestLoad_HeaderOnly(t *testing.T) {
	res, err := Load(writeLog(t, Header))
	require.NoError(t, err)
	assert.Empty(t, res.Points)
	assert.Nil(t, res.Info)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLoader_SnapshotDropsUnterminatedLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "battery_data.csv")
	// The last record is cut inside the voltage field but still has all
	// eleven fields.
	contents := Header + "\n" +
		"2024-3-9 8:0:0,8,0,50.00,M,Discharging,10,40.00,50.00,20.00,12.00\n" +
		"2024-3-9 8:1:0,8,1,49.00,M,Discharging,10,40.00,50.00,19.60,1"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	plain, err := Loader{Path: path}.Load()
	require.NoError(t, err)
	assert.Len(t, plain.Points, 2)

	snap, err := Loader{Path: path, Snapshot: true}.Load()
	require.NoError(t, err)
	require.Len(t, snap.Points, 1)
	assert.Equal(t, 12.0, snap.Info.Voltage)
}

func TestDeviceInfoHealth_UnknownDesign(t *testing.T) {
	assert.Zero(t, DeviceInfo{EnergyFull: 40}.Health())
}

func TestFromSample_MatchesLoadedRecord(t *testing.T) {
	s := testSample(time.Date(2024, time.March, 9, 14, 45, 30, 0, time.Local), 33.333)

	res, err := Parse(strings.NewReader(Header + "\n" + EncodeRecord(s) + "\n"))
	require.NoError(t, err)

	assert.Equal(t, res.Points[0].X, PointFromSample(s).X)
	assert.Equal(t, *res.Info, InfoFromSample(s))
}

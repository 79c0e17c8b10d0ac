package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func TestRecorder_CreatesLogWithHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "battery_data.csv")
	rec := NewRecorder(path)

	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err), "NewRecorder must not touch the disk")

	ts := time.Date(2024, time.March, 9, 8, 0, 0, 0, time.Local)
	require.NoError(t, rec.Append(testSample(ts, 50)))
	require.NoError(t, rec.Append(testSample(ts.Add(time.Minute), 49.5)))

	lines := readLines(t, path)
	require.Len(t, lines, 3)
	assert.Equal(t, Header, lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "2024-3-9 8:0:0,8,0,50.00,"))
	assert.True(t, strings.HasPrefix(lines[2], "2024-3-9 8:1:0,8,1,49.50,"))
}

func TestRecorder_AppendsToExistingLogWithoutSecondHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "battery_data.csv")
	existing := Header + "\n2024-3-9 7:0:0,7,0,55.00,M,Charging,,1.00,1.00,1.00,1.00\n"
	require.NoError(t, os.WriteFile(path, []byte(existing), 0o644))

	ts := time.Date(2024, time.March, 9, 8, 0, 0, 0, time.Local)
	require.NoError(t, NewRecorder(path).Append(testSample(ts, 50)))

	lines := readLines(t, path)
	require.Len(t, lines, 3)
	assert.Equal(t, Header, lines[0])
	assert.NotEqual(t, Header, lines[2])
}

func TestRecorder_RecreatesDeletedLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "battery_data.csv")
	rec := NewRecorder(path)
	ts := time.Date(2024, time.March, 9, 8, 0, 0, 0, time.Local)

	require.NoError(t, rec.Append(testSample(ts, 50)))
	require.NoError(t, os.Remove(path))
	require.NoError(t, rec.Append(testSample(ts, 51)))

	lines := readLines(t, path)
	require.Len(t, lines, 2)
	assert.Equal(t, Header, lines[0])
}

func TestRecorder_UnwritableLocation(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	rec := NewRecorder(filepath.Join(blocker, "battery_data.csv"))
	err := rec.Append(testSample(time.Now(), 50))
	require.Error(t, err)
}

// cmd/downlog/tools_test.go
package main

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/downtime-log/internal/clock"
	"github.com/tamzrod/downtime-log/internal/device"
	"github.com/tamzrod/downtime-log/internal/record"
	"github.com/tamzrod/downtime-log/internal/store"
)

const testConfig = `recorder:
  storage:
    kind: file
    size: 64
    path: %s
  monitor:
    source:
      endpoint: 127.0.0.1:502
      unit_id: 1
      device_name: modem
    probe:
      fc: 3
      address: 0
      quantity: 1
    poll:
      interval_ms: 1000
  clock:
    utc_offset_hours: 0
`

func writeConfig(t *testing.T) (cfgFile, medium string) {
	t.Helper()
	dir := t.TempDir()
	medium = filepath.Join(dir, "medium.bin")
	cfgFile = filepath.Join(dir, "downlog.yaml")
	body := bytes.ReplaceAll([]byte(testConfig), []byte("%s"), []byte(medium))
	require.NoError(t, os.WriteFile(cfgFile, body, 0o644))
	return cfgFile, medium
}

func seedMedium(t *testing.T, path string, events ...record.Event) {
	t.Helper()
	f, err := device.OpenFile(path, 64)
	require.NoError(t, err)
	defer f.Close()

	st, err := store.New(f, store.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	require.NoError(t, st.OverwriteInProgress(record.Event{Timestamp: 100}))
	for _, ev := range events {
		require.NoError(t, st.CompleteCurrentAndStartNext(ev))
	}
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestListCommand(t *testing.T) {
	cfgFile, medium := writeConfig(t)
	seedMedium(t, medium,
		record.Event{Timestamp: uint32(clock.NTPEpochOffset + 3600), DowntimeMinutes: 5},
		record.Event{Timestamp: uint32(clock.NTPEpochOffset + 7200), DowntimeMinutes: 10},
	)

	out := execute(t, "list", "--config", cfgFile)

	assert.Contains(t, out, "1970-01-01 01:00:00 UTC+0")
	assert.Contains(t, out, "1970-01-01 02:00:00 UTC+0")
	assert.Contains(t, out, "Total: 2 records, 15m0s downtime")
}

func TestListCommand_Empty(t *testing.T) {
	cfgFile, _ := writeConfig(t)

	out := execute(t, "list", "--config", cfgFile)
	assert.Contains(t, out, "No completed records.")
}

func TestClearCommand_RestartsAtCursor(t *testing.T) {
	cfgFile, medium := writeConfig(t)
	seedMedium(t, medium,
		record.Event{Timestamp: 200, DowntimeMinutes: 1},
		record.Event{Timestamp: 300, DowntimeMinutes: 2},
	)

	out := execute(t, "clear", "--config", cfgFile)
	assert.Contains(t, out, "slot 2")

	raw, err := os.ReadFile(medium)
	require.NoError(t, err)
	for i := 0; i < len(raw)/record.Size; i++ {
		flag := record.Flag(raw[i*record.Size+record.OffsetFlag])
		if i == 2 {
			assert.Equal(t, record.FlagInProgress, flag)
			continue
		}
		assert.Equal(t, record.FlagUnused, flag, "slot %d", i)
	}
}

func TestStatusCommand(t *testing.T) {
	cfgFile, medium := writeConfig(t)
	seedMedium(t, medium, record.Event{Timestamp: 200, DowntimeMinutes: 1})

	out := execute(t, "status", "--config", cfgFile)
	assert.Contains(t, out, "Slots:        8")
	assert.Contains(t, out, "Completed:    1")
	assert.Contains(t, out, "Cursor slot:  1")
}

func TestDumpCommand(t *testing.T) {
	cfgFile, _ := writeConfig(t)

	out := execute(t, "dump", "--config", cfgFile)
	assert.Contains(t, out, "MEDIUM DUMP")
	assert.Contains(t, out, "END OF MEDIUM")
}

// internal/monitor/monitor_test.go
package monitor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/downtime-log/internal/clock"
	"github.com/tamzrod/downtime-log/internal/device"
	"github.com/tamzrod/downtime-log/internal/poller"
	"github.com/tamzrod/downtime-log/internal/record"
	"github.com/tamzrod/downtime-log/internal/status"
	"github.com/tamzrod/downtime-log/internal/store"
)

var t0 = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

type fakeStatus struct {
	snaps []status.Snapshot
}

func (f *fakeStatus) WriteStatus(s status.Snapshot) error {
	f.snaps = append(f.snaps, s)
	return nil
}

func (f *fakeStatus) last() status.Snapshot { return f.snaps[len(f.snaps)-1] }

type rig struct {
	mem    *device.Memory
	store  *store.Store
	clock  *clock.Clock
	status *fakeStatus
	mon    *Monitor
}

func newRig(t *testing.T, mem *device.Memory) *rig {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := store.New(mem, store.WithLogger(log))
	require.NoError(t, err)

	clk := clock.WithNow(10, func() time.Time { return t0 })
	fs := &fakeStatus{}

	mon, err := New(st, clk, WithStatusWriter(fs), WithLogger(log))
	require.NoError(t, err)
	mon.now = func() time.Time { return t0 }

	return &rig{mem: mem, store: st, clock: clk, status: fs, mon: mon}
}

func upAt(d time.Duration) poller.PollResult {
	return poller.PollResult{Device: "modem", At: t0.Add(d)}
}

func downAt(d time.Duration) poller.PollResult {
	return poller.PollResult{Device: "modem", At: t0.Add(d), Err: errors.New("i/o timeout")}
}

func slot(t *testing.T, mem *device.Memory, n int) record.Stored {
	t.Helper()
	rec, err := record.Decode(mem.Bytes()[n*record.Size:])
	require.NoError(t, err)
	return rec
}

func TestNew_RequiresCollaborators(t *testing.T) {
	_, err := New(nil, clock.New(0))
	require.Error(t, err)
}

func TestStart_ColdMediumOpensPeriod(t *testing.T) {
	r := newRig(t, device.NewMemory(64))

	require.NoError(t, r.mon.Start())

	s0 := slot(t, r.mem, 0)
	assert.Equal(t, record.FlagInProgress, s0.Flag)
	assert.Equal(t, r.clock.ToRecord(t0), s0.Timestamp)
	assert.Equal(t, r.clock.ToRecord(t0), r.status.last().PeriodStart)
}

func TestOutage_AccumulatesAndCompletes(t *testing.T) {
	r := newRig(t, device.NewMemory(64))
	require.NoError(t, r.mon.Start())

	require.NoError(t, r.mon.Handle(upAt(5*time.Second)))
	require.NoError(t, r.mon.Handle(downAt(10*time.Second)))
	assert.True(t, r.mon.Down())
	assert.Equal(t, uint16(0), slot(t, r.mem, 0).DowntimeMinutes)

	// minute rollover through the ticker
	require.NoError(t, r.mon.Tick(t0.Add(70*time.Second)))
	assert.Equal(t, uint16(1), slot(t, r.mem, 0).DowntimeMinutes)
	assert.Equal(t, uint16(60), r.status.last().SecondsDown)
	assert.Equal(t, status.HealthDown, r.status.last().Health)

	require.NoError(t, r.mon.Handle(downAt(130*time.Second)))
	assert.Equal(t, uint16(2), slot(t, r.mem, 0).DowntimeMinutes)

	require.NoError(t, r.mon.Handle(upAt(200*time.Second)))
	assert.False(t, r.mon.Down())

	end := r.clock.ToRecord(t0.Add(200 * time.Second))
	assert.Equal(t, record.Stored{
		Event: record.Event{Timestamp: end, DowntimeMinutes: 3},
		Spare: device.Erased,
		Flag:  record.FlagComplete,
	}, slot(t, r.mem, 0))
	assert.Equal(t, record.Event{Timestamp: end}, slot(t, r.mem, 1).Event)
	assert.Equal(t, record.FlagInProgress, slot(t, r.mem, 1).Flag)

	snap := r.status.last()
	assert.Equal(t, status.HealthUp, snap.Health)
	assert.Equal(t, uint16(0), snap.SecondsDown)
	assert.Equal(t, uint16(1), snap.CompletedRecords)
	assert.Equal(t, end, snap.PeriodStart)
}

func TestOutage_ShortOutageStillRecorded(t *testing.T) {
	r := newRig(t, device.NewMemory(64))
	require.NoError(t, r.mon.Start())

	require.NoError(t, r.mon.Handle(downAt(0)))
	require.NoError(t, r.mon.Handle(upAt(20*time.Second)))

	s0 := slot(t, r.mem, 0)
	assert.Equal(t, record.FlagComplete, s0.Flag)
	assert.Equal(t, uint16(0), s0.DowntimeMinutes)
}

func TestRestart_ResumesOutageMinutes(t *testing.T) {
	mem := device.NewMemory(64)
	img := record.Encode(record.Stored{Event: record.Event{Timestamp: 1000, DowntimeMinutes: 5}, Flag: record.FlagInProgress})
	require.NoError(t, mem.Write(3*record.Size, img[:]))

	r := newRig(t, mem)
	require.NoError(t, r.mon.Start())
	assert.Equal(t, record.Event{Timestamp: 1000, DowntimeMinutes: 5}, r.mon.Current())

	require.NoError(t, r.mon.Handle(downAt(0)))
	require.NoError(t, r.mon.Tick(t0.Add(61*time.Second)))

	s3 := slot(t, r.mem, 3)
	assert.Equal(t, record.Event{Timestamp: 1000, DowntimeMinutes: 6}, s3.Event)
	assert.Equal(t, record.FlagInProgress, s3.Flag)
}

func TestRestart_RecoveredDeviceFinalizesRestoredDowntime(t *testing.T) {
	mem := device.NewMemory(64)
	img := record.Encode(record.Stored{Event: record.Event{Timestamp: 1000, DowntimeMinutes: 5}, Flag: record.FlagInProgress})
	require.NoError(t, mem.Write(0, img[:]))

	r := newRig(t, mem)
	require.NoError(t, r.mon.Start())
	require.NoError(t, r.mon.Handle(upAt(0)))

	s0 := slot(t, r.mem, 0)
	assert.Equal(t, record.FlagComplete, s0.Flag)
	assert.Equal(t, uint16(5), s0.DowntimeMinutes)
	assert.Equal(t, record.FlagInProgress, slot(t, r.mem, 1).Flag)
}

func TestOutage_DowntimeNeverDecreases(t *testing.T) {
	r := newRig(t, device.NewMemory(64))
	require.NoError(t, r.mon.Start())

	require.NoError(t, r.mon.Handle(downAt(10*time.Second)))
	require.NoError(t, r.mon.Handle(downAt(190*time.Second)))
	require.Equal(t, uint16(3), slot(t, r.mem, 0).DowntimeMinutes)
	writes := r.mem.ByteWrites

	// wall clock stepped back two minutes
	require.NoError(t, r.mon.Tick(t0.Add(70*time.Second)))
	require.NoError(t, r.mon.Handle(downAt(100*time.Second)))

	assert.Equal(t, uint16(3), slot(t, r.mem, 0).DowntimeMinutes)
	assert.Equal(t, uint16(3), r.mon.Current().DowntimeMinutes)
	assert.Equal(t, writes, r.mem.ByteWrites)

	require.NoError(t, r.mon.Handle(upAt(120*time.Second)))
	s0 := slot(t, r.mem, 0)
	assert.Equal(t, record.FlagComplete, s0.Flag)
	assert.Equal(t, uint16(3), s0.DowntimeMinutes)
}

func TestUpWithoutOutage_DoesNotWrite(t *testing.T) {
	r := newRig(t, device.NewMemory(64))
	require.NoError(t, r.mon.Start())
	before := r.mem.ByteWrites

	for i := 0; i < 5; i++ {
		require.NoError(t, r.mon.Handle(upAt(time.Duration(i)*time.Minute)))
		require.NoError(t, r.mon.Tick(t0.Add(time.Duration(i)*time.Minute)))
	}
	assert.Equal(t, before, r.mem.ByteWrites)
}

func TestHandle_StoreFailureIsReturned(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	fs := &failingStore{}
	mon, err := New(fs, clock.WithNow(0, func() time.Time { return t0 }), WithLogger(log))
	require.NoError(t, err)
	require.NoError(t, mon.Start())

	require.NoError(t, mon.Handle(downAt(0)))
	fs.fail = true
	err = mon.Handle(downAt(2 * time.Minute))
	require.Error(t, err)
}

func TestRun_StopsOnCancel(t *testing.T) {
	r := newRig(t, device.NewMemory(64))
	require.NoError(t, r.mon.Start())

	ctx, cancel := context.WithCancel(context.Background())
	in := make(chan poller.PollResult)
	done := make(chan struct{})
	go func() {
		r.mon.Run(ctx, in)
		close(done)
	}()

	in <- downAt(0)
	in <- upAt(90 * time.Second)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Run did not stop after cancel")
	}
	assert.Equal(t, record.FlagComplete, slot(t, r.mem, 0).Flag)
	assert.Equal(t, uint16(1), slot(t, r.mem, 0).DowntimeMinutes)
}

// ---- failing store ----

type failingStore struct {
	fail bool
}

func (f *failingStore) LoadOnStartup() (record.Event, error) {
	return record.Event{Timestamp: 1}, nil
}

func (f *failingStore) OverwriteInProgress(record.Event) error {
	if f.fail {
		return errors.New("medium gone")
	}
	return nil
}

func (f *failingStore) CompleteCurrentAndStartNext(record.Event) error {
	if f.fail {
		return errors.New("medium gone")
	}
	return nil
}

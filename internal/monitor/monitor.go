// internal/monitor/monitor.go
package monitor

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/tamzrod/downtime-log/internal/clock"
	"github.com/tamzrod/downtime-log/internal/metrics"
	"github.com/tamzrod/downtime-log/internal/poller"
	"github.com/tamzrod/downtime-log/internal/record"
	"github.com/tamzrod/downtime-log/internal/status"
	"github.com/tamzrod/downtime-log/internal/writer"
)

// recordStore is the slice of the record store the monitor drives.
type recordStore interface {
	LoadOnStartup() (record.Event, error)
	OverwriteInProgress(ev record.Event) error
	CompleteCurrentAndStartNext(ev record.Event) error
}

// Monitor turns probe results into downtime records.
//
// The in-progress record holds the start of the current period and the
// downtime minutes accumulated so far. Every whole minute of an outage is
// persisted in place; recovery finalizes the record and opens the next.
//
// Monitor owns the store: all methods MUST be called from one goroutine.
type Monitor struct {
	store   recordStore
	clock   *clock.Clock
	status  writer.StatusWriter
	metrics *metrics.Metrics
	log     *slog.Logger

	current record.Event // mirror of the in-progress record

	down        bool
	downSince   time.Time
	baseMinutes uint16 // minutes already in the record when the outage began

	snap status.Snapshot

	now func() time.Time // drives Tick in Run; MUST carry a monotonic reading
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithStatusWriter publishes a status snapshot on every change.
func WithStatusWriter(sw writer.StatusWriter) Option {
	return func(m *Monitor) { m.status = sw }
}

// WithMetrics records probe outcomes and store activity. nil disables.
func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Monitor) { m.metrics = mt }
}

// WithLogger replaces slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(m *Monitor) {
		if l != nil {
			m.log = l
		}
	}
}

// New creates a monitor over st. clk only stamps records; outage
// durations are measured on the monotonic clock.
func New(st recordStore, clk *clock.Clock, opts ...Option) (*Monitor, error) {
	if st == nil {
		return nil, errors.New("monitor: store required")
	}
	if clk == nil {
		return nil, errors.New("monitor: clock required")
	}

	m := &Monitor{
		store: st,
		clock: clk,
		log:   slog.Default(),
		snap:  status.Snapshot{Health: status.HealthUnknown},
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Current is the monitor's view of the in-progress record.
func (m *Monitor) Current() record.Event { return m.current }

// Down reports whether an outage is in progress.
func (m *Monitor) Down() bool { return m.down }

// Start restores the in-progress record. On a cold medium it opens a new
// period at the current time.
func (m *Monitor) Start() error {
	ev, err := m.store.LoadOnStartup()
	if err != nil {
		m.metrics.StoreError()
		return err
	}

	if ev.IsZero() {
		ev = record.Event{Timestamp: m.clock.Now()}
		if err := m.store.OverwriteInProgress(ev); err != nil {
			m.metrics.StoreError()
			return err
		}
		m.log.Info("opened first period", "start", m.clock.FromRecord(ev.Timestamp))
	} else {
		m.log.Info("resumed period",
			"start", m.clock.FromRecord(ev.Timestamp),
			"downtime_min", ev.DowntimeMinutes,
		)
	}

	m.current = ev
	m.snap.PeriodStart = ev.Timestamp
	m.snap.DowntimeMinutes = ev.DowntimeMinutes
	m.metrics.Downtime(ev.DowntimeMinutes)
	m.publish()
	return nil
}

// Handle applies one probe result.
func (m *Monitor) Handle(res poller.PollResult) error {
	m.metrics.Poll(res.Err == nil)

	if res.Err == nil {
		return m.up(res.At)
	}
	return m.fail(res.At, res.Err)
}

// Tick advances time-driven state: seconds down and minute rollover.
func (m *Monitor) Tick(now time.Time) error {
	if !m.down {
		return nil
	}
	err := m.persistMinutes(now)
	m.snap.SecondsDown = saturate16(now.Sub(m.downSince) / time.Second)
	m.publish()
	return err
}

// Run consumes probe results until ctx is done.
// Store failures are logged and do not stop the loop.
func (m *Monitor) Run(ctx context.Context, in <-chan poller.PollResult) {
	secTicker := time.NewTicker(time.Second)
	defer secTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case res := <-in:
			if err := m.Handle(res); err != nil {
				m.log.Error("record store update failed", "device", res.Device, "err", err)
			}

		case <-secTicker.C:
			if err := m.Tick(m.now()); err != nil {
				m.log.Error("record store update failed", "err", err)
			}
		}
	}
}

// ---- transitions ----

func (m *Monitor) up(at time.Time) error {
	wasDown := m.down
	restored := !m.down && m.current.DowntimeMinutes > 0

	var err error
	if wasDown || restored {
		minutes := m.current.DowntimeMinutes
		if wasDown {
			minutes = max(minutes, m.minutesAt(at))
		}
		err = m.complete(at, minutes)
	}

	m.down = false
	m.snap.Health = status.HealthUp
	m.snap.LastErrorCode = ErrCodeNone
	m.snap.SecondsDown = 0
	m.publish()
	return err
}

func (m *Monitor) fail(at time.Time, probeErr error) error {
	if !m.down {
		m.down = true
		m.downSince = at
		m.baseMinutes = m.current.DowntimeMinutes
		m.metrics.OutageStarted()
		m.log.Warn("device unreachable", "err", probeErr)
	}

	err := m.persistMinutes(at)

	m.snap.Health = status.HealthDown
	m.snap.LastErrorCode = errorCode(probeErr)
	m.snap.SecondsDown = saturate16(at.Sub(m.downSince) / time.Second)
	m.publish()
	return err
}

func (m *Monitor) complete(at time.Time, minutes uint16) error {
	ev := record.Event{Timestamp: m.clock.ToRecord(at), DowntimeMinutes: minutes}
	if err := m.store.CompleteCurrentAndStartNext(ev); err != nil {
		m.metrics.StoreError()
		return err
	}

	m.log.Info("outage recorded",
		"ended", m.clock.FromRecord(ev.Timestamp),
		"downtime_min", minutes,
	)

	m.current = record.Event{Timestamp: ev.Timestamp}
	m.snap.PeriodStart = ev.Timestamp
	m.snap.DowntimeMinutes = 0
	if m.snap.CompletedRecords < math.MaxUint16 {
		m.snap.CompletedRecords++
	}
	m.metrics.RecordCompleted()
	return nil
}

// persistMinutes writes the in-progress record when the whole-minute
// count grew. Writes happen at most once per minute of outage; the
// persisted count never decreases, even if at runs backwards.
func (m *Monitor) persistMinutes(at time.Time) error {
	minutes := m.minutesAt(at)
	if minutes <= m.current.DowntimeMinutes {
		return nil
	}

	ev := record.Event{Timestamp: m.current.Timestamp, DowntimeMinutes: minutes}
	if err := m.store.OverwriteInProgress(ev); err != nil {
		m.metrics.StoreError()
		return err
	}

	m.current = ev
	m.snap.DowntimeMinutes = minutes
	m.metrics.Downtime(minutes)
	m.log.Debug("downtime persisted", "downtime_min", minutes)
	return nil
}

func (m *Monitor) minutesAt(at time.Time) uint16 {
	elapsed := at.Sub(m.downSince)
	if elapsed < 0 {
		elapsed = 0
	}
	total := int64(m.baseMinutes) + int64(elapsed/time.Minute)
	if total > math.MaxUint16 {
		return math.MaxUint16
	}
	return uint16(total)
}

func (m *Monitor) publish() {
	if m.status == nil {
		return
	}
	if err := m.status.WriteStatus(m.snap); err != nil {
		m.log.Warn("status write failed", "err", err)
	}
}

func saturate16(v time.Duration) uint16 {
	if v < 0 {
		return 0
	}
	if v > math.MaxUint16 {
		return math.MaxUint16
	}
	return uint16(v)
}

// cmd/downlog/tools.go
package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/tamzrod/downtime-log/internal/clock"
	"github.com/tamzrod/downtime-log/internal/record"
	"github.com/tamzrod/downtime-log/internal/store"
)

const timeLayout = "2006-01-02 15:04:05 MST"

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print a hex dump of the raw medium",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, st, closeMedium, err := openStore(newLogger())
		if err != nil {
			return err
		}
		defer closeMedium()

		return st.Dump(cmd.OutOrStdout())
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List completed downtime records, oldest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, st, closeMedium, err := openStore(newLogger())
		if err != nil {
			return err
		}
		defer closeMedium()

		events, err := st.History()
		if err != nil {
			return err
		}
		clk, err := newClock(cfg.Recorder.Clock)
		if err != nil {
			return err
		}
		return printHistory(cmd.OutOrStdout(), clk, events)
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Erase the log and open a new period at the current time",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, st, closeMedium, err := openStore(newLogger())
		if err != nil {
			return err
		}
		defer closeMedium()

		// Position the cursor so the new ring starts where the old one was.
		if _, err := st.LoadOnStartup(); err != nil {
			return err
		}

		clk, err := newClock(cfg.Recorder.Clock)
		if err != nil {
			return err
		}
		st.Stage(record.Event{Timestamp: clk.Now()})
		if err := st.Clear(); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Log cleared, new period opened at slot %d\n", st.Cursor()/record.Size)
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the in-progress record and log occupancy",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, st, closeMedium, err := openStore(newLogger())
		if err != nil {
			return err
		}
		defer closeMedium()

		cur, err := st.LoadOnStartup()
		if err != nil {
			return err
		}
		events, err := st.History()
		if err != nil {
			return err
		}

		clk, err := newClock(cfg.Recorder.Clock)
		if err != nil {
			return err
		}
		return printStatus(cmd.OutOrStdout(), clk, st, cur, len(events))
	},
}

func printHistory(w io.Writer, clk *clock.Clock, events []record.Event) error {
	if len(events) == 0 {
		_, err := fmt.Fprintln(w, "No completed records.")
		return err
	}

	var total int
	for i, ev := range events {
		total += int(ev.DowntimeMinutes)
		if _, err := fmt.Fprintf(w, "%4d  %s  %5d min\n",
			i+1, clk.FromRecord(ev.Timestamp).Format(timeLayout), ev.DowntimeMinutes); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Total: %d records, %s downtime\n", len(events), time.Duration(total)*time.Minute)
	return err
}

func printStatus(w io.Writer, clk *clock.Clock, st *store.Store, cur record.Event, completed int) error {
	fmt.Fprintln(w, "Downtime Log")
	fmt.Fprintf(w, "  Slots:        %d\n", st.Slots())
	fmt.Fprintf(w, "  Completed:    %d\n", completed)

	if _, err := st.FindInProgress(); errors.Is(err, store.ErrNotFound) {
		_, err := fmt.Fprintln(w, "  In progress:  none (cold medium)")
		return err
	}

	fmt.Fprintf(w, "  Cursor slot:  %d\n", st.Cursor()/record.Size)
	fmt.Fprintf(w, "  Period start: %s\n", clk.FromRecord(cur.Timestamp).Format(timeLayout))
	_, err := fmt.Fprintf(w, "  Downtime:     %d min\n", cur.DowntimeMinutes)
	return err
}

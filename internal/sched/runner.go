// Package sched hosts the tick engine inside a host process: it owns the
// periodic cadence an RTOS scheduler would provide on target hardware,
// invoking the network's tick hook exactly once per period and recording
// per-tick spike traces.
package sched

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"spikenet/internal/cortex"
	spikeio "spikenet/internal/io"
	"spikenet/internal/model"
)

// Config describes one simulation run.
type Config struct {
	// RunID is generated when empty.
	RunID   string
	Network *cortex.Network
	Drive   spikeio.DriveSource
	Sinks   []spikeio.TraceSink

	// Ticks caps the run; 0 means run until the drive is exhausted or the
	// context ends.
	Ticks int

	// Period is the scheduler cadence. 0 runs ticks back-to-back, which is
	// the useful mode for offline simulation and tests.
	Period time.Duration

	// RecordDrive embeds the drive vector in each trace record.
	RecordDrive bool
}

// Result summarizes a completed (or interrupted) run.
type Result struct {
	RunID        string
	Ticks        int
	OutputSpikes int

	// Overruns counts ticks whose processing time reached or exceeded the
	// configured period. The engine still completes each tick; overruns
	// mean the cadence could not be honored.
	Overruns int

	Trace []model.TraceRecord
}

// Runner drives a network for one run. A Runner is single-use.
type Runner struct {
	cfg Config
}

func NewRunner(cfg Config) (*Runner, error) {
	if cfg.Network == nil {
		return nil, errors.New("runner needs a network")
	}
	if cfg.Drive == nil {
		return nil, errors.New("runner needs a drive source")
	}
	if cfg.RunID == "" {
		cfg.RunID = uuid.NewString()
	}
	return &Runner{cfg: cfg}, nil
}

// Run executes the tick loop. A drive exhaustion ends the run cleanly;
// context cancellation returns the partial result alongside the context
// error.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	result := Result{RunID: r.cfg.RunID}

	for tick := 1; r.cfg.Ticks == 0 || tick <= r.cfg.Ticks; tick++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		tickStart := time.Now()

		drive, err := r.cfg.Drive.Read(ctx)
		if err != nil {
			if errors.Is(err, spikeio.ErrDriveExhausted) {
				return result, nil
			}
			return result, fmt.Errorf("read drive at tick %d: %w", tick, err)
		}

		outputs, err := r.cfg.Network.Tick(ctx, drive)
		if err != nil {
			return result, fmt.Errorf("tick %d: %w", tick, err)
		}

		record := model.TraceRecord{
			Tick:        tick,
			Outputs:     outputs,
			SpikeCounts: r.cfg.Network.LastSpikeCounts(),
		}
		if r.cfg.RecordDrive {
			record.Drive = append([]int16(nil), drive...)
		}
		result.Trace = append(result.Trace, record)
		result.Ticks++
		for _, spiked := range outputs {
			if spiked {
				result.OutputSpikes++
			}
		}

		for _, sink := range r.cfg.Sinks {
			if err := sink.Write(ctx, tick, outputs); err != nil {
				return result, fmt.Errorf("trace sink %s at tick %d: %w", sink.Name(), tick, err)
			}
		}

		if r.cfg.Period > 0 {
			elapsed := time.Since(tickStart)
			if elapsed >= r.cfg.Period {
				result.Overruns++
				continue
			}
			timer := time.NewTimer(r.cfg.Period - elapsed)
			select {
			case <-ctx.Done():
				timer.Stop()
				return result, ctx.Err()
			case <-timer.C:
			}
		}
	}
	return result, nil
}

// Summary converts a result into its persisted form.
func (r Result) Summary(networkID string, createdAt time.Time) model.RunSummary {
	return model.RunSummary{
		RunID:        r.RunID,
		NetworkID:    networkID,
		CreatedAtUTC: createdAt.UTC().Format(time.RFC3339),
		Ticks:        r.Ticks,
		OutputSpikes: r.OutputSpikes,
		Overruns:     r.Overruns,
	}
}

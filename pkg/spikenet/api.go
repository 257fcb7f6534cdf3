// Package spikenet is the embedding API for the fixed-point spiking
// network engine: import a quantized network, persist it, and run
// tick-driven simulations against configurable drive sources.
package spikenet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"spikenet/internal/io"
	"spikenet/internal/model"
	"spikenet/internal/quantize"
	"spikenet/internal/sched"
	"spikenet/internal/storage"
	"spikenet/internal/topology"
)

const defaultDBPath = "spikenet.db"

type Options struct {
	StoreKind string
	DBPath    string
}

type Client struct {
	store storage.Store
}

func NewClient(ctx context.Context, opts Options) (*Client, error) {
	if opts.DBPath == "" {
		opts.DBPath = defaultDBPath
	}
	store, err := storage.NewStore(opts.StoreKind, opts.DBPath)
	if err != nil {
		return nil, err
	}
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}
	return &Client{store: store}, nil
}

// NewClientWithStore wraps an already-initialized store.
func NewClientWithStore(store storage.Store) *Client {
	return &Client{store: store}
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

// ImportRequest configures a float-model import.
type ImportRequest struct {
	NetworkID        string
	Leak             uint8
	Threshold        uint8
	RefractoryPeriod uint8
}

// ImportModel quantizes a trained-model parameter export, validates the
// resulting topology, and persists it under the requested network ID.
func (c *Client) ImportModel(ctx context.Context, data []byte, req ImportRequest) (model.NetworkSpec, error) {
	if req.NetworkID == "" {
		return model.NetworkSpec{}, errors.New("network id is required")
	}
	spec, err := quantize.ImportModel(data, quantize.ImportOptions{
		NetworkID: req.NetworkID,
		Defaults: quantize.NeuronDefaults{
			Leak:             req.Leak,
			Threshold:        req.Threshold,
			RefractoryPeriod: req.RefractoryPeriod,
		},
	})
	if err != nil {
		return model.NetworkSpec{}, err
	}
	if err := topology.Validate(spec); err != nil {
		return model.NetworkSpec{}, err
	}
	spec.SchemaVersion = storage.CurrentSchemaVersion
	spec.CodecVersion = storage.CurrentCodecVersion
	if err := c.store.SaveNetworkSpec(ctx, spec); err != nil {
		return model.NetworkSpec{}, fmt.Errorf("save network %s: %w", spec.ID, err)
	}
	return spec, nil
}

// SaveNetwork validates and persists a hand-built network spec.
func (c *Client) SaveNetwork(ctx context.Context, spec model.NetworkSpec) error {
	if err := topology.Validate(spec); err != nil {
		return err
	}
	spec.SchemaVersion = storage.CurrentSchemaVersion
	spec.CodecVersion = storage.CurrentCodecVersion
	return c.store.SaveNetworkSpec(ctx, spec)
}

// GetNetwork loads a persisted network spec.
func (c *Client) GetNetwork(ctx context.Context, id string) (model.NetworkSpec, bool, error) {
	return c.store.GetNetworkSpec(ctx, id)
}

// DriveConfig selects the nerve-layer input source for a run.
type DriveConfig struct {
	// Kind is "constant" (default), "zero", or "sequence".
	Kind   string
	Value  int16
	Frames [][]int16
	Loop   bool
}

// SimRequest configures one simulation run.
type SimRequest struct {
	RunID       string
	NetworkID   string
	Ticks       int
	Period      time.Duration
	Workers     int
	Drive       DriveConfig
	RecordDrive bool
}

// SimSummary reports a completed run.
type SimSummary struct {
	RunID        string
	NetworkID    string
	Ticks        int
	OutputSpikes int
	Overruns     int
}

// Run loads the network, drives it for the requested ticks, and persists
// the spike trace and run summary.
func (c *Client) Run(ctx context.Context, req SimRequest) (SimSummary, error) {
	if req.NetworkID == "" {
		return SimSummary{}, errors.New("network id is required")
	}
	if req.Ticks <= 0 {
		return SimSummary{}, errors.New("ticks must be > 0")
	}

	spec, ok, err := c.store.GetNetworkSpec(ctx, req.NetworkID)
	if err != nil {
		return SimSummary{}, err
	}
	if !ok {
		return SimSummary{}, fmt.Errorf("network not found: %s", req.NetworkID)
	}

	net, err := topology.Build(spec, topology.Options{Workers: req.Workers})
	if err != nil {
		return SimSummary{}, err
	}

	drive, err := buildDrive(req.Drive, net.NerveWidth())
	if err != nil {
		return SimSummary{}, err
	}

	runner, err := sched.NewRunner(sched.Config{
		RunID:       req.RunID,
		Network:     net,
		Drive:       drive,
		Ticks:       req.Ticks,
		Period:      req.Period,
		RecordDrive: req.RecordDrive,
	})
	if err != nil {
		return SimSummary{}, err
	}

	result, err := runner.Run(ctx)
	if err != nil {
		return SimSummary{}, err
	}

	if err := c.store.SaveSpikeTrace(ctx, result.RunID, result.Trace); err != nil {
		return SimSummary{}, fmt.Errorf("save spike trace %s: %w", result.RunID, err)
	}
	summary := result.Summary(req.NetworkID, time.Now())
	summary.SchemaVersion = storage.CurrentSchemaVersion
	summary.CodecVersion = storage.CurrentCodecVersion
	if err := c.store.SaveRunSummary(ctx, summary); err != nil {
		return SimSummary{}, fmt.Errorf("save run summary %s: %w", result.RunID, err)
	}

	return SimSummary{
		RunID:        result.RunID,
		NetworkID:    req.NetworkID,
		Ticks:        result.Ticks,
		OutputSpikes: result.OutputSpikes,
		Overruns:     result.Overruns,
	}, nil
}

// Trace loads the spike trace for a run.
func (c *Client) Trace(ctx context.Context, runID string) ([]model.TraceRecord, bool, error) {
	return c.store.GetSpikeTrace(ctx, runID)
}

// Runs lists persisted run summaries.
func (c *Client) Runs(ctx context.Context) ([]model.RunSummary, error) {
	return c.store.ListRunSummaries(ctx)
}

func buildDrive(cfg DriveConfig, width int) (io.DriveSource, error) {
	switch cfg.Kind {
	case "", io.ConstantDriveName:
		return io.NewConstantDrive(width, cfg.Value), nil
	case io.ZeroDriveName:
		return io.NewConstantDrive(width, 0), nil
	case io.SequenceDriveName:
		drive, err := io.NewSequenceDrive(cfg.Frames, cfg.Loop)
		if err != nil {
			return nil, err
		}
		if len(cfg.Frames[0]) != width {
			return nil, fmt.Errorf("sequence frame width mismatch: got=%d want=%d", len(cfg.Frames[0]), width)
		}
		return drive, nil
	default:
		return nil, fmt.Errorf("unsupported drive kind: %s", cfg.Kind)
	}
}

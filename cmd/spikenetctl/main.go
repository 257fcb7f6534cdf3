package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"spikenet/internal/model"
	"spikenet/internal/storage"
	"spikenet/internal/topology"
	spikeapi "spikenet/pkg/spikenet"
)

const defaultDBPath = "spikenet.db"

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "init":
		return runInit(ctx, args[1:])
	case "import":
		return runImport(ctx, args[1:])
	case "validate":
		return runValidate(ctx, args[1:])
	case "run":
		return runRun(ctx, args[1:])
	case "trace":
		return runTrace(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: spikenetctl <init|import|validate|run|trace|runs> [flags]", msg)
}

func newClient(ctx context.Context, storeKind, dbPath string) (*spikeapi.Client, error) {
	return spikeapi.NewClient(ctx, spikeapi.Options{
		StoreKind: storeKind,
		DBPath:    dbPath,
	})
}

func runInit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(ctx, *storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	fmt.Printf("initialized store=%s\n", *storeKind)
	return nil
}

func runImport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	modelPath := fs.String("model", "", "trained-model parameter export JSON path")
	networkID := fs.String("network-id", "", "network id to store the quantized network under")
	leak := fs.Int("leak", 1, "per-tick leak applied to every imported neuron")
	threshold := fs.Int("threshold", 64, "firing threshold applied to every imported neuron")
	refractory := fs.Int("refractory", 0, "refractory period applied to every imported neuron")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *modelPath == "" {
		return errors.New("import requires --model")
	}
	if *networkID == "" {
		return errors.New("import requires --network-id")
	}
	if *leak < 0 || *leak > 255 || *threshold < 1 || *threshold > 255 || *refractory < 0 || *refractory > 255 {
		return errors.New("leak, threshold, and refractory must fit in 8 bits (threshold > 0)")
	}

	data, err := os.ReadFile(*modelPath)
	if err != nil {
		return err
	}

	client, err := newClient(ctx, *storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	spec, err := client.ImportModel(ctx, data, spikeapi.ImportRequest{
		NetworkID:        *networkID,
		Leak:             uint8(*leak),
		Threshold:        uint8(*threshold),
		RefractoryPeriod: uint8(*refractory),
	})
	if err != nil {
		return err
	}

	fmt.Printf("imported network_id=%s layers=%d\n", spec.ID, len(spec.Layers))
	for i, layer := range spec.Layers {
		fmt.Printf("layer=%d name=%s neurons=%d\n", i, layer.Name, len(layer.Neurons))
	}
	return nil
}

func runValidate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	specPath := fs.String("spec", "", "network spec JSON path")
	networkID := fs.String("network-id", "", "validate a persisted network instead of a file")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *specPath != "" && *networkID != "" {
		return errors.New("use either --spec or --network-id, not both")
	}
	if *specPath == "" && *networkID == "" {
		return errors.New("validate requires --spec or --network-id")
	}

	var spec model.NetworkSpec
	if *specPath != "" {
		data, err := os.ReadFile(*specPath)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(data, &spec); err != nil {
			return fmt.Errorf("parse network spec: %w", err)
		}
	} else {
		client, err := newClient(ctx, *storeKind, *dbPath)
		if err != nil {
			return err
		}
		defer func() {
			_ = client.Close()
		}()
		loaded, ok, err := client.GetNetwork(ctx, *networkID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("network not found: %s", *networkID)
		}
		spec = loaded
	}

	if err := topology.Validate(spec); err != nil {
		return err
	}

	neurons := 0
	for _, layer := range spec.Layers {
		neurons += len(layer.Neurons)
	}
	fmt.Printf("valid network_id=%s layers=%d neurons=%d\n", spec.ID, len(spec.Layers), neurons)
	return nil
}

func runRun(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	configPath := fs.String("config", "", "optional run config JSON path")
	networkID := fs.String("network-id", "", "network id to simulate")
	runID := fs.String("run-id", "", "explicit run id (optional)")
	ticks := fs.Int("ticks", 100, "tick count")
	periodMS := fs.Int("period-ms", 0, "scheduler period in milliseconds (0 runs back-to-back)")
	workers := fs.Int("workers", 1, "worker count for layer updates")
	driveKind := fs.String("drive", "constant", "drive source: constant|zero|sequence")
	driveValue := fs.Int("drive-value", 0, "constant drive sample value")
	driveLoop := fs.Bool("drive-loop", false, "loop the sequence drive when exhausted")
	recordDrive := fs.Bool("record-drive", false, "embed the drive vector in each trace record")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	setFlags := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		setFlags[f.Name] = true
	})
	if *driveValue < -32768 || *driveValue > 32767 {
		return errors.New("drive-value must fit in 16 bits")
	}

	req, err := loadOrDefaultSimRequest(*configPath)
	if err != nil {
		return err
	}
	if *configPath == "" {
		req = spikeapi.SimRequest{
			RunID:       *runID,
			NetworkID:   *networkID,
			Ticks:       *ticks,
			Period:      time.Duration(*periodMS) * time.Millisecond,
			Workers:     *workers,
			RecordDrive: *recordDrive,
			Drive: spikeapi.DriveConfig{
				Kind:  *driveKind,
				Value: int16(*driveValue),
				Loop:  *driveLoop,
			},
		}
	} else {
		overrideFromFlags(&req, setFlags, map[string]any{
			"run-id":       *runID,
			"network-id":   *networkID,
			"ticks":        *ticks,
			"period-ms":    *periodMS,
			"workers":      *workers,
			"drive":        *driveKind,
			"drive-value":  *driveValue,
			"drive-loop":   *driveLoop,
			"record-drive": *recordDrive,
		})
	}
	if req.NetworkID == "" {
		return errors.New("run requires --network-id (or network_id in --config)")
	}

	client, err := newClient(ctx, *storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Run(ctx, req)
	if err != nil {
		return err
	}
	fmt.Printf("run completed run_id=%s network_id=%s ticks=%d output_spikes=%d overruns=%d\n",
		summary.RunID,
		summary.NetworkID,
		summary.Ticks,
		summary.OutputSpikes,
		summary.Overruns,
	)
	return nil
}

func runTrace(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("trace", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	limit := fs.Int("limit", 50, "max trace records to print (<=0 for all)")
	spikesOnly := fs.Bool("spikes-only", false, "print only ticks with at least one output spike")
	jsonOut := fs.Bool("json", false, "emit trace records as JSON")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" {
		return errors.New("trace requires --run-id")
	}

	client, err := newClient(ctx, *storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	trace, ok, err := client.Trace(ctx, *runID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("trace not found: %s", *runID)
	}
	if *spikesOnly {
		filtered := trace[:0]
		for _, record := range trace {
			for _, spiked := range record.Outputs {
				if spiked {
					filtered = append(filtered, record)
					break
				}
			}
		}
		trace = filtered
	}
	if *limit > 0 && len(trace) > *limit {
		trace = trace[:*limit]
	}
	if len(trace) == 0 {
		fmt.Println("no trace records")
		return nil
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(trace)
	}

	for _, record := range trace {
		fmt.Printf("tick=%d outputs=%s spike_counts=%v\n", record.Tick, formatOutputs(record.Outputs), record.SpikeCounts)
	}
	return nil
}

func runRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "max runs to list")
	jsonOut := fs.Bool("json", false, "emit runs list as JSON")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *limit <= 0 {
		return errors.New("limit must be > 0")
	}

	client, err := newClient(ctx, *storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	entries, err := client.Runs(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("no runs found")
		return nil
	}
	if len(entries) > *limit {
		entries = entries[:*limit]
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	for _, e := range entries {
		fmt.Printf("run_id=%s network_id=%s created_at=%s ticks=%d output_spikes=%d overruns=%d\n",
			e.RunID,
			e.NetworkID,
			e.CreatedAtUTC,
			e.Ticks,
			e.OutputSpikes,
			e.Overruns,
		)
	}
	return nil
}

func formatOutputs(outputs []bool) string {
	buf := make([]byte, len(outputs))
	for i, spiked := range outputs {
		if spiked {
			buf[i] = '1'
		} else {
			buf[i] = '0'
		}
	}
	return string(buf)
}

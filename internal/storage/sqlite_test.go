//go:build sqlite

package storage

import (
	"context"
	"path/filepath"
	"testing"

	"spikenet/internal/model"
)

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "spikenet.db")

	store := NewSQLiteStore(dbPath)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	spec := testNetworkSpec("net-1")
	if err := store.SaveNetworkSpec(ctx, spec); err != nil {
		t.Fatalf("save network: %v", err)
	}
	loaded, ok, err := store.GetNetworkSpec(ctx, "net-1")
	if err != nil {
		t.Fatalf("get network: %v", err)
	}
	if !ok || len(loaded.Layers) != 2 {
		t.Fatalf("unexpected network: ok=%v %+v", ok, loaded)
	}

	trace := []model.TraceRecord{{Tick: 1, Outputs: []bool{true}}}
	if err := store.SaveSpikeTrace(ctx, "run-1", trace); err != nil {
		t.Fatalf("save trace: %v", err)
	}
	gotTrace, ok, err := store.GetSpikeTrace(ctx, "run-1")
	if err != nil || !ok || len(gotTrace) != 1 || !gotTrace[0].Outputs[0] {
		t.Fatalf("trace round trip: ok=%v err=%v trace=%+v", ok, err, gotTrace)
	}

	summary := model.RunSummary{
		VersionedRecord: model.VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion},
		RunID:           "run-1",
		NetworkID:       "net-1",
		CreatedAtUTC:    "2026-08-23T12:00:00Z",
		Ticks:           10,
		OutputSpikes:    3,
	}
	if err := store.SaveRunSummary(ctx, summary); err != nil {
		t.Fatalf("save summary: %v", err)
	}
	list, err := store.ListRunSummaries(ctx)
	if err != nil || len(list) != 1 || list[0].OutputSpikes != 3 {
		t.Fatalf("list summaries: err=%v list=%+v", err, list)
	}
}

func TestSQLiteStoreUpsert(t *testing.T) {
	ctx := context.Background()
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "spikenet.db"))
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	spec := testNetworkSpec("net-1")
	if err := store.SaveNetworkSpec(ctx, spec); err != nil {
		t.Fatalf("save: %v", err)
	}
	spec.Layers[1].Neurons[0].Threshold = 42
	if err := store.SaveNetworkSpec(ctx, spec); err != nil {
		t.Fatalf("resave: %v", err)
	}

	loaded, _, err := store.GetNetworkSpec(ctx, "net-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.Layers[1].Neurons[0].Threshold != 42 {
		t.Fatalf("upsert did not replace payload: %+v", loaded)
	}
}

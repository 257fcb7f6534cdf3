package storage

import (
	"context"
	"testing"

	"spikenet/internal/model"
)

func testNetworkSpec(id string) model.NetworkSpec {
	return model.NetworkSpec{
		VersionedRecord: model.VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion},
		ID:              id,
		Layers: []model.LayerSpec{
			{Name: "nerve", Neurons: []model.NeuronSpec{
				{ID: 0, Threshold: 1, Weights: []int8{115}},
			}},
			{Name: "out", Neurons: []model.NeuronSpec{
				{ID: 1, Leak: 1, Threshold: 10, RefractoryPeriod: 3, Weights: []int8{5}},
			}},
		},
	}
}

func TestMemoryStoreNetworkSpecRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	spec := testNetworkSpec("net-1")
	if err := store.SaveNetworkSpec(ctx, spec); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, ok, err := store.GetNetworkSpec(ctx, "net-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok {
		t.Fatal("expected persisted network spec")
	}
	if len(loaded.Layers) != 2 || loaded.Layers[1].Neurons[0].Weights[0] != 5 {
		t.Fatalf("unexpected spec: %+v", loaded)
	}

	if _, ok, _ := store.GetNetworkSpec(ctx, "missing"); ok {
		t.Fatal("unexpected hit for missing id")
	}
}

func TestMemoryStoreSpikeTraceRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	trace := []model.TraceRecord{
		{Tick: 1, Drive: []int16{128}, Outputs: []bool{false}, SpikeCounts: []int{1, 0}},
		{Tick: 2, Drive: []int16{128}, Outputs: []bool{true}, SpikeCounts: []int{0, 1}},
	}
	if err := store.SaveSpikeTrace(ctx, "run-1", trace); err != nil {
		t.Fatalf("save trace: %v", err)
	}

	loaded, ok, err := store.GetSpikeTrace(ctx, "run-1")
	if err != nil {
		t.Fatalf("get trace: %v", err)
	}
	if !ok || len(loaded) != 2 {
		t.Fatalf("unexpected trace: ok=%v len=%d", ok, len(loaded))
	}
	if !loaded[1].Outputs[0] || loaded[1].Tick != 2 {
		t.Fatalf("unexpected record: %+v", loaded[1])
	}
}

func TestMemoryStoreRunSummaries(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	first := model.RunSummary{RunID: "run-a", NetworkID: "net-1", CreatedAtUTC: "2026-08-23T10:00:00Z", Ticks: 100}
	second := model.RunSummary{RunID: "run-b", NetworkID: "net-1", CreatedAtUTC: "2026-08-23T11:00:00Z", Ticks: 50}
	if err := store.SaveRunSummary(ctx, second); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.SaveRunSummary(ctx, first); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, ok, err := store.GetRunSummary(ctx, "run-a")
	if err != nil || !ok || got.Ticks != 100 {
		t.Fatalf("get summary: %+v ok=%v err=%v", got, ok, err)
	}

	list, err := store.ListRunSummaries(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].RunID != "run-a" || list[1].RunID != "run-b" {
		t.Fatalf("unexpected order: %+v", list)
	}
}

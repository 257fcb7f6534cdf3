package storage

import (
	"context"

	"spikenet/internal/model"
)

// Store persists network descriptions and simulation artifacts. The engine
// itself never touches storage; the facade and CLI do, between runs.
type Store interface {
	Init(ctx context.Context) error
	SaveNetworkSpec(ctx context.Context, spec model.NetworkSpec) error
	GetNetworkSpec(ctx context.Context, id string) (model.NetworkSpec, bool, error)
	SaveSpikeTrace(ctx context.Context, runID string, trace []model.TraceRecord) error
	GetSpikeTrace(ctx context.Context, runID string) ([]model.TraceRecord, bool, error)
	SaveRunSummary(ctx context.Context, summary model.RunSummary) error
	GetRunSummary(ctx context.Context, runID string) (model.RunSummary, bool, error)
	ListRunSummaries(ctx context.Context) ([]model.RunSummary, error)
}

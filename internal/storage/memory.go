package storage

import (
	"context"
	"sort"
	"sync"

	"spikenet/internal/model"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	networks    map[string]model.NetworkSpec
	traces      map[string][]model.TraceRecord
	summaries   map[string]model.RunSummary
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.networks = make(map[string]model.NetworkSpec)
	s.traces = make(map[string][]model.TraceRecord)
	s.summaries = make(map[string]model.RunSummary)
	return nil
}

func (s *MemoryStore) SaveNetworkSpec(_ context.Context, spec model.NetworkSpec) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.networks[spec.ID] = spec
	return nil
}

func (s *MemoryStore) GetNetworkSpec(_ context.Context, id string) (model.NetworkSpec, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	spec, ok := s.networks[id]
	return spec, ok, nil
}

func (s *MemoryStore) SaveSpikeTrace(_ context.Context, runID string, trace []model.TraceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.traces[runID] = append([]model.TraceRecord(nil), trace...)
	return nil
}

func (s *MemoryStore) GetSpikeTrace(_ context.Context, runID string) ([]model.TraceRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	trace, ok := s.traces[runID]
	if !ok {
		return nil, false, nil
	}
	return append([]model.TraceRecord(nil), trace...), true, nil
}

func (s *MemoryStore) SaveRunSummary(_ context.Context, summary model.RunSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.summaries[summary.RunID] = summary
	return nil
}

func (s *MemoryStore) GetRunSummary(_ context.Context, runID string) (model.RunSummary, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary, ok := s.summaries[runID]
	return summary, ok, nil
}

func (s *MemoryStore) ListRunSummaries(_ context.Context) ([]model.RunSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.RunSummary, 0, len(s.summaries))
	for _, summary := range s.summaries {
		out = append(out, summary)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAtUTC == out[j].CreatedAtUTC {
			return out[i].RunID < out[j].RunID
		}
		return out[i].CreatedAtUTC < out[j].CreatedAtUTC
	})
	return out, nil
}

package cortex

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
)

// ErrTickInProgress is returned when Tick is invoked while a previous
// invocation has not returned. The scheduler contract is one call per
// period with no overlap; a second caller is a structural misuse, not a
// condition to wait out.
var ErrTickInProgress = errors.New("tick already in progress")

// Network sequences layer updates for one feed-forward spiking network.
// Layers run in input->output order; layer 0 is the nerve layer driven by
// external input, the last layer is the output layer.
type Network struct {
	id      string
	layers  []*Layer
	workers int

	ticking atomic.Bool

	// lastCounts holds per-layer spike counts captured during the most
	// recent tick, before the end-of-tick reset pass. Written only under
	// the ticking guard.
	lastCounts []int
}

// NewNetwork assembles validated layers into a network. workers <= 1 keeps
// every layer update on the calling goroutine; workers > 1 fans each
// layer's neuron range out across that many goroutines, with a barrier
// between layers so cross-layer ordering stays strict.
func NewNetwork(id string, layers []*Layer, workers int) (*Network, error) {
	if len(layers) < 2 {
		return nil, fmt.Errorf("network needs a nerve layer and at least one downstream layer, got %d layers", len(layers))
	}
	if workers < 1 {
		workers = 1
	}
	return &Network{
		id:         id,
		layers:     layers,
		workers:    workers,
		lastCounts: make([]int, len(layers)),
	}, nil
}

// ID returns the network's identifier.
func (n *Network) ID() string {
	return n.id
}

// Layers returns the number of layers.
func (n *Network) Layers() int {
	return len(n.layers)
}

// Layer returns the layer at index i, for observers and tests.
func (n *Network) Layer(i int) *Layer {
	return n.layers[i]
}

// OutputWidth returns the width of the output layer.
func (n *Network) OutputWidth() int {
	return n.layers[len(n.layers)-1].Len()
}

// NerveWidth returns the width of the nerve layer, which is the expected
// drive vector length.
func (n *Network) NerveWidth() int {
	return n.layers[0].Len()
}

// Tick runs one scheduler period: the nerve layer integrates the external
// drive, each downstream layer integrates its predecessor's current-tick
// spikes in strict order, the output spike vector is snapshotted, and
// every layer's spike flags are cleared so the next tick starts clean.
// The returned slice is the caller's to keep.
func (n *Network) Tick(ctx context.Context, drive []int16) ([]bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !n.ticking.CompareAndSwap(false, true) {
		return nil, ErrTickInProgress
	}
	defer n.ticking.Store(false)

	nerve := n.layers[0]
	if len(drive) != nerve.Len() {
		return nil, fmt.Errorf("drive size mismatch: got=%d want=%d", len(drive), nerve.Len())
	}

	nerve.NerveUpdate(drive, n.workers)
	for i := 1; i < len(n.layers); i++ {
		n.layers[i].Update(n.layers[i-1], n.workers)
	}

	for i, layer := range n.layers {
		n.lastCounts[i] = layer.SpikeCount()
	}
	out := n.layers[len(n.layers)-1].Spikes()

	for _, layer := range n.layers {
		layer.SpikeReset()
	}
	return out, nil
}

// LastSpikeCounts returns per-layer spike counts from the most recent
// tick, captured before the end-of-tick reset. Read it between ticks; it
// is not safe concurrently with Tick.
func (n *Network) LastSpikeCounts() []int {
	return append([]int(nil), n.lastCounts...)
}

// Package topology turns a persisted NetworkSpec into a runnable cortex
// network. All structural validation happens here, once, so the per-tick
// engine never re-checks connection counts or parameter ranges.
package topology

import (
	"errors"
	"fmt"

	"spikenet/internal/cortex"
	"spikenet/internal/model"
)

var (
	ErrNoLayers           = errors.New("network spec needs a nerve layer and at least one downstream layer")
	ErrEmptyLayer         = errors.New("layer has no neurons")
	ErrZeroThreshold      = errors.New("threshold must be > 0")
	ErrConnectionMismatch = errors.New("weight count does not match previous layer width")
)

// Options tunes the built network.
type Options struct {
	// Workers > 1 fans each layer update out across that many goroutines.
	Workers int
}

// Validate checks a NetworkSpec's cross-layer invariants: at least two
// layers, no empty layers, strictly positive thresholds, one weight per
// nerve neuron, and every downstream neuron's weight count equal to its
// previous layer's width.
func Validate(spec model.NetworkSpec) error {
	if len(spec.Layers) < 2 {
		return fmt.Errorf("network %q: %w (got %d)", spec.ID, ErrNoLayers, len(spec.Layers))
	}
	prevWidth := 1 // nerve neurons carry a single drive weight
	for li, layer := range spec.Layers {
		if len(layer.Neurons) == 0 {
			return fmt.Errorf("layer %d (%s): %w", li, layerName(layer, li), ErrEmptyLayer)
		}
		for ni, neuron := range layer.Neurons {
			if neuron.Threshold == 0 {
				return fmt.Errorf("layer %d (%s) neuron %d: %w", li, layerName(layer, li), ni, ErrZeroThreshold)
			}
			if len(neuron.Weights) != prevWidth {
				return fmt.Errorf("layer %d (%s) neuron %d: %w: got=%d want=%d",
					li, layerName(layer, li), ni, ErrConnectionMismatch, len(neuron.Weights), prevWidth)
			}
		}
		prevWidth = len(layer.Neurons)
	}
	return nil
}

// Build validates the spec and assembles the network. Each layer gets one
// flat weight table, copied out of the spec; its neurons borrow
// non-overlapping views into it for their lifetime.
func Build(spec model.NetworkSpec, opts Options) (*cortex.Network, error) {
	if err := Validate(spec); err != nil {
		return nil, err
	}

	layers := make([]*cortex.Layer, 0, len(spec.Layers))
	for li, layerSpec := range spec.Layers {
		total := 0
		for _, neuron := range layerSpec.Neurons {
			total += len(neuron.Weights)
		}

		// Capacity is exact, so the append loop never reallocates and the
		// neuron views stay aliased to this table.
		table := make([]int8, 0, total)
		neurons := make([]cortex.Neuron, 0, len(layerSpec.Neurons))
		for _, neuron := range layerSpec.Neurons {
			start := len(table)
			table = append(table, neuron.Weights...)
			view := table[start:len(table):len(table)]
			neurons = append(neurons, cortex.NewNeuron(
				neuron.ID, neuron.Leak, neuron.Threshold, neuron.RefractoryPeriod, view))
		}
		layers = append(layers, cortex.NewLayer(layerName(layerSpec, li), neurons, table))
	}

	return cortex.NewNetwork(spec.ID, layers, opts.Workers)
}

func layerName(layer model.LayerSpec, index int) string {
	if layer.Name != "" {
		return layer.Name
	}
	if index == 0 {
		return "nerve"
	}
	return fmt.Sprintf("layer-%d", index)
}

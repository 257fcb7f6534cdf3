// Package quantize imports trained floating-point SNN models into the
// engine's fixed-point domain. The input is the JSON parameter export
// produced by the training-side extraction tool: a "model_architecture"
// width list plus per-neuron weight lists keyed "l<layer>_n<neuron>_w",
// where layer 0 is the synthetic nerve layer carrying one drive weight per
// input channel.
package quantize

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"spikenet/internal/model"
)

// WeightBits is the representation width of a quantized weight. One bit
// holds the sign, leaving 7 fractional bits (Q0.7).
const WeightBits = 8

var (
	ErrNoArchitecture = errors.New("model export has no architecture")
	ErrTooManyNeurons = errors.New("model exceeds the uint8 neuron id space")
)

// NeuronDefaults supplies the LIF parameters the float export does not
// carry. They apply to every neuron; thresholds must be > 0 to pass
// topology validation.
type NeuronDefaults struct {
	Leak             uint8
	Threshold        uint8
	RefractoryPeriod uint8
}

// ImportOptions configures a model import.
type ImportOptions struct {
	NetworkID string
	Defaults  NeuronDefaults
}

// QuantizeValue converts a float to its fixed-point integer representation
// at the given bit width. Without negatives the full width is fractional
// and values below zero clamp to zero; with negatives one bit is reserved
// for the sign. Truncation is toward zero, matching the training-side
// exporter.
func QuantizeValue(bits int, value float64, negativesAllowed bool) int {
	if !negativesAllowed {
		if value < 0 {
			value = 0
		}
	} else {
		bits--
	}
	return int(math.Trunc(math.Pow(2, float64(bits)) * value))
}

// QuantizeWeight converts a float weight to Q0.7, saturating at the int8
// range so out-of-range trained weights clamp instead of wrapping.
func QuantizeWeight(value float64) int8 {
	q := QuantizeValue(WeightBits, value, true)
	if q > math.MaxInt8 {
		return math.MaxInt8
	}
	if q < math.MinInt8 {
		return math.MinInt8
	}
	return int8(q)
}

// ImportModel parses a model parameter export and produces a NetworkSpec
// with quantized weights and the supplied per-neuron defaults. Neuron IDs
// are assigned sequentially across the network in layer order.
func ImportModel(data []byte, opts ImportOptions) (model.NetworkSpec, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return model.NetworkSpec{}, fmt.Errorf("parse model export: %w", err)
	}

	widths, err := architecture(raw)
	if err != nil {
		return model.NetworkSpec{}, err
	}

	total := 0
	for _, w := range widths {
		total += w
	}
	if total > math.MaxUint8+1 {
		return model.NetworkSpec{}, fmt.Errorf("%w: %d neurons", ErrTooManyNeurons, total)
	}

	spec := model.NetworkSpec{ID: opts.NetworkID}
	nextID := 0
	for li, width := range widths {
		fanIn := 1 // nerve neurons carry a single drive weight
		if li > 0 {
			fanIn = widths[li-1]
		}

		layer := model.LayerSpec{Neurons: make([]model.NeuronSpec, 0, width)}
		if li == 0 {
			layer.Name = "nerve"
		}
		for ni := 0; ni < width; ni++ {
			key := fmt.Sprintf("l%d_n%d_w", li, ni)
			weights, err := floatList(raw, key)
			if err != nil {
				return model.NetworkSpec{}, err
			}
			if len(weights) != fanIn {
				return model.NetworkSpec{}, fmt.Errorf("%s: weight count mismatch: got=%d want=%d", key, len(weights), fanIn)
			}

			quantized := make([]int8, len(weights))
			for i, w := range weights {
				quantized[i] = QuantizeWeight(w)
			}
			layer.Neurons = append(layer.Neurons, model.NeuronSpec{
				ID:               uint8(nextID),
				Leak:             opts.Defaults.Leak,
				Threshold:        opts.Defaults.Threshold,
				RefractoryPeriod: opts.Defaults.RefractoryPeriod,
				Weights:          quantized,
			})
			nextID++
		}
		spec.Layers = append(spec.Layers, layer)
	}

	return spec, nil
}

func architecture(raw map[string]any) ([]int, error) {
	value, ok := raw["model_architecture"]
	if !ok {
		return nil, ErrNoArchitecture
	}
	list, ok := value.([]any)
	if !ok || len(list) == 0 {
		return nil, ErrNoArchitecture
	}

	widths := make([]int, 0, len(list))
	for i, entry := range list {
		f, ok := entry.(float64)
		if !ok || f < 1 || f != math.Trunc(f) {
			return nil, fmt.Errorf("model_architecture[%d]: invalid layer width %v", i, entry)
		}
		widths = append(widths, int(f))
	}
	return widths, nil
}

func floatList(raw map[string]any, key string) ([]float64, error) {
	value, ok := raw[key]
	if !ok {
		return nil, fmt.Errorf("model export missing %s", key)
	}
	list, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected a list, got %T", key, value)
	}
	out := make([]float64, 0, len(list))
	for i, entry := range list {
		f, ok := entry.(float64)
		if !ok {
			return nil, fmt.Errorf("%s[%d]: expected a number, got %T", key, i, entry)
		}
		out = append(out, f)
	}
	return out, nil
}

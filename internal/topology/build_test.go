package topology

import (
	"context"
	"errors"
	"testing"

	"spikenet/internal/model"
)

func validSpec() model.NetworkSpec {
	return model.NetworkSpec{
		ID: "net-1",
		Layers: []model.LayerSpec{
			{Name: "nerve", Neurons: []model.NeuronSpec{
				{ID: 0, Leak: 0, Threshold: 1, RefractoryPeriod: 0, Weights: []int8{127}},
				{ID: 1, Leak: 0, Threshold: 1, RefractoryPeriod: 0, Weights: []int8{127}},
			}},
			{Name: "hidden", Neurons: []model.NeuronSpec{
				{ID: 2, Leak: 1, Threshold: 10, RefractoryPeriod: 2, Weights: []int8{5, 5}},
				{ID: 3, Leak: 1, Threshold: 10, RefractoryPeriod: 2, Weights: []int8{5, -5}},
				{ID: 4, Leak: 1, Threshold: 10, RefractoryPeriod: 2, Weights: []int8{-5, 5}},
			}},
			{Name: "out", Neurons: []model.NeuronSpec{
				{ID: 5, Leak: 0, Threshold: 5, RefractoryPeriod: 1, Weights: []int8{10, 10, 10}},
			}},
		},
	}
}

func TestValidateAcceptsWellFormedSpec(t *testing.T) {
	if err := Validate(validSpec()); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*model.NetworkSpec)
		wantErr error
	}{
		{
			name:    "single layer",
			mutate:  func(s *model.NetworkSpec) { s.Layers = s.Layers[:1] },
			wantErr: ErrNoLayers,
		},
		{
			name:    "empty layer",
			mutate:  func(s *model.NetworkSpec) { s.Layers[1].Neurons = nil },
			wantErr: ErrEmptyLayer,
		},
		{
			name:    "zero threshold",
			mutate:  func(s *model.NetworkSpec) { s.Layers[1].Neurons[0].Threshold = 0 },
			wantErr: ErrZeroThreshold,
		},
		{
			name:    "hidden fan-in mismatch",
			mutate:  func(s *model.NetworkSpec) { s.Layers[1].Neurons[2].Weights = []int8{1, 2, 3} },
			wantErr: ErrConnectionMismatch,
		},
		{
			name:    "nerve neuron with multiple weights",
			mutate:  func(s *model.NetworkSpec) { s.Layers[0].Neurons[0].Weights = []int8{1, 2} },
			wantErr: ErrConnectionMismatch,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spec := validSpec()
			tc.mutate(&spec)
			err := Validate(spec)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("got %v, want %v", err, tc.wantErr)
			}
			if _, buildErr := Build(spec, Options{}); !errors.Is(buildErr, tc.wantErr) {
				t.Fatalf("build accepted invalid spec: %v", buildErr)
			}
		})
	}
}

func TestBuildProducesRunnableNetwork(t *testing.T) {
	net, err := Build(validSpec(), Options{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if net.Layers() != 3 {
		t.Fatalf("layers = %d, want 3", net.Layers())
	}
	if net.NerveWidth() != 2 || net.OutputWidth() != 1 {
		t.Fatalf("widths = %d/%d, want 2/1", net.NerveWidth(), net.OutputWidth())
	}

	// Full-scale drive fires the pass-through nerve neurons, hidden
	// neuron 2 sums both spikes to exactly its threshold, and the output
	// neuron sees that spike, all within the first tick.
	outputs, err := net.Tick(context.Background(), []int16{128, 128})
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if !outputs[0] {
		t.Fatal("spike did not propagate nerve->hidden->out within one tick")
	}
	hidden := net.Layer(1).Neuron(0)
	if hidden.Potential != 0 || hidden.Refractory != 2 {
		t.Fatalf("hidden neuron after spike: potential=%d refractory=%d, want 0/2", hidden.Potential, hidden.Refractory)
	}
	// The mixed-weight siblings cancel out and stay at rest.
	if got := net.Layer(1).Neuron(1).Potential; got != 0 {
		t.Fatalf("hidden neuron 1 potential = %d, want 0", got)
	}
}

func TestBuildCopiesWeightsOutOfSpec(t *testing.T) {
	spec := validSpec()
	net, err := Build(spec, Options{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	// Mutating the spec after build must not reach the running network.
	spec.Layers[1].Neurons[0].Weights[0] = -128
	got := net.Layer(1).Neuron(0).Weights()
	if got[0] != 5 {
		t.Fatalf("network weight aliased to spec: %d", got[0])
	}
}

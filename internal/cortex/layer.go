package cortex

import "sync"

// Layer is a contiguous fixed-length run of neurons sharing one input
// source. The layer owns the flat weight table its neurons borrow views
// into, and the sequencing of per-neuron updates; it never owns the input
// it reads from.
type Layer struct {
	name    string
	neurons []Neuron

	// table is the backing storage for every neuron's weight view. It is
	// written once at construction and read-only afterwards.
	table []int8
}

// NewLayer wraps neurons and their backing weight table into a layer. The
// neurons' weight views must point into table; the topology builder
// arranges this.
func NewLayer(name string, neurons []Neuron, table []int8) *Layer {
	return &Layer{name: name, neurons: neurons, table: table}
}

// Name returns the layer's diagnostic name.
func (l *Layer) Name() string {
	return l.name
}

// Len returns the number of neurons in the layer.
func (l *Layer) Len() int {
	return len(l.neurons)
}

// Neuron returns the neuron at index i, for observers and tests.
func (l *Layer) Neuron(i int) *Neuron {
	return &l.neurons[i]
}

// Update runs every neuron's per-tick transition against prev's
// current-tick spike vector. Neurons read only the previous layer, never
// siblings, so update order within the layer is not observable; with
// workers > 1 the range is chunked across goroutines with a barrier before
// return.
func (l *Layer) Update(prev *Layer, workers int) {
	if workers <= 1 {
		for i := range l.neurons {
			l.neurons[i].Update(prev.neurons)
		}
		return
	}
	l.parallel(workers, func(i int) {
		l.neurons[i].Update(prev.neurons)
	})
}

// NerveUpdate runs the nerve-layer transition with one external drive
// sample per neuron. The caller guarantees len(drive) == l.Len().
func (l *Layer) NerveUpdate(drive []int16, workers int) {
	if workers <= 1 {
		for i := range l.neurons {
			l.neurons[i].NerveUpdate(drive[i])
		}
		return
	}
	l.parallel(workers, func(i int) {
		l.neurons[i].NerveUpdate(drive[i])
	})
}

// SpikeReset clears every neuron's spike flag, leaving potentials and
// refractory countdowns untouched.
func (l *Layer) SpikeReset() {
	for i := range l.neurons {
		l.neurons[i].SpikeReset()
	}
}

// Spikes returns a snapshot of the layer's current spike vector.
func (l *Layer) Spikes() []bool {
	out := make([]bool, len(l.neurons))
	for i := range l.neurons {
		out[i] = l.neurons[i].Spike
	}
	return out
}

// SpikeCount returns the number of neurons currently spiking.
func (l *Layer) SpikeCount() int {
	count := 0
	for i := range l.neurons {
		if l.neurons[i].Spike {
			count++
		}
	}
	return count
}

// Potentials returns a snapshot of the layer's membrane potentials.
func (l *Layer) Potentials() []int16 {
	out := make([]int16, len(l.neurons))
	for i := range l.neurons {
		out[i] = l.neurons[i].Potential
	}
	return out
}

func (l *Layer) parallel(workers int, update func(i int)) {
	if len(l.neurons) == 0 {
		return
	}
	if workers > len(l.neurons) {
		workers = len(l.neurons)
	}
	chunk := (len(l.neurons) + workers - 1) / workers

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := min(start+chunk, len(l.neurons))
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				update(i)
			}
		}(start, end)
	}
	wg.Wait()
}

// Package cortex implements the fixed-point leaky integrate-and-fire tick
// engine: per-neuron state transitions, layer drivers, and the per-tick
// network orchestration. The engine performs a bounded amount of integer
// arithmetic per tick with no allocation in the update path; an external
// scheduler owns the tick cadence.
package cortex

import "spikenet/internal/fixed"

// restingPotential is the floor the membrane potential leaks toward and is
// reset to after a spike.
const restingPotential = 0

// Neuron is one leaky integrate-and-fire unit. All parameters are fixed at
// construction; only Potential, Spike, and Refractory change at runtime,
// and only through the update operations below.
type Neuron struct {
	ID               uint8
	Leak             uint8
	Threshold        uint8
	RefractoryPeriod uint8

	// Refractory is the live countdown armed after a spike. While it is
	// non-zero the neuron neither leaks nor integrates.
	Refractory uint8

	// Potential is the membrane potential accumulator. int16 leaves
	// headroom for several int8 weighted inputs before saturation.
	Potential int16

	// Spike is true only during the tick in which Threshold was crossed.
	Spike bool

	// weights is a borrowed view into the owning layer's weight table.
	// Its length is the neuron's connection count and must equal the
	// width of the previous layer; the topology builder verifies this
	// once, so the update path never re-checks it.
	weights []int8
}

// NewNeuron constructs a neuron in its resting state. The weights slice is
// retained, not copied; the caller guarantees it stays valid for the
// neuron's lifetime. Parameter validation (non-zero threshold, connection
// count vs. previous-layer width) is the topology builder's job.
func NewNeuron(id, leak, threshold, refractoryPeriod uint8, weights []int8) Neuron {
	return Neuron{
		ID:               id,
		Leak:             leak,
		Threshold:        threshold,
		RefractoryPeriod: refractoryPeriod,
		weights:          weights,
	}
}

// Connections returns the number of incoming weighted connections.
func (n *Neuron) Connections() int {
	return len(n.weights)
}

// Weights returns a copy of the neuron's weight view, for observers.
func (n *Neuron) Weights() []int8 {
	return append([]int8(nil), n.weights...)
}

// Charge adds a signed contribution to the membrane potential, saturating
// at the int16 range. Saturation is a behavioral contract: a wrapped
// potential would flip sign and corrupt spike timing.
func (n *Neuron) Charge(delta int16) {
	n.Potential = fixed.SatAdd16(n.Potential, delta)
}

// LeakStep decays an excited membrane potential toward rest by the
// configured leak magnitude, flooring at the resting potential. A
// potential already at or below rest (driven there by inhibitory input)
// is left for incoming charge to move.
func (n *Neuron) LeakStep() {
	if n.Potential <= restingPotential {
		return
	}
	next := fixed.SatSub16(n.Potential, int16(n.Leak))
	if next < restingPotential {
		next = restingPotential
	}
	n.Potential = next
}

// Update runs the per-tick state transition against the previous layer's
// current-tick spike vector. A refractory neuron only counts down: it does
// not leak, does not integrate, and cannot spike.
func (n *Neuron) Update(prev []Neuron) {
	if n.Refractory > 0 {
		n.Refractory--
		n.Spike = false
		return
	}
	n.LeakStep()
	for i := range n.weights {
		if prev[i].Spike {
			n.Charge(int16(n.weights[i]))
		}
	}
	n.fire()
}

// NerveUpdate is the per-tick transition for a nerve-layer neuron: the
// external drive sample, scaled by the neuron's single Q0.7 weight, takes
// the place of the weighted spike sum.
func (n *Neuron) NerveUpdate(drive int16) {
	if n.Refractory > 0 {
		n.Refractory--
		n.Spike = false
		return
	}
	n.LeakStep()
	n.Charge(fixed.MulQ7(drive, n.weights[0]))
	n.fire()
}

// fire applies the threshold: on crossing, the spike flag is raised, the
// potential snaps back to rest, and the refractory countdown is armed.
func (n *Neuron) fire() {
	if n.Potential >= int16(n.Threshold) {
		n.Spike = true
		n.Potential = restingPotential
		n.Refractory = n.RefractoryPeriod
		return
	}
	n.Spike = false
}

// SpikeReset clears the spike flag without touching the potential or the
// refractory countdown. Layer drivers call it at tick boundaries, after
// every downstream consumer has read the flag.
func (n *Neuron) SpikeReset() {
	n.Spike = false
}

package model

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// NeuronSpec holds the construction parameters for one neuron. Weights are
// quantized Q0.7 values; their count must match the width of the previous
// layer (or 1 for a nerve-layer neuron).
type NeuronSpec struct {
	ID               uint8  `json:"id"`
	Leak             uint8  `json:"leak"`
	Threshold        uint8  `json:"threshold"`
	RefractoryPeriod uint8  `json:"refractory_period_ticks"`
	Weights          []int8 `json:"weights"`
}

// LayerSpec describes one layer of the network in input->output order.
type LayerSpec struct {
	Name    string       `json:"name,omitempty"`
	Neurons []NeuronSpec `json:"neurons"`
}

// NetworkSpec is the persisted description of a feed-forward spiking
// network. Layers[0] is the nerve (input) layer; the last layer is the
// output layer.
type NetworkSpec struct {
	VersionedRecord
	ID     string      `json:"id"`
	Layers []LayerSpec `json:"layers"`
}

// TraceRecord captures one tick of a simulation run: the external drive
// fed to the nerve layer, the output-layer spike vector, and per-layer
// spike counts for diagnostics.
type TraceRecord struct {
	Tick        int     `json:"tick"`
	Drive       []int16 `json:"drive,omitempty"`
	Outputs     []bool  `json:"outputs"`
	SpikeCounts []int   `json:"spike_counts,omitempty"`
}

// RunSummary is the persisted header for a completed simulation run.
type RunSummary struct {
	VersionedRecord
	RunID        string `json:"run_id"`
	NetworkID    string `json:"network_id"`
	CreatedAtUTC string `json:"created_at_utc"`
	Ticks        int    `json:"ticks"`
	OutputSpikes int    `json:"output_spikes"`
	Overruns     int    `json:"overruns"`
}

package storage

import (
	"encoding/json"
	"errors"

	"spikenet/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

func EncodeNetworkSpec(spec model.NetworkSpec) ([]byte, error) {
	return json.Marshal(spec)
}

func DecodeNetworkSpec(data []byte) (model.NetworkSpec, error) {
	var spec model.NetworkSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return model.NetworkSpec{}, err
	}
	if err := checkVersion(spec.VersionedRecord); err != nil {
		return model.NetworkSpec{}, err
	}
	return spec, nil
}

func EncodeSpikeTrace(trace []model.TraceRecord) ([]byte, error) {
	return json.Marshal(trace)
}

func DecodeSpikeTrace(data []byte) ([]model.TraceRecord, error) {
	var trace []model.TraceRecord
	if err := json.Unmarshal(data, &trace); err != nil {
		return nil, err
	}
	return trace, nil
}

func EncodeRunSummary(summary model.RunSummary) ([]byte, error) {
	return json.Marshal(summary)
}

func DecodeRunSummary(data []byte) (model.RunSummary, error) {
	var summary model.RunSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return model.RunSummary{}, err
	}
	if err := checkVersion(summary.VersionedRecord); err != nil {
		return model.RunSummary{}, err
	}
	return summary, nil
}

// checkVersion rejects records written by a newer schema or codec than
// this build understands. Older (including zero) versions decode fine.
func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion > CurrentSchemaVersion || v.CodecVersion > CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	spikeapi "spikenet/pkg/spikenet"
)

func loadSimRequestFromConfig(path string) (spikeapi.SimRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return spikeapi.SimRequest{}, err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return spikeapi.SimRequest{}, err
	}

	var req spikeapi.SimRequest
	if v, ok := asString(raw["run_id"]); ok {
		req.RunID = v
	}
	if v, ok := asString(raw["network_id"]); ok {
		req.NetworkID = v
	}
	if v, ok := asInt(raw["ticks"]); ok {
		req.Ticks = v
	}
	if v, ok := asInt(raw["period_ms"]); ok {
		req.Period = time.Duration(v) * time.Millisecond
	}
	if v, ok := asInt(raw["workers"]); ok {
		req.Workers = v
	}
	if v, ok := asBool(raw["record_drive"]); ok {
		req.RecordDrive = v
	}

	if driveMap, ok := raw["drive"].(map[string]any); ok {
		if v, ok := asString(driveMap["kind"]); ok {
			req.Drive.Kind = v
		}
		if v, ok := asInt(driveMap["value"]); ok {
			if v < -32768 || v > 32767 {
				return spikeapi.SimRequest{}, fmt.Errorf("drive value out of int16 range: %d", v)
			}
			req.Drive.Value = int16(v)
		}
		if v, ok := asBool(driveMap["loop"]); ok {
			req.Drive.Loop = v
		}
		if frames, ok := driveMap["frames"]; ok {
			parsed, err := asFrames(frames)
			if err != nil {
				return spikeapi.SimRequest{}, err
			}
			req.Drive.Frames = parsed
		}
	}

	return req, nil
}

func loadOrDefaultSimRequest(configPath string) (spikeapi.SimRequest, error) {
	if configPath == "" {
		return spikeapi.SimRequest{}, nil
	}
	req, err := loadSimRequestFromConfig(configPath)
	if err != nil {
		return spikeapi.SimRequest{}, fmt.Errorf("load config: %w", err)
	}
	return req, nil
}

func overrideFromFlags(req *spikeapi.SimRequest, set map[string]bool, flagValue map[string]any) {
	for name := range set {
		v, ok := flagValue[name]
		if !ok {
			continue
		}
		switch name {
		case "run-id":
			req.RunID = v.(string)
		case "network-id":
			req.NetworkID = v.(string)
		case "ticks":
			req.Ticks = v.(int)
		case "period-ms":
			req.Period = time.Duration(v.(int)) * time.Millisecond
		case "workers":
			req.Workers = v.(int)
		case "drive":
			req.Drive.Kind = v.(string)
		case "drive-value":
			req.Drive.Value = int16(v.(int))
		case "drive-loop":
			req.Drive.Loop = v.(bool)
		case "record-drive":
			req.RecordDrive = v.(bool)
		}
	}
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asBool(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

func asInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case float64:
		return int(x), true
	default:
		return 0, false
	}
}

func asFrames(v any) ([][]int16, error) {
	rows, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("drive frames must be an array of arrays")
	}
	frames := make([][]int16, 0, len(rows))
	for i, row := range rows {
		cells, ok := row.([]any)
		if !ok {
			return nil, fmt.Errorf("drive frame %d is not an array", i)
		}
		frame := make([]int16, 0, len(cells))
		for j, cell := range cells {
			sample, ok := asInt(cell)
			if !ok {
				return nil, fmt.Errorf("drive frame %d sample %d is not a number", i, j)
			}
			if sample < -32768 || sample > 32767 {
				return nil, fmt.Errorf("drive frame %d sample %d out of int16 range: %d", i, j, sample)
			}
			frame = append(frame, int16(sample))
		}
		frames = append(frames, frame)
	}
	return frames, nil
}

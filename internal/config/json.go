// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// jsonConfig mirrors [StructuredConfig] with duration fields that accept
// human-readable strings like "30s" or "1m".
type jsonConfig struct {
	Store    Store    `json:"store,omitempty"`
	Identity Identity `json:"identity,omitempty"`
	Rotation Rotation `json:"rotation,omitempty"`
	Retry    struct {
		MaxRetries   int      `json:"max_retries"`
		InitialDelay Duration `json:"initial_delay"`
		MaxDelay     Duration `json:"max_delay"`
		Multiplier   float64  `json:"multiplier"`
	} `json:"retry,omitempty"`
	Log Log `json:"log,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg jsonConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	return &StructuredConfig{
		Store:    jsonCfg.Store,
		Identity: jsonCfg.Identity,
		Rotation: jsonCfg.Rotation,
		Retry: Retry{
			MaxRetries:   jsonCfg.Retry.MaxRetries,
			InitialDelay: time.Duration(jsonCfg.Retry.InitialDelay),
			MaxDelay:     time.Duration(jsonCfg.Retry.MaxDelay),
			Multiplier:   jsonCfg.Retry.Multiplier,
		},
		Log: jsonCfg.Log,
	}, nil
}

// Duration is a wrapper around time.Duration that supports JSON
// unmarshaling from strings like "1h" and "30s" as well as bare
// nanosecond numbers.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Top-level YAML config key names used for shallow merge.
const (
	keyCache   = "cache"
	keyDataset = "dataset"
	keyLogging = "logging"
	keyOutput  = "output"
)

// ShallowMergeYAML loads a YAML file and merges its top-level keys onto
// the target Config. Keys present in the overlay replace entire sections
// in the target. Keys absent in the overlay, and unknown keys, are left unchanged.
func ShallowMergeYAML(target *Config, overlayPath string) error {
	if target == nil {
		return errors.New("nil target *Config in ShallowMergeYAML")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading overlay file %s: %w", overlayPath, err)
	}

	var overlay map[string]yaml.Node
	if err = yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing overlay YAML from %s: %w", overlayPath, err)
	}

	for key, node := range overlay {
		if err = unmarshalSection(target, key, &node); err != nil {
			return fmt.Errorf("applying overlay section %q: %w", key, err)
		}
	}

	return nil
}

// unmarshalSection decodes node into a fresh value of the section named key
// and replaces that section of target. Unknown keys are ignored.
func unmarshalSection(target *Config, key string, node *yaml.Node) error {
	switch key {
	case keyCache:
		var v CacheConfig
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Cache = v
	case keyDataset:
		var v DatasetConfig
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Dataset = v
	case keyLogging:
		var v LoggingConfig
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Logging = v
	case keyOutput:
		var v OutputConfig
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Output = v
	}
	return nil
}

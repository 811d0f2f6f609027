// Package parser loads one document file into a generic nested value.
package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	pkgerrors "github.com/kapu/mindsync-go/pkg/errors"
)

// LoadFile decodes the file at path into a generic mapping. The extension
// picks the codec. YAML files may hold several concatenated documents; their
// top-level mappings are deep-merged, later documents winning on conflict.
func LoadFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, pkgerrors.NewParseError("failed to read document", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return parseJSON(path, data)
	case ".yaml", ".yml":
		return parseYAML(path, data)
	default:
		return nil, pkgerrors.NewParseError(
			fmt.Sprintf("unsupported document extension %q", filepath.Ext(path)), path, nil)
	}
}

func parseJSON(path string, data []byte) (map[string]any, error) {
	var tree any
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, pkgerrors.NewParseError("invalid JSON document", path, err)
	}

	mapping, ok := tree.(map[string]any)
	if !ok {
		return nil, pkgerrors.NewParseError("JSON document is not a mapping", path, nil)
	}
	return mapping, nil
}

func parseYAML(path string, data []byte) (map[string]any, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))

	var merged map[string]any
	for {
		var doc any
		err := decoder.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, pkgerrors.NewParseError("invalid YAML document", path, err)
		}
		if doc == nil {
			continue
		}

		mapping, ok := normalizeYAMLValue(doc).(map[string]any)
		if !ok {
			return nil, pkgerrors.NewParseError("YAML document is not a mapping", path, nil)
		}

		if merged == nil {
			merged = mapping
		} else {
			merged = DeepMerge(merged, mapping)
		}
	}

	if merged == nil {
		return nil, pkgerrors.NewParseError("YAML file holds no documents", path, nil)
	}
	return merged, nil
}

// DeepMerge merges overlay into base, returning a new map. Nested mappings
// merge recursively; every other value type from overlay replaces base's.
func DeepMerge(base, overlay map[string]any) map[string]any {
	merged := make(map[string]any, len(base)+len(overlay))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range overlay {
		if existing, ok := merged[k]; ok {
			existingMap, okBase := existing.(map[string]any)
			overlayMap, okOverlay := v.(map[string]any)
			if okBase && okOverlay {
				merged[k] = DeepMerge(existingMap, overlayMap)
				continue
			}
		}
		merged[k] = v
	}
	return merged
}

// normalizeYAMLValue rewrites yaml.v3's map[string]any/map[any]any mix into
// plain map[string]any trees so adapters see one shape regardless of codec.
func normalizeYAMLValue(v any) any {
	switch value := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(value))
		for k, item := range value {
			out[k] = normalizeYAMLValue(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(value))
		for k, item := range value {
			out[fmt.Sprintf("%v", k)] = normalizeYAMLValue(item)
		}
		return out
	case []any:
		out := make([]any, len(value))
		for i, item := range value {
			out[i] = normalizeYAMLValue(item)
		}
		return out
	default:
		return v
	}
}

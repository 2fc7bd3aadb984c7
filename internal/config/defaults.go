package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var sectionComments = map[string]string{
	"openai":      "# OpenAI translations and text-to-speech. The OPENAI_API_KEY environment variable overrides api_key.",
	"gemini":      "# Gemini translations. GEMINI_API_KEY or GOOGLE_API_KEY override api_key.",
	"translation": "# Concurrent OpenAI calls, phrases per Gemini call and circuit breaker limits.",
	"audio":       "# Pronunciation provider: openai or espeak. fallback is used when the provider fails.",
	"languages":   "# Source language used when --source-language is omitted. source, target and secondary extend the catalogs.",
	"output":      "# Directory receiving the .apkg deck and .zip snapshot.",
	"log":         "# Log level: debug, info or error.",
}

// DefaultYAML renders the default configuration as commented YAML
func DefaultYAML() ([]byte, error) {
	var root yaml.Node
	if err := root.Encode(Default()); err != nil {
		return nil, fmt.Errorf("failed to encode default configuration: %w", err)
	}

	// Mapping content alternates key and value nodes
	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i]
		if comment, ok := sectionComments[key.Value]; ok {
			key.HeadComment = comment
		}
	}

	var buf bytes.Buffer
	buf.WriteString("# vocabdeck configuration\n\n")

	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&root); err != nil {
		return nil, fmt.Errorf("failed to render default configuration: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteDefault writes the default configuration to path. An existing file is
// only replaced when force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists", path)
		}
	}

	data, err := DefaultYAML()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Package persist writes and reads serialized state files atomically.
package persist

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// File extensions for supported codecs.
const (
	jsonExtension = ".json"
	yamlExtension = ".yaml"
)

// Default indentation for pretty-printed output.
const (
	defaultIndent     = "  "
	defaultYAMLIndent = 2
)

// Codec defines how state is serialized and deserialized.
type Codec interface {
	// Encode writes the state to the writer.
	Encode(w io.Writer, state any) error
	// Decode reads the state from the reader.
	Decode(r io.Reader, state any) error
	// Extension returns the file extension for this codec (e.g., ".json").
	Extension() string
}

// JSONCodec implements Codec using JSON encoding with optional indentation.
type JSONCodec struct {
	// Indent specifies the indentation string. Empty string means compact JSON.
	Indent string
}

// NewJSONCodec creates a JSON codec with 2-space indentation.
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{Indent: defaultIndent}
}

// Encode implements Codec.
func (c *JSONCodec) Encode(w io.Writer, state any) error {
	encoder := json.NewEncoder(w)
	if c.Indent != "" {
		encoder.SetIndent("", c.Indent)
	}

	err := encoder.Encode(state)
	if err != nil {
		return fmt.Errorf("json encode: %w", err)
	}

	return nil
}

// Decode implements Codec.
func (c *JSONCodec) Decode(r io.Reader, state any) error {
	err := json.NewDecoder(r).Decode(state)
	if err != nil {
		return fmt.Errorf("json decode: %w", err)
	}

	return nil
}

// Extension implements Codec.
func (c *JSONCodec) Extension() string {
	return jsonExtension
}

// YAMLCodec implements Codec using YAML encoding.
type YAMLCodec struct{}

// NewYAMLCodec creates a YAML codec.
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Encode implements Codec.
func (c *YAMLCodec) Encode(w io.Writer, state any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(defaultYAMLIndent)

	err := encoder.Encode(state)
	if err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}

	closeErr := encoder.Close()
	if closeErr != nil {
		return fmt.Errorf("yaml flush: %w", closeErr)
	}

	return nil
}

// Decode implements Codec.
func (c *YAMLCodec) Decode(r io.Reader, state any) error {
	err := yaml.NewDecoder(r).Decode(state)
	if err != nil {
		return fmt.Errorf("yaml decode: %w", err)
	}

	return nil
}

// Extension implements Codec.
func (c *YAMLCodec) Extension() string {
	return yamlExtension
}

// Package yamlutil decodes the YAML configuration files of the article
// command. Callers never import the YAML library directly.
package yamlutil

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"
)

// MaxInputSize bounds the YAML read from a single file or buffer.
const MaxInputSize = 1 << 20

var (
	ErrEmptyInput     = errors.New("yamlutil: empty input")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
)

type decodeConfig struct {
	strict bool
}

// DecodeOption changes how input is decoded.
type DecodeOption func(*decodeConfig)

// Strict rejects keys that do not map to a field of the destination.
func Strict() DecodeOption {
	return func(c *decodeConfig) { c.strict = true }
}

// Unmarshal decodes data into v.
// Syntax and type errors carry the offending source line.
func Unmarshal(data []byte, v any, opts ...DecodeOption) error {
	if len(data) == 0 {
		return ErrEmptyInput
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if v == nil {
		return ErrNilDestination
	}

	var cfg decodeConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	var decodeOpts []yaml.DecodeOption
	if cfg.strict {
		decodeOpts = append(decodeOpts, yaml.Strict())
	}

	if err := yaml.UnmarshalWithOptions(data, v, decodeOpts...); err != nil {
		return fmt.Errorf("yamlutil: %s", yaml.FormatError(err, false, true))
	}
	return nil
}

// Decode reads at most MaxInputSize bytes from r and decodes them into v.
func Decode(r io.Reader, v any, opts ...DecodeOption) error {
	data, err := io.ReadAll(io.LimitReader(r, MaxInputSize+1))
	if err != nil {
		return fmt.Errorf("yamlutil: reading input: %w", err)
	}
	return Unmarshal(data, v, opts...)
}

// DecodeFile decodes the YAML file at path into v.
func DecodeFile(path string, v any, opts ...DecodeOption) error {
	f, err := os.Open(path) // #nosec G304 -- path comes from the user's own flags
	if err != nil {
		return err
	}
	defer f.Close()

	if err := Decode(f, v, opts...); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Marshal encodes v as YAML.
func Marshal(v any) ([]byte, error) {
	out, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	return out, nil
}

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// LoadFile decodes the TOML file at path on top of cfg. Keys absent from the
// file keep their current values, so callers pass a Config that already holds
// the defaults. A missing file is an error; callers that treat the file as
// optional should check with errors.Is(err, fs.ErrNotExist).
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("config %s: %s", path, strict.String())
		}
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// LoadOptionalFile behaves like LoadFile but ignores a missing file.
func LoadOptionalFile(path string, cfg *Config) error {
	err := LoadFile(path, cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// EncodeSettings renders s as a TOML document under a [transcode] table, the
// same shape LoadFile accepts.
func EncodeSettings(s Settings) (string, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(struct {
		Transcode Settings `toml:"transcode"`
	}{s}); err != nil {
		return "", fmt.Errorf("encode settings: %w", err)
	}
	return buf.String(), nil
}

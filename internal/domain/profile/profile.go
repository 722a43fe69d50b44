// Package profile loads the owner's hand-written content: intro, socials,
// jobs and skills.
package profile

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/carltonupp/upperdine/internal/domain/types"
)

//go:embed default.yaml
var defaultYAML []byte

// Sentinel kinds for profile errors.
var (
	ErrRead    = errors.New("read profile failed")
	ErrDecode  = errors.New("decode profile failed")
	ErrInvalid = errors.New("invalid profile")
)

var validate = validator.New()

// Default returns the embedded profile.
func Default() types.Profile {
	p, err := Decode(bytes.NewReader(defaultYAML))
	if err != nil {
		panic("embedded profile is invalid: " + err.Error())
	}
	return p
}

// Load reads a profile from path, or returns Default when path is empty.
func Load(path string) (types.Profile, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return types.Profile{}, fmt.Errorf("%w: %w", ErrRead, err)
	}
	defer func() { _ = f.Close() }()
	return Decode(f)
}

// Decode parses and validates a YAML profile. Unknown keys are rejected so
// typos do not silently drop content.
func Decode(r io.Reader) (types.Profile, error) {
	var p types.Profile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return types.Profile{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if err := validate.Struct(p); err != nil {
		return types.Profile{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return p, nil
}

package config

import (
	"strconv"

	"go.trai.ch/zerr"
)

// Devenvfile represents the structure of a devenv.yaml or devenv.toml manifest.
type Devenvfile struct {
	Config   ConfigDTO             `yaml:"config" toml:"config"`
	Packages map[string]PackageDTO `yaml:"packages" toml:"packages"`
}

// ConfigDTO represents the config block of the manifest.
type ConfigDTO struct {
	RemoteLocations []string `yaml:"remote-locations" toml:"remote-locations"`
}

// PackageDTO represents a package entry in the manifest.
type PackageDTO struct {
	Version Scalar `yaml:"version" toml:"version"`
	Type    string `yaml:"type" toml:"type"`
}

// Scalar is a manifest value that may be written as a string or a bare number.
// Versions such as 1.8 keep their literal spelling.
type Scalar string

// UnmarshalTOML implements toml.Unmarshaler.
func (s *Scalar) UnmarshalTOML(v any) error {
	switch val := v.(type) {
	case string:
		*s = Scalar(val)
	case int64:
		*s = Scalar(strconv.FormatInt(val, 10))
	case float64:
		*s = Scalar(strconv.FormatFloat(val, 'f', -1, 64))
	default:
		return zerr.With(zerr.New("version must be a string or number"), "value", v)
	}
	return nil
}

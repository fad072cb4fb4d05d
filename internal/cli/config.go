// Package cli — config.go loads CLI defaults from an optional
// .automate-excel.yaml file.
//
// The config file supplies default workbook options so users do not have
// to repeat flags on every invocation. It is searched for in the current
// working directory first and the user's home directory second; the first
// file found wins. A missing file is not an error.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/chrispcharlton/automate-excel/excel"
)

// configFileName is the well-known name of the CLI config file.
const configFileName = ".automate-excel.yaml"

// fileConfig mirrors the YAML structure of .automate-excel.yaml.
// All fields are optional; zero values leave the defaults untouched.
type fileConfig struct {
	// Driver selects the workbook driver: "com", "file", or "auto".
	Driver string `yaml:"driver"`

	// Visible shows the Excel window when the COM driver launches it.
	Visible bool `yaml:"visible"`

	// DisplayAlerts keeps the host application's dialog prompts enabled.
	DisplayAlerts bool `yaml:"display-alerts"`

	// SaveOnClose saves pending changes when a session closes.
	SaveOnClose bool `yaml:"save-on-close"`
}

// loadOptions builds the workbook Options for a command invocation:
// library defaults, overlaid by the config file when one exists,
// overlaid by the --driver flag when set.
func loadOptions() (excel.Options, error) {
	opts := excel.DefaultOptions()

	path, err := findConfigFile()
	if err != nil {
		return opts, err
	}
	if path != "" {
		VerboseLog("Loading config from %s", path)
		cfg, err := parseConfigFile(path)
		if err != nil {
			return opts, err
		}
		opts, err = applyConfig(opts, cfg)
		if err != nil {
			return opts, fmt.Errorf("%s: %w", path, err)
		}
	}

	if driverName != "" {
		kind := excel.DriverKind(driverName)
		if !kind.IsValid() {
			return opts, fmt.Errorf("invalid driver %q: valid values are com, file, auto", driverName)
		}
		opts.Driver = kind
	}
	return opts, nil
}

// findConfigFile returns the path of the nearest config file, or "" when
// none exists. Only stat errors other than not-exist are reported.
func findConfigFile() (string, error) {
	candidates := []string{configFileName}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, configFileName))
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		} else if !os.IsNotExist(err) {
			return "", fmt.Errorf("could not read config file %s: %w", path, err)
		}
	}
	return "", nil
}

// parseConfigFile reads and decodes one YAML config file.
func parseConfigFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file %s: %w", path, err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("could not parse config file %s: %w", path, err)
	}
	return &cfg, nil
}

// applyConfig overlays config file values onto the given options.
func applyConfig(opts excel.Options, cfg *fileConfig) (excel.Options, error) {
	if cfg.Driver != "" {
		kind := excel.DriverKind(cfg.Driver)
		if !kind.IsValid() {
			return opts, fmt.Errorf("invalid driver %q: valid values are com, file, auto", cfg.Driver)
		}
		opts.Driver = kind
	}
	opts.Visible = cfg.Visible
	opts.DisplayAlerts = cfg.DisplayAlerts
	opts.SaveOnClose = cfg.SaveOnClose
	return opts, nil
}

// Package registry loads the static field-officer reference list. The
// registry is read wholesale at pipeline start, held read-only, and shared
// across all records.
package registry

import (
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/furnacex/intel-cli/internal/model"
)

// file is the on-disk shape of the officer registry.
type file struct {
	Officers []model.Officer `yaml:"officers"`
}

// Load reads and validates the officer registry. Any failure here is fatal
// to a pipeline run: without reference data there is nothing to route to.
func Load(path string) ([]model.Officer, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "registry: read %s", path)
	}

	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, eris.Wrapf(err, "registry: parse %s", path)
	}
	if len(f.Officers) == 0 {
		return nil, eris.Errorf("registry: %s contains no officers", path)
	}

	if err := Validate(f.Officers); err != nil {
		return nil, err
	}

	zap.L().Info("officer registry loaded",
		zap.String("path", path),
		zap.Int("officers", len(f.Officers)))
	return f.Officers, nil
}

// Validate checks every officer entry for the fields routing depends on.
// All problems are reported at once so a hand-edited file can be fixed in
// one pass.
func Validate(officers []model.Officer) error {
	var errs []string
	for i, o := range officers {
		where := fmt.Sprintf("officer %d (%s)", i+1, o.DisplayName())
		if strings.TrimSpace(o.Role) == "" {
			errs = append(errs, where+": role is required")
		}
		if strings.TrimSpace(o.Location) == "" {
			errs = append(errs, where+": location is required")
		}
		if strings.TrimSpace(o.State) == "" {
			errs = append(errs, where+": state is required")
		}
		if o.Latitude < -90 || o.Latitude > 90 {
			errs = append(errs, fmt.Sprintf("%s: latitude %.4f out of range", where, o.Latitude))
		}
		if o.Longitude < -180 || o.Longitude > 180 {
			errs = append(errs, fmt.Sprintf("%s: longitude %.4f out of range", where, o.Longitude))
		}
		if o.Latitude == 0 && o.Longitude == 0 {
			errs = append(errs, where+": coordinates are unset")
		}
	}
	if len(errs) > 0 {
		return eris.Errorf("registry: validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

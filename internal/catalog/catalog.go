// Package catalog reads detectable-target catalogs from disk.
//
// The file is a JSON array in the shape published by Discord's detectable
// applications endpoint: each entry has an id, a name and a list of
// executables tagged with the platform they run on. Unknown fields are ignored.
package catalog

import (
	"encoding/json"
	"os"
	"runtime"

	"github.com/pkg/errors"

	"github.com/rubychat/gamescan/internal/models"
)

// Load reads path and keeps only executables for the running platform
func Load(path string) ([]models.DetectableTarget, error) {
	return LoadFor(path, runtime.GOOS)
}

// LoadFor reads path and keeps only executables for goos
func LoadFor(path, goos string) ([]models.DetectableTarget, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read catalog %s", path)
	}

	targets, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse catalog %s", path)
	}
	return models.FilterForOS(targets, goos), nil
}

// Parse decodes a catalog without filtering
func Parse(data []byte) ([]models.DetectableTarget, error) {
	var targets []models.DetectableTarget
	if err := json.Unmarshal(data, &targets); err != nil {
		return nil, err
	}
	return targets, nil
}

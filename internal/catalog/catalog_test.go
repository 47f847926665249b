package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubychat/gamescan/internal/models"
)

const sample = `[
  {
    "id": "367827983903490050",
    "name": "Hollow Knight",
    "aliases": ["HK"],
    "executables": [
      {"is_launcher": false, "name": "hollow_knight.exe", "os": "win32"},
      {"is_launcher": false, "name": "hollow_knight.x86_64", "os": "linux"},
      {"is_launcher": false, "name": "hollow knight.app", "os": "darwin"}
    ]
  },
  {
    "id": "356876176465199104",
    "name": "Celeste",
    "executables": [
      {"name": "celeste.exe", "os": "win32"}
    ]
  }
]`

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "detectable.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadForLinux(t *testing.T) {
	targets, err := LoadFor(writeCatalog(t, sample), "linux")
	require.NoError(t, err)

	assert.Equal(t, []models.DetectableTarget{{
		ID:          "367827983903490050",
		Name:        "Hollow Knight",
		Executables: []models.Executable{{OS: "linux", Name: "hollow_knight.x86_64"}},
	}}, targets)
}

func TestLoadForWindows(t *testing.T) {
	targets, err := LoadFor(writeCatalog(t, sample), "windows")
	require.NoError(t, err)

	require.Len(t, targets, 2)
	assert.Equal(t, "hollow_knight.exe", targets[0].Executables[0].Name)
	assert.Equal(t, "Celeste", targets[1].Name)
}

func TestLoadErrors(t *testing.T) {
	_, err := LoadFor(filepath.Join(t.TempDir(), "missing.json"), "linux")
	assert.Error(t, err)

	_, err = LoadFor(writeCatalog(t, `{"not":"a list"}`), "linux")
	assert.Error(t, err)
}

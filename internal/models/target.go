package models

import "strings"

// Executable is one platform-specific process name for a target
type Executable struct {
	OS   string `json:"os" mapstructure:"os"`
	Name string `json:"name" mapstructure:"name"`
}

// DetectableTarget is a named entity the scanner can recognize by executable name.
// Order within Executables sets match priority.
type DetectableTarget struct {
	ID          string       `json:"id" mapstructure:"id"`
	Name        string       `json:"name" mapstructure:"name"`
	Executables []Executable `json:"executables" mapstructure:"executables"`
}

// Clone returns a deep copy of the target
func (t DetectableTarget) Clone() DetectableTarget {
	out := t
	out.Executables = append([]Executable(nil), t.Executables...)
	return out
}

// CloneTargets deep-copies a watch list
func CloneTargets(targets []DetectableTarget) []DetectableTarget {
	if targets == nil {
		return nil
	}
	out := make([]DetectableTarget, len(targets))
	for i := range targets {
		out[i] = targets[i].Clone()
	}
	return out
}

// osAliases maps GOOS values to the platform names used by detectable catalogs.
var osAliases = map[string][]string{
	"windows": {"windows", "win32"},
	"darwin":  {"darwin", "macos", "osx"},
	"linux":   {"linux"},
}

// MatchesOS reports whether the executable is meant for the given GOOS.
// An executable without an OS applies everywhere.
func (e Executable) MatchesOS(goos string) bool {
	if e.OS == "" {
		return true
	}
	aliases, ok := osAliases[goos]
	if !ok {
		return e.OS == goos
	}
	for _, alias := range aliases {
		if e.OS == alias {
			return true
		}
	}
	return false
}

// FilterForOS keeps only executables meant for goos and drops targets left without any.
// The input slice is not modified.
func FilterForOS(targets []DetectableTarget, goos string) []DetectableTarget {
	filtered := make([]DetectableTarget, 0, len(targets))
	for _, t := range targets {
		if strings.TrimSpace(t.Name) == "" {
			continue
		}
		var exes []Executable
		for _, exe := range t.Executables {
			if exe.Name != "" && exe.MatchesOS(goos) {
				exes = append(exes, exe)
			}
		}
		if len(exes) == 0 {
			continue
		}
		filtered = append(filtered, DetectableTarget{ID: t.ID, Name: t.Name, Executables: exes})
	}
	return filtered
}

package orchestration

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/screenlab/clusterscreen/internal/config"
)

// FilterDetectors returns the suite entries whose name or type matches
// at least one glob pattern. Matching is case-insensitive.
func FilterDetectors(entries []config.DetectorEntry, patterns []string) ([]config.DetectorEntry, error) {
	if len(patterns) == 0 {
		return entries, nil
	}

	var filtered []config.DetectorEntry
	for _, entry := range entries {
		ok, err := matchesAny(entry, patterns)
		if err != nil {
			return nil, err
		}
		if ok {
			filtered = append(filtered, entry)
		}
	}
	return filtered, nil
}

func matchesAny(entry config.DetectorEntry, patterns []string) (bool, error) {
	name := strings.ToLower(entry.Name)
	kind := strings.ToLower(string(entry.Type))

	for _, pattern := range patterns {
		p := strings.ToLower(pattern)
		matched, err := filepath.Match(p, name)
		if err != nil {
			return false, fmt.Errorf("invalid filter pattern %q: %w", pattern, err)
		}
		if matched {
			return true, nil
		}
		matched, _ = filepath.Match(p, kind)
		if matched {
			return true, nil
		}
	}
	return false, nil
}

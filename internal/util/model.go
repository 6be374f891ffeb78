package util

import (
	"regexp"
	"sort"
	"strings"
)

var modelNamePattern = regexp.MustCompile(`^claude-([a-z]+)-(\d+)-(\d+)(?:-\d{8})?$`)

// ShortModelName turns vendor names into display names:
// claude-sonnet-4-5-20250929 -> Sonnet 4.5. Unrecognized names are returned
// unchanged.
func ShortModelName(modelName string) string {
	matches := modelNamePattern.FindStringSubmatch(modelName)
	if len(matches) != 4 {
		return modelName
	}
	family := matches[1]
	return strings.ToUpper(family[:1]) + family[1:] + " " + matches[2] + "." + matches[3]
}

// modelOrder ranks model families for display, lower first
func modelOrder(modelName string) int {
	lower := strings.ToLower(modelName)
	switch {
	case strings.Contains(lower, "opus"):
		return 1
	case strings.Contains(lower, "sonnet"):
		return 2
	case strings.Contains(lower, "haiku"):
		return 3
	case strings.Contains(lower, "synthetic"):
		return 999
	default:
		return 100
	}
}

// SortModels returns a sorted copy of models: opus, sonnet, haiku, then the
// rest alphabetically.
func SortModels(models []string) []string {
	sorted := make([]string, len(models))
	copy(sorted, models)

	sort.SliceStable(sorted, func(i, j int) bool {
		oi, oj := modelOrder(sorted[i]), modelOrder(sorted[j])
		if oi != oj {
			return oi < oj
		}
		return sorted[i] < sorted[j]
	})
	return sorted
}

package engine

import "sort"

// sortedKeys returns map keys in a stable order for deterministic errors.
func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Package strings provides the string-slice utilities shared across
// services. Measurement warning lists are the main customer.
package strings

import (
	"strings"
)

// MergeWarnings unions warning lists into one, preserving first-seen
// order, trimming whitespace and dropping empties and duplicates. A
// merged measurement carries every distinct warning its sources carried.
//
// Returns nil when nothing survives, so an absent warnings field stays
// absent on the wire.
func MergeWarnings(lists ...[]string) []string {
	total := 0
	for _, l := range lists {
		total += len(l)
	}
	if total == 0 {
		return nil
	}

	seen := make(map[string]struct{}, total)
	var result []string

	for _, l := range lists {
		for _, v := range l {
			trimmed := strings.TrimSpace(v)
			if trimmed == "" {
				continue
			}
			if _, ok := seen[trimmed]; !ok {
				seen[trimmed] = struct{}{}
				result = append(result, trimmed)
			}
		}
	}

	return result
}

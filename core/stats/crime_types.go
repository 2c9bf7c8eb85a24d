package stats

import (
	"encoding/json"
	"strconv"
	"strings"
)

// UnknownTypeBucket collects counts from rows whose crime_type_ids
// value cannot be parsed at all.
const UnknownTypeBucket = "Unknown"

// parseCrimeTypeIDs reads the stored crime_type_ids value. New rows
// hold a JSON array, but legacy rows may carry a bare integer or a
// comma separated list, so parsing degrades step by step instead of
// rejecting the row. A nil return means the value is unusable.
func parseCrimeTypeIDs(raw string) []int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []int64{}
	}
	var ids []int64
	if err := json.Unmarshal([]byte(raw), &ids); err == nil {
		return ids
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return []int64{n}
	}
	parts := strings.Split(raw, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil
		}
		out = append(out, n)
	}
	return out
}

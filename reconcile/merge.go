// Package reconcile combines the remote and local views of the panel's data:
// keyed record merging, client synthesis from orders and provenance tracking.
package reconcile

import "github.com/kendall-kelly/design-orders-panel/models"

// Merge combines remote records into local ones, keyed by keyField.
//
// Local order is the base. A remote record whose key matches an earlier
// record (local or previously appended remote) is shallow-merged over it in
// place, remote fields winning; any other remote record is appended. Keys of
// different JSON types never match, and records without a usable key never
// match and are kept as-is. Inputs are not modified.
func Merge(remote, local []models.Record, keyField string) []models.Record {
	merged := make([]models.Record, 0, len(local)+len(remote))
	index := make(map[string]int, len(local)+len(remote))

	add := func(rec models.Record) {
		if key, ok := rec.MatchKey(keyField); ok {
			if _, seen := index[key]; !seen {
				index[key] = len(merged)
			}
		}
		merged = append(merged, rec.Clone())
	}

	for _, rec := range local {
		add(rec)
	}

	for _, rec := range remote {
		if key, ok := rec.MatchKey(keyField); ok {
			if i, found := index[key]; found {
				for field, value := range rec {
					merged[i][field] = value
				}
				continue
			}
		}
		add(rec)
	}

	return merged
}

// Package aggregate narrows the medal dataset and computes the grouped counts
// that feed the dashboard figures.
package aggregate

import "github.com/okian/mindthegap/internal/domain/model"

// Filter returns the records of ds inside the year range of fs and, when fs
// names countries, belonging to one of them. An empty result is valid.
func Filter(ds *model.Dataset, fs model.FilterState) []model.MedalRecord {
	out := make([]model.MedalRecord, 0, ds.Len())
	ds.Each(func(r model.MedalRecord) {
		if fs.Matches(r) {
			out = append(out, r)
		}
	})
	return out
}

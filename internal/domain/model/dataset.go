package model

import "sort"

// Dataset is the full, read-only collection of medal records. It is built once
// at startup and shared by every request; nothing mutates it afterwards.
type Dataset struct {
	records   []MedalRecord
	years     []int
	countries []string
	sports    []string
}

// NewDataset copies records into an immutable Dataset and indexes its domains.
func NewDataset(records []MedalRecord) *Dataset {
	own := make([]MedalRecord, len(records))
	copy(own, records)

	years := make(map[int]struct{})
	countries := make(map[string]struct{})
	sports := make(map[string]struct{})
	for _, r := range own {
		years[r.Year] = struct{}{}
		countries[r.Country] = struct{}{}
		sports[r.Sport] = struct{}{}
	}

	return &Dataset{
		records:   own,
		years:     sortedInts(years),
		countries: sortedStrings(countries),
		sports:    sortedStrings(sports),
	}
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// Records returns a copy of all records in load order.
func (d *Dataset) Records() []MedalRecord {
	if d == nil {
		return nil
	}
	out := make([]MedalRecord, len(d.records))
	copy(out, d.records)
	return out
}

// Each calls fn for every record in load order without copying the slice.
func (d *Dataset) Each(fn func(MedalRecord)) {
	if d == nil {
		return
	}
	for _, r := range d.records {
		fn(r)
	}
}

// Years returns the distinct years, ascending.
func (d *Dataset) Years() []int {
	if d == nil {
		return nil
	}
	return append([]int(nil), d.years...)
}

// Countries returns the distinct country identifiers, sorted.
func (d *Dataset) Countries() []string {
	if d == nil {
		return nil
	}
	return append([]string(nil), d.countries...)
}

// Sports returns the distinct sports, sorted.
func (d *Dataset) Sports() []string {
	if d == nil {
		return nil
	}
	return append([]string(nil), d.sports...)
}

// YearDomain returns the smallest and largest year. Both are zero for an empty dataset.
func (d *Dataset) YearDomain() (int, int) {
	if d == nil || len(d.years) == 0 {
		return 0, 0
	}
	return d.years[0], d.years[len(d.years)-1]
}

func sortedInts(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

func sortedStrings(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

package model

import (
	"sort"
	"strconv"
	"strings"
)

// FilterState is the pair of dashboard inputs: an inclusive year range and an
// optional country set. An empty Countries slice means no restriction.
// Values are rebuilt for every request and never mutated in place.
type FilterState struct {
	YearMin   int      `json:"year_min"`
	YearMax   int      `json:"year_max"`
	Countries []string `json:"countries"`
}

// NewFilterState normalises the raw inputs: inverted bounds are swapped and
// countries are trimmed, de-duplicated and sorted.
func NewFilterState(yearMin, yearMax int, countries []string) FilterState {
	if yearMin > yearMax {
		yearMin, yearMax = yearMax, yearMin
	}
	seen := make(map[string]struct{}, len(countries))
	clean := make([]string, 0, len(countries))
	for _, c := range countries {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		clean = append(clean, c)
	}
	sort.Strings(clean)
	return FilterState{YearMin: yearMin, YearMax: yearMax, Countries: clean}
}

// FullRange returns the unrestricted filter for ds.
func FullRange(ds *Dataset) FilterState {
	lo, hi := ds.YearDomain()
	return NewFilterState(lo, hi, nil)
}

// Clamp restricts the year bounds to [lo, hi]. A range that does not overlap
// [lo, hi] is returned unchanged so it keeps matching nothing.
func (f FilterState) Clamp(lo, hi int) FilterState {
	if f.YearMax < lo || f.YearMin > hi {
		return f
	}
	out := f
	out.YearMin = clampInt(f.YearMin, lo, hi)
	out.YearMax = clampInt(f.YearMax, lo, hi)
	return out
}

// Matches reports whether r passes the filter.
func (f FilterState) Matches(r MedalRecord) bool {
	if r.Year < f.YearMin || r.Year > f.YearMax {
		return false
	}
	if len(f.Countries) == 0 {
		return true
	}
	// Countries is sorted by NewFilterState.
	i := sort.SearchStrings(f.Countries, r.Country)
	return i < len(f.Countries) && f.Countries[i] == r.Country
}

// Key returns a stable identifier for caching, e.g. "1896-2014|FRA,USA".
func (f FilterState) Key() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(f.YearMin))
	b.WriteByte('-')
	b.WriteString(strconv.Itoa(f.YearMax))
	b.WriteByte('|')
	b.WriteString(strings.Join(f.Countries, ","))
	return b.String()
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

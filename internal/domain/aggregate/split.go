package aggregate

import "github.com/okian/mindthegap/internal/domain/model"

// Key selects the column a gender split counts distinct values of.
type Key int

// Grouping columns.
const (
	ByCountry Key = iota
	ByAthlete
	BySport
)

// String returns the dataset column name.
func (k Key) String() string {
	switch k {
	case ByCountry:
		return "Country_Name"
	case ByAthlete:
		return "Athlete"
	case BySport:
		return "Sport"
	default:
		return "unknown"
	}
}

func (k Key) value(r model.MedalRecord) string {
	switch k {
	case ByAthlete:
		return r.Athlete
	case BySport:
		return r.Sport
	default:
		return r.Country
	}
}

// SplitKind tags which genders are present in a GenderSplit.
type SplitKind int

// Split variants.
const (
	Neither SplitKind = iota
	MenOnly
	WomenOnly
	Both
)

// String names the variant.
func (k SplitKind) String() string {
	switch k {
	case MenOnly:
		return "men_only"
	case WomenOnly:
		return "women_only"
	case Both:
		return "both"
	default:
		return "neither"
	}
}

// GenderSplit counts distinct group values overall and per gender. It is a
// tagged variant: a gender that is absent from the subset reads as zero.
type GenderSplit struct {
	kind  SplitKind
	total int
	men   int
	women int
}

// Kind reports which genders contributed at least one record.
func (s GenderSplit) Kind() SplitKind { return s.kind }

// Total is the number of distinct values regardless of gender.
func (s GenderSplit) Total() int { return s.total }

// Men is the number of distinct values with at least one men's record.
func (s GenderSplit) Men() int {
	if s.kind == Both || s.kind == MenOnly {
		return s.men
	}
	return 0
}

// Women is the number of distinct values with at least one women's record.
func (s GenderSplit) Women() int {
	if s.kind == Both || s.kind == WomenOnly {
		return s.women
	}
	return 0
}

// SplitByGender counts the distinct values of key in subset, overall and for
// each gender.
func SplitByGender(subset []model.MedalRecord, key Key) GenderSplit {
	all := make(map[string]struct{})
	men := make(map[string]struct{})
	women := make(map[string]struct{})
	for _, r := range subset {
		v := key.value(r)
		all[v] = struct{}{}
		switch r.Gender {
		case model.Men:
			men[v] = struct{}{}
		case model.Women:
			women[v] = struct{}{}
		}
	}

	s := GenderSplit{total: len(all), men: len(men), women: len(women)}
	switch {
	case len(men) > 0 && len(women) > 0:
		s.kind = Both
	case len(men) > 0:
		s.kind = MenOnly
	case len(women) > 0:
		s.kind = WomenOnly
	default:
		s.kind = Neither
	}
	return s
}

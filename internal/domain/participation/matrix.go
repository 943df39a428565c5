package participation

import (
	"sort"

	"github.com/okian/mindthegap/internal/domain/model"
)

// Sentinels used to encode presence. A pair absent for a gender is 1, so the
// product of the two grids identifies the combination uniquely:
// 1 neither, 2 women only, 3 men only, 6 both.
const (
	sentinelAbsent = 1.0
	sentinelWomen  = 2.0
	sentinelMen    = 3.0

	productWomen = sentinelWomen * sentinelAbsent
	productMen   = sentinelMen * sentinelAbsent
	productBoth  = sentinelMen * sentinelWomen
)

type cell struct {
	year  int
	sport string
}

// grid is a year x sport table of values. A missing cell is undefined.
type grid map[cell]float64

// presenceGrid pivots the medal records of one gender into a grid over the
// years and sports that gender appears in: present where at least one medal
// exists, sentinelAbsent elsewhere inside that domain.
func presenceGrid(records []model.MedalRecord, g model.Gender, present float64) grid {
	years := make(map[int]struct{})
	sports := make(map[string]struct{})
	counts := make(map[cell]int)
	for _, r := range records {
		if r.Gender != g || !r.HasMedal() {
			continue
		}
		years[r.Year] = struct{}{}
		sports[r.Sport] = struct{}{}
		counts[cell{r.Year, r.Sport}]++
	}

	out := make(grid, len(years)*len(sports))
	for y := range years {
		for s := range sports {
			c := cell{y, s}
			if counts[c] > 0 {
				out[c] = present
			} else {
				out[c] = sentinelAbsent
			}
		}
	}
	return out
}

// Matrix is the participation classification over the full dataset's year
// and sport domain. It is immutable once built.
type Matrix struct {
	years  []int
	sports []string
	cells  map[cell]Category
}

// Build classifies every (year, sport) pair of records.
func Build(records []model.MedalRecord) *Matrix {
	women := presenceGrid(records, model.Women, sentinelWomen)
	men := presenceGrid(records, model.Men, sentinelMen)

	years := make(map[int]struct{})
	sports := make(map[string]struct{})
	for _, r := range records {
		years[r.Year] = struct{}{}
		sports[r.Sport] = struct{}{}
	}

	m := &Matrix{cells: make(map[cell]Category, len(years)*len(sports))}
	for y := range years {
		m.years = append(m.years, y)
	}
	for s := range sports {
		m.sports = append(m.sports, s)
	}
	sort.Ints(m.years)
	sort.Strings(m.sports)

	for _, y := range m.years {
		for _, s := range m.sports {
			m.cells[cell{y, s}] = classify(men, women, cell{y, s})
		}
	}
	return m
}

// classify multiplies the two grids at c. Where one grid does not cover c the
// product is undefined and is back-filled from the men grid, then the women
// grid. A product of 1 means neither gender and normalises to 0.
func classify(men, women grid, c cell) Category {
	mv, mok := men[c]
	wv, wok := women[c]

	var v float64
	switch {
	case mok && wok:
		v = mv * wv
	case mok:
		v = mv
	case wok:
		v = wv
	default:
		return None
	}
	if v == sentinelAbsent {
		v = 0
	}
	return categoryFromCode(v)
}

// Years returns the year axis, ascending.
func (m *Matrix) Years() []int { return append([]int(nil), m.years...) }

// Sports returns the sport axis, sorted.
func (m *Matrix) Sports() []string { return append([]string(nil), m.sports...) }

// Category returns the classification of (year, sport); None outside the domain.
func (m *Matrix) Category(year int, sport string) Category {
	return m.cells[cell{year, sport}]
}

// Codes returns the heatmap values with one row per sport and one column per
// year. None cells are nil.
func (m *Matrix) Codes() [][]*float64 {
	out := make([][]*float64, len(m.sports))
	for i, s := range m.sports {
		row := make([]*float64, len(m.years))
		for j, y := range m.years {
			row[j] = m.cells[cell{y, s}].Code()
		}
		out[i] = row
	}
	return out
}

// Labels returns the category names in the same layout as Codes.
func (m *Matrix) Labels() [][]string {
	out := make([][]string, len(m.sports))
	for i, s := range m.sports {
		row := make([]string, len(m.years))
		for j, y := range m.years {
			row[j] = m.cells[cell{y, s}].String()
		}
		out[i] = row
	}
	return out
}

// Triple is one cell of the matrix in long form.
type Triple struct {
	Sport    string
	Year     int
	Category Category
}

// Triples flattens the matrix, sport-major.
func (m *Matrix) Triples() []Triple {
	out := make([]Triple, 0, len(m.cells))
	for _, s := range m.sports {
		for _, y := range m.years {
			out = append(out, Triple{Sport: s, Year: y, Category: m.cells[cell{y, s}]})
		}
	}
	return out
}

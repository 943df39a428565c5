package participation

import (
	"math"
	"sort"
)

// YearShare is the split of the sports held in one year by who won medals in them.
type YearShare struct {
	Year  int     `json:"year"`
	Men   float64 `json:"men_pct"`
	Women float64 `json:"women_pct"`
	Both  float64 `json:"both_pct"`
}

// PercentageByYear counts Men, Women and Both cells per year, ignoring None,
// and converts them to percentages rounded to two decimals. Years without any
// classified sport are left out.
func PercentageByYear(m *Matrix) []YearShare {
	type tally struct{ men, women, both int }
	byYear := make(map[int]*tally)
	for _, t := range m.Triples() {
		if t.Category == None {
			continue
		}
		c, ok := byYear[t.Year]
		if !ok {
			c = &tally{}
			byYear[t.Year] = c
		}
		switch t.Category {
		case Men:
			c.men++
		case Women:
			c.women++
		case Both:
			c.both++
		}
	}

	out := make([]YearShare, 0, len(byYear))
	for year, c := range byYear {
		total := float64(c.men + c.women + c.both)
		out = append(out, YearShare{
			Year:  year,
			Men:   roundTo2(100 * float64(c.men) / total),
			Women: roundTo2(100 * float64(c.women) / total),
			Both:  roundTo2(100 * float64(c.both) / total),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

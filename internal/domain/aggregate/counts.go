package aggregate

import (
	"sort"
	"strings"

	"github.com/okian/mindthegap/internal/domain/model"
)

// GenderCount is the number of medal records per gender.
type GenderCount struct {
	Men   int `json:"men"`
	Women int `json:"women"`
}

// Total returns Men + Women.
func (c GenderCount) Total() int { return c.Men + c.Women }

// GenderTotals counts the records of each gender in subset.
func GenderTotals(subset []model.MedalRecord) GenderCount {
	var c GenderCount
	for _, r := range subset {
		c.add(r.Gender)
	}
	return c
}

func (c *GenderCount) add(g model.Gender) {
	switch g {
	case model.Men:
		c.Men++
	case model.Women:
		c.Women++
	}
}

// YearGenderCount is one point of the medals-per-year series.
type YearGenderCount struct {
	Year  int `json:"year"`
	Men   int `json:"men"`
	Women int `json:"women"`
}

// CountsByYearAndGender returns one entry per year present in subset, ordered
// by year. A gender without records in a year counts as zero.
func CountsByYearAndGender(subset []model.MedalRecord) []YearGenderCount {
	byYear := make(map[int]*GenderCount)
	for _, r := range subset {
		c, ok := byYear[r.Year]
		if !ok {
			c = &GenderCount{}
			byYear[r.Year] = c
		}
		c.add(r.Gender)
	}

	out := make([]YearGenderCount, 0, len(byYear))
	for year, c := range byYear {
		out = append(out, YearGenderCount{Year: year, Men: c.Men, Women: c.Women})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// GroupCount is the per-gender medal count of one group value.
type GroupCount struct {
	Name  string `json:"name"`
	Men   int    `json:"men"`
	Women int    `json:"women"`
}

// Total returns Men + Women.
func (g GroupCount) Total() int { return g.Men + g.Women }

// TopGroups ranks the values of key by medal count, highest first, breaking
// ties by name. n <= 0 returns every group.
func TopGroups(subset []model.MedalRecord, key Key, n int) []GroupCount {
	byName := make(map[string]*GenderCount)
	for _, r := range subset {
		name := key.value(r)
		c, ok := byName[name]
		if !ok {
			c = &GenderCount{}
			byName[name] = c
		}
		c.add(r.Gender)
	}

	out := make([]GroupCount, 0, len(byName))
	for name, c := range byName {
		out = append(out, GroupCount{Name: name, Men: c.Men, Women: c.Women})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total() != out[j].Total() {
			return out[i].Total() > out[j].Total()
		}
		return strings.Compare(out[i].Name, out[j].Name) < 0
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

package probe

import (
	"math/rand/v2"

	service "github.com/okian/mindthegap/internal/app"
	"github.com/okian/mindthegap/internal/domain/model"
)

// Case is a filter state paired with a narrower one inside it.
type Case struct {
	Wide   model.FilterState
	Narrow model.FilterState
}

// generateCases draws n cases from the dashboard's inputs. The same seed
// always yields the same cases.
func generateCases(opts service.FilterOptions, n int, seed int64) []Case {
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15)) //nolint:gosec // reproducible, not secret

	countries := make([]string, len(opts.Countries))
	for i, c := range opts.Countries {
		countries[i] = c.Value
	}

	out := make([]Case, n)
	for i := range out {
		lo, hi := yearRange(rng, opts.Years)
		wideCountries := pick(rng, countries, rng.IntN(maxCountriesPerCase+1))
		wide := model.NewFilterState(lo, hi, wideCountries)

		// Narrow inside the wide years, and inside the wide countries; an
		// unrestricted wide set allows any country.
		nlo, nhi := yearRange(rng, between(opts.Years, lo, hi))
		pool := wideCountries
		if len(pool) == 0 {
			pool = countries
		}
		size := 1
		if len(pool) > 1 {
			size = 1 + rng.IntN(len(pool))
		}
		out[i] = Case{
			Wide:   wide,
			Narrow: model.NewFilterState(nlo, nhi, pick(rng, pool, size)),
		}
	}
	return out
}

// yearRange picks an ordered pair of years.
func yearRange(rng *rand.Rand, years []int) (int, int) {
	if len(years) == 0 {
		return 0, 0
	}
	i, j := rng.IntN(len(years)), rng.IntN(len(years))
	if i > j {
		i, j = j, i
	}
	return years[i], years[j]
}

// pick returns up to k distinct values from pool.
func pick(rng *rand.Rand, pool []string, k int) []string {
	if k > len(pool) {
		k = len(pool)
	}
	perm := rng.Perm(len(pool))
	out := make([]string, k)
	for i := range out {
		out[i] = pool[perm[i]]
	}
	return out
}

func between(years []int, lo, hi int) []int {
	var out []int
	for _, y := range years {
		if y >= lo && y <= hi {
			out = append(out, y)
		}
	}
	return out
}

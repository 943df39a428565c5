package probe

import (
	"bytes"
	"fmt"
	"math"

	"github.com/okian/mindthegap/internal/domain/chart"
)

// medalTotal is the number of medal rows behind a bundle, read from the pie.
func medalTotal(b chart.Bundle) int {
	if len(b.Gender.Data) == 0 {
		return 0
	}
	total := 0
	for _, v := range b.Gender.Data[0].Values {
		total += v
	}
	return total
}

// checkBundle verifies the properties that hold for any single bundle.
func checkBundle(b chart.Bundle) []string {
	var out []string

	if b.Empty != (medalTotal(b) == 0) {
		out = append(out, fmt.Sprintf("%s: empty=%t but pie total=%d", key(b), b.Empty, medalTotal(b)))
	}
	for _, fig := range []chart.Figure{b.Gender, b.GenderYear, b.TopCountries} {
		if fig.Empty != b.Empty {
			out = append(out, fmt.Sprintf("%s: figure %s placeholder=%t, bundle empty=%t", key(b), fig.ID, fig.Empty, b.Empty))
		}
		if fig.Empty && (len(fig.Data) != 0 || len(fig.Layout.Annotations) != 1 || fig.Layout.Annotations[0].Text != chart.NoDataText) {
			out = append(out, fmt.Sprintf("%s: figure %s is not a proper placeholder", key(b), fig.ID))
		}
	}
	if b.Participation.Empty {
		out = append(out, fmt.Sprintf("%s: participation heatmap is empty", key(b)))
	}
	out = append(out, checkShares(b.ParticipationShare)...)
	return out
}

// checkShares verifies every year of the share figure sums to 100.
func checkShares(fig chart.Figure) []string {
	if fig.Empty {
		return nil
	}
	var sums []float64
	for _, tr := range fig.Data {
		ys, ok := floats(tr.Y)
		if !ok {
			return []string{fmt.Sprintf("share trace %q has non-numeric values", tr.Name)}
		}
		if sums == nil {
			sums = make([]float64, len(ys))
		}
		if len(ys) != len(sums) {
			return []string{fmt.Sprintf("share trace %q has %d values, want %d", tr.Name, len(ys), len(sums))}
		}
		for i, y := range ys {
			sums[i] += y
		}
	}
	var out []string
	for i, s := range sums {
		if math.Abs(s-100) > shareTolerance {
			out = append(out, fmt.Sprintf("share column %d sums to %.4f", i, s))
		}
	}
	return out
}

// checkNarrowing verifies that the narrower filter never shows more medals.
func checkNarrowing(wide, narrow chart.Bundle) []string {
	if w, n := medalTotal(wide), medalTotal(narrow); n > w {
		return []string{fmt.Sprintf("%s has %d medals, more than %s with %d", key(narrow), n, key(wide), w)}
	}
	return nil
}

// checkIdempotent verifies two responses to the same request are identical.
func checkIdempotent(first, second []byte) []string {
	if !bytes.Equal(first, second) {
		return []string{"repeated request returned a different body"}
	}
	return nil
}

func key(b chart.Bundle) string {
	return b.Filter.Key()
}

func floats(v any) ([]float64, bool) {
	switch t := v.(type) {
	case []float64:
		return t, true
	case []any:
		out := make([]float64, len(t))
		for i, x := range t {
			f, ok := x.(float64)
			if !ok {
				return nil, false
			}
			out[i] = f
		}
		return out, true
	}
	return nil, false
}

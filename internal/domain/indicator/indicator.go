// Package indicator compares filtered counts against the full-dataset baseline.
package indicator

import "github.com/okian/mindthegap/internal/domain/aggregate"

// Snapshot holds the distinct counts behind one indicator card.
type Snapshot struct {
	Total int `json:"total"`
	Men   int `json:"men"`
	Women int `json:"women"`
}

// FromSplit converts a gender split into a snapshot. Missing genders are 0.
func FromSplit(s aggregate.GenderSplit) Snapshot {
	return Snapshot{Total: s.Total(), Men: s.Men(), Women: s.Women()}
}

// Delta returns the relative change (current-baseline)/baseline.
// ok is false when baseline is 0 and the change is undefined.
func Delta(current, baseline int) (float64, bool) {
	if baseline == 0 {
		return 0, false
	}
	return float64(current-baseline) / float64(baseline), true
}

// Card is one indicator: current and baseline snapshots plus their deltas.
// A nil delta means the baseline was zero.
type Card struct {
	Title      string   `json:"title"`
	Current    Snapshot `json:"current"`
	Baseline   Snapshot `json:"baseline"`
	TotalDelta *float64 `json:"total_delta"`
	MenDelta   *float64 `json:"men_delta"`
	WomenDelta *float64 `json:"women_delta"`
}

// Compare builds a card for current against baseline.
func Compare(title string, current, baseline Snapshot) Card {
	return Card{
		Title:      title,
		Current:    current,
		Baseline:   baseline,
		TotalDelta: deltaPtr(current.Total, baseline.Total),
		MenDelta:   deltaPtr(current.Men, baseline.Men),
		WomenDelta: deltaPtr(current.Women, baseline.Women),
	}
}

func deltaPtr(current, baseline int) *float64 {
	d, ok := Delta(current, baseline)
	if !ok {
		return nil
	}
	return &d
}

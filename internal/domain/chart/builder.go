package chart

import (
	"github.com/okian/mindthegap/internal/domain/aggregate"
	"github.com/okian/mindthegap/internal/domain/indicator"
	"github.com/okian/mindthegap/internal/domain/model"
	"github.com/okian/mindthegap/internal/domain/participation"
)

// Bundle is every figure of the dashboard for one filter state.
type Bundle struct {
	Filter             model.FilterState `json:"filter"`
	Indicator          Figure            `json:"indicator"`
	Gender             Figure            `json:"gender"`
	GenderYear         Figure            `json:"gender_year"`
	TopCountries       Figure            `json:"top_countries"`
	Participation      Figure            `json:"participation"`
	ParticipationShare Figure            `json:"participation_share"`
	Indicators         []indicator.Card  `json:"indicators"`
	Empty              bool              `json:"empty"`
}

// Figure returns the figure with the given ID.
func (b Bundle) Figure(id string) (Figure, bool) {
	switch id {
	case IDIndicators:
		return b.Indicator, true
	case IDGender:
		return b.Gender, true
	case IDGenderYear:
		return b.GenderYear, true
	case IDTopCountries:
		return b.TopCountries, true
	case IDParticipation:
		return b.Participation, true
	case IDParticipationShare:
		return b.ParticipationShare, true
	}
	return Figure{}, false
}

// indicatorKeys are the distinct counts shown as cards, in order.
var indicatorKeys = []struct {
	title string
	key   aggregate.Key
}{
	{"Countries", aggregate.ByCountry},
	{"Athletes", aggregate.ByAthlete},
	{"Sports", aggregate.BySport},
}

// Builder computes bundles for one dataset. The parts that never depend on
// the filters are computed once in NewBuilder.
type Builder struct {
	ds        *model.Dataset
	opts      Options
	matrix    *participation.Matrix
	heatmap   Figure
	share     Figure
	baselines []indicator.Snapshot
}

// NewBuilder prepares a Builder for ds.
func NewBuilder(ds *model.Dataset, opts Options) *Builder {
	opts = opts.withDefaults()
	records := ds.Records()
	m := participation.Build(records)

	baselines := make([]indicator.Snapshot, len(indicatorKeys))
	for i, k := range indicatorKeys {
		baselines[i] = indicator.FromSplit(aggregate.SplitByGender(records, k.key))
	}

	return &Builder{
		ds:        ds,
		opts:      opts,
		matrix:    m,
		heatmap:   ParticipationHeatmap(m, opts),
		share:     ParticipationShareBar(participation.PercentageByYear(m), opts),
		baselines: baselines,
	}
}

// Dataset returns the dataset the builder was created with.
func (b *Builder) Dataset() *model.Dataset { return b.ds }

// Matrix returns the full-dataset participation matrix.
func (b *Builder) Matrix() *participation.Matrix { return b.matrix }

// Options returns the effective options.
func (b *Builder) Options() Options { return b.opts }

// Build computes the bundle for fs. It has no side effects and is
// deterministic: equal inputs produce equal bundles.
func (b *Builder) Build(fs model.FilterState) Bundle {
	subset := aggregate.Filter(b.ds, fs)
	empty := len(subset) == 0

	cards := make([]indicator.Card, len(indicatorKeys))
	for i, k := range indicatorKeys {
		current := indicator.FromSplit(aggregate.SplitByGender(subset, k.key))
		cards[i] = indicator.Compare(k.title, current, b.baselines[i])
	}

	return Bundle{
		Filter:             fs,
		Indicator:          IndicatorFigure(cards, empty, b.opts),
		Gender:             GenderPie(aggregate.GenderTotals(subset), b.opts),
		GenderYear:         GenderYearBar(aggregate.CountsByYearAndGender(subset), b.opts),
		TopCountries:       TopCountriesBar(aggregate.TopGroups(subset, aggregate.ByCountry, b.opts.TopN), b.opts),
		Participation:      b.heatmap,
		ParticipationShare: b.share,
		Indicators:         cards,
		Empty:              empty,
	}
}

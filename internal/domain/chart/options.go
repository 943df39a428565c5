package chart

// Options holds the presentation settings shared by every figure.
type Options struct {
	MenColor   string
	WomenColor string
	BothColor  string

	GenderTitle             string
	GenderYearTitle         string
	ParticipationTitle      string
	ParticipationShareTitle string
	TopCountriesTitle       string
	IndicatorsTitle         string

	// TopN is the number of rows in the top countries ranking.
	TopN int

	// Heatmap size in pixels.
	HeatmapWidth  int
	HeatmapHeight int
}

// Default option values.
const (
	DefaultMenColor   = "#87CEFA"
	DefaultWomenColor = "#FFC0CB"
	DefaultBothColor  = "#c3e4a1"
	DefaultTopN       = 10
	defaultHeatmapDim = 800
)

// DefaultOptions returns the dashboard's standard look.
func DefaultOptions() Options {
	return Options{
		MenColor:                DefaultMenColor,
		WomenColor:              DefaultWomenColor,
		BothColor:               DefaultBothColor,
		GenderTitle:             "Gender Percentage in Olympic Games",
		GenderYearTitle:         "Number of Medals per Gender",
		ParticipationTitle:      "Sports played per Gender",
		ParticipationShareTitle: "Percentage of Sports played per Gender",
		TopCountriesTitle:       "Top Countries by Medals",
		IndicatorsTitle:         "Compared to all Games",
		TopN:                    DefaultTopN,
		HeatmapWidth:            defaultHeatmapDim,
		HeatmapHeight:           defaultHeatmapDim,
	}
}

// withDefaults fills zero fields from DefaultOptions.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&o.MenColor, d.MenColor)
	fill(&o.WomenColor, d.WomenColor)
	fill(&o.BothColor, d.BothColor)
	fill(&o.GenderTitle, d.GenderTitle)
	fill(&o.GenderYearTitle, d.GenderYearTitle)
	fill(&o.ParticipationTitle, d.ParticipationTitle)
	fill(&o.ParticipationShareTitle, d.ParticipationShareTitle)
	fill(&o.TopCountriesTitle, d.TopCountriesTitle)
	fill(&o.IndicatorsTitle, d.IndicatorsTitle)
	if o.TopN <= 0 {
		o.TopN = d.TopN
	}
	if o.HeatmapWidth <= 0 {
		o.HeatmapWidth = d.HeatmapWidth
	}
	if o.HeatmapHeight <= 0 {
		o.HeatmapHeight = d.HeatmapHeight
	}
	return o
}

package chart

import (
	"fmt"

	"github.com/okian/mindthegap/internal/domain/aggregate"
	"github.com/okian/mindthegap/internal/domain/indicator"
	"github.com/okian/mindthegap/internal/domain/model"
	"github.com/okian/mindthegap/internal/domain/participation"
)

const (
	pieHole = 0.60

	medalHover = "Year: <b>%%{x}</b><br>Number of Medals: <b>%%{y}</b><br>Gender: <b>%s</b><br><extra></extra>"
	shareHover = "Year: <b>%%{x}</b><br>Sports: <b>%%{y:.2f}%%</b><br>Played by: <b>%s</b><br><extra></extra>"
	rankHover  = "Country: <b>%%{y}</b><br>Number of Medals: <b>%%{x}</b><br>Gender: <b>%s</b><br><extra></extra>"
	heatHover  = "Column: <b>%{x}</b><br>Line: <b>%{y}</b><br>Played by: <b>%{customdata}</b><br><extra></extra>"
)

// Stepped scale: each category owns one third of [0,1] so the codes
// 0.25, 0.5 and 1.0 land on exactly one colour.
func heatScale(o Options) [][2]any {
	return [][2]any{
		{0, o.WomenColor},
		{0.33, o.WomenColor},
		{0.33, o.MenColor},
		{0.66, o.MenColor},
		{0.66, o.BothColor},
		{1, o.BothColor},
	}
}

// GenderPie is the donut of medal counts per gender.
func GenderPie(c aggregate.GenderCount, o Options) Figure {
	o = o.withDefaults()
	if c.Total() == 0 {
		return Placeholder(IDGender, o.GenderTitle)
	}
	return Figure{
		ID:    IDGender,
		Title: o.GenderTitle,
		Data: []Trace{{
			Type:   TypePie,
			Labels: []string{string(model.Men), string(model.Women)},
			Values: []int{c.Men, c.Women},
			Hole:   pieHole,
			Marker: &Marker{Colors: []string{o.MenColor, o.WomenColor}},
		}},
		Layout: Layout{Title: &Text{Text: o.GenderTitle}},
	}
}

// GenderYearBar shows one bar per gender for every year of the series.
func GenderYearBar(series []aggregate.YearGenderCount, o Options) Figure {
	o = o.withDefaults()
	if len(series) == 0 {
		return Placeholder(IDGenderYear, o.GenderYearTitle)
	}
	years := make([]int, len(series))
	men := make([]int, len(series))
	women := make([]int, len(series))
	for i, s := range series {
		years[i] = s.Year
		men[i] = s.Men
		women[i] = s.Women
	}
	return Figure{
		ID:    IDGenderYear,
		Title: o.GenderYearTitle,
		Data: []Trace{
			barTrace(string(model.Men), years, men, o.MenColor, medalHover),
			barTrace(string(model.Women), years, women, o.WomenColor, medalHover),
		},
		Layout: Layout{
			Title:   &Text{Text: o.GenderYearTitle},
			BarMode: "group",
			XAxis:   &Axis{Title: &Text{Text: "Year"}},
			YAxis:   &Axis{Title: &Text{Text: "Number of Medals"}},
		},
	}
}

func barTrace(name string, x, y any, color, hover string) Trace {
	return Trace{
		Type:          TypeBar,
		Name:          name,
		X:             x,
		Y:             y,
		Marker:        &Marker{Color: color},
		HoverTemplate: fmt.Sprintf(hover, name),
	}
}

// ParticipationHeatmap draws the sport x year matrix, one row per sport.
func ParticipationHeatmap(m *participation.Matrix, o Options) Figure {
	o = o.withDefaults()
	if m == nil || len(m.Years()) == 0 {
		return Placeholder(IDParticipation, o.ParticipationTitle)
	}
	zmin, zmax := 0.0, 1.0
	return Figure{
		ID:    IDParticipation,
		Title: o.ParticipationTitle,
		Data: []Trace{{
			Type:          TypeHeatmap,
			X:             m.Years(),
			Y:             m.Sports(),
			Z:             m.Codes(),
			CustomData:    m.Labels(),
			HoverTemplate: heatHover,
			ColorScale:    heatScale(o),
			ZMin:          &zmin,
			ZMax:          &zmax,
			XGap:          1,
			YGap:          1,
			ColorBar: &ColorBar{
				TickVals: []float64{0.25, 0.5, 0.75},
				TickText: []string{string(model.Women), string(model.Men), "Mixed"},
			},
		}},
		Layout: Layout{
			Title:  &Text{Text: o.ParticipationTitle},
			Width:  o.HeatmapWidth,
			Height: o.HeatmapHeight,
			XAxis:  &Axis{Type: "category"},
			YAxis:  &Axis{AutoRange: "reversed"},
		},
	}
}

// ParticipationShareBar stacks the Men, Women and Both percentages per year.
func ParticipationShareBar(shares []participation.YearShare, o Options) Figure {
	o = o.withDefaults()
	if len(shares) == 0 {
		return Placeholder(IDParticipationShare, o.ParticipationShareTitle)
	}
	years := make([]int, len(shares))
	men := make([]float64, len(shares))
	women := make([]float64, len(shares))
	both := make([]float64, len(shares))
	for i, s := range shares {
		years[i] = s.Year
		men[i] = s.Men
		women[i] = s.Women
		both[i] = s.Both
	}
	return Figure{
		ID:    IDParticipationShare,
		Title: o.ParticipationShareTitle,
		Data: []Trace{
			barTrace(string(model.Men), years, men, o.MenColor, shareHover),
			barTrace(string(model.Women), years, women, o.WomenColor, shareHover),
			barTrace(participation.Both.String(), years, both, o.BothColor, shareHover),
		},
		Layout: Layout{
			Title:   &Text{Text: o.ParticipationShareTitle},
			BarMode: "stack",
			XAxis:   &Axis{Title: &Text{Text: "Year"}, Type: "category"},
			YAxis:   &Axis{Title: &Text{Text: "% of Sports"}},
		},
	}
}

// TopCountriesBar ranks countries by medals, split by gender, largest on top.
func TopCountriesBar(groups []aggregate.GroupCount, o Options) Figure {
	o = o.withDefaults()
	if len(groups) == 0 {
		return Placeholder(IDTopCountries, o.TopCountriesTitle)
	}
	names := make([]string, len(groups))
	men := make([]int, len(groups))
	women := make([]int, len(groups))
	for i, g := range groups {
		names[i] = model.CountryLabel(g.Name)
		men[i] = g.Men
		women[i] = g.Women
	}
	mt := barTrace(string(model.Men), men, names, o.MenColor, rankHover)
	wt := barTrace(string(model.Women), women, names, o.WomenColor, rankHover)
	mt.Orientation, wt.Orientation = "h", "h"
	return Figure{
		ID:    IDTopCountries,
		Title: o.TopCountriesTitle,
		Data:  []Trace{mt, wt},
		Layout: Layout{
			Title:   &Text{Text: o.TopCountriesTitle},
			BarMode: "group",
			XAxis:   &Axis{Title: &Text{Text: "Number of Medals"}},
			YAxis:   &Axis{AutoRange: "reversed"},
		},
	}
}

// IndicatorFigure lays the cards out side by side. Each card shows the
// current total with its change relative to the baseline; the change is left
// out when the baseline is zero.
func IndicatorFigure(cards []indicator.Card, empty bool, o Options) Figure {
	o = o.withDefaults()
	if empty || len(cards) == 0 {
		return Placeholder(IDIndicators, o.IndicatorsTitle)
	}
	traces := make([]Trace, len(cards))
	for i, c := range cards {
		v := float64(c.Current.Total)
		t := Trace{
			Type:   TypeIndicator,
			Mode:   "number",
			Value:  &v,
			Number: &Number{ValueFormat: ","},
			Title: &Text{Text: fmt.Sprintf("%s<br><span style='font-size:0.7em'>%s %d | %s %d</span>",
				c.Title, model.Men, c.Current.Men, model.Women, c.Current.Women)},
			Domain: &Domain{Row: 0, Column: i},
		}
		if c.TotalDelta != nil {
			t.Mode = "number+delta"
			t.Delta = &Delta{Reference: float64(c.Baseline.Total), Relative: true, ValueFormat: ".1%"}
		}
		traces[i] = t
	}
	return Figure{
		ID:    IDIndicators,
		Title: o.IndicatorsTitle,
		Data:  traces,
		Layout: Layout{
			Title: &Text{Text: o.IndicatorsTitle},
			Grid:  &Grid{Rows: 1, Columns: len(cards), Pattern: "independent"},
		},
	}
}

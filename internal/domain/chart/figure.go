// Package chart turns aggregated medal data into figure descriptions that a
// Plotly front end can draw directly. Figures are plain values; encoding the
// same figure twice yields the same bytes.
package chart

// Figure IDs exposed by the dashboard.
const (
	IDGender             = "gender"
	IDGenderYear         = "gender_year"
	IDParticipation      = "participation"
	IDParticipationShare = "participation_share"
	IDTopCountries       = "top_countries"
	IDIndicators         = "indicators"
)

// IDs lists every figure ID in display order.
var IDs = []string{
	IDIndicators,
	IDGender,
	IDGenderYear,
	IDTopCountries,
	IDParticipation,
	IDParticipationShare,
}

// Trace types.
const (
	TypePie       = "pie"
	TypeBar       = "bar"
	TypeHeatmap   = "heatmap"
	TypeIndicator = "indicator"
)

// NoDataText is shown instead of a chart when the filters match nothing.
const NoDataText = "No matching data found"

// Figure is one chart: its traces and layout.
type Figure struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
	Empty  bool    `json:"empty"`
}

// Kind returns the type of the first trace, or "" for a figure without traces.
func (f Figure) Kind() string {
	if len(f.Data) == 0 {
		return ""
	}
	return f.Data[0].Type
}

// Trace is a Plotly trace. Only the attributes the dashboard uses are modelled.
type Trace struct {
	Type          string    `json:"type"`
	Name          string    `json:"name,omitempty"`
	Orientation   string    `json:"orientation,omitempty"`
	Labels        []string  `json:"labels,omitempty"`
	Values        []int     `json:"values,omitempty"`
	Hole          float64   `json:"hole,omitempty"`
	X             any       `json:"x,omitempty"`
	Y             any       `json:"y,omitempty"`
	Z             any       `json:"z,omitempty"`
	CustomData    any       `json:"customdata,omitempty"`
	HoverTemplate string    `json:"hovertemplate,omitempty"`
	Marker        *Marker   `json:"marker,omitempty"`
	ColorScale    [][2]any  `json:"colorscale,omitempty"`
	ColorBar      *ColorBar `json:"colorbar,omitempty"`
	ZMin          *float64  `json:"zmin,omitempty"`
	ZMax          *float64  `json:"zmax,omitempty"`
	XGap          int       `json:"xgap,omitempty"`
	YGap          int       `json:"ygap,omitempty"`
	Mode          string    `json:"mode,omitempty"`
	Value         *float64  `json:"value,omitempty"`
	Delta         *Delta    `json:"delta,omitempty"`
	Number        *Number   `json:"number,omitempty"`
	Title         *Text     `json:"title,omitempty"`
	Domain        *Domain   `json:"domain,omitempty"`
}

// Marker colours a trace: Color for bars, Colors for pie slices.
type Marker struct {
	Color  string   `json:"color,omitempty"`
	Colors []string `json:"colors,omitempty"`
}

// ColorBar labels the heatmap legend.
type ColorBar struct {
	Title    *Text     `json:"title,omitempty"`
	TickVals []float64 `json:"tickvals,omitempty"`
	TickText []string  `json:"ticktext,omitempty"`
}

// Delta configures the change shown by an indicator trace.
type Delta struct {
	Reference   float64 `json:"reference"`
	Relative    bool    `json:"relative"`
	ValueFormat string  `json:"valueformat,omitempty"`
}

// Number formats the main value of an indicator trace.
type Number struct {
	ValueFormat string `json:"valueformat,omitempty"`
}

// Domain places an indicator inside the layout grid.
type Domain struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// Text is a Plotly title object.
type Text struct {
	Text string `json:"text"`
}

// Layout is the figure layout.
type Layout struct {
	Title       *Text        `json:"title,omitempty"`
	Width       int          `json:"width,omitempty"`
	Height      int          `json:"height,omitempty"`
	BarMode     string       `json:"barmode,omitempty"`
	XAxis       *Axis        `json:"xaxis,omitempty"`
	YAxis       *Axis        `json:"yaxis,omitempty"`
	Grid        *Grid        `json:"grid,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
}

// Axis configures one axis.
type Axis struct {
	Title     *Text  `json:"title,omitempty"`
	Type      string `json:"type,omitempty"`
	AutoRange string `json:"autorange,omitempty"`
	Visible   *bool  `json:"visible,omitempty"`
}

// Grid lays indicator traces out in rows and columns.
type Grid struct {
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
	Pattern string `json:"pattern,omitempty"`
}

// Annotation is free text placed on the figure.
type Annotation struct {
	Text      string `json:"text"`
	XRef      string `json:"xref"`
	YRef      string `json:"yref"`
	ShowArrow bool   `json:"showarrow"`
	Font      *Font  `json:"font,omitempty"`
}

// Font sets annotation text size.
type Font struct {
	Size int `json:"size"`
}

// Placeholder returns a figure without traces that shows NoDataText.
func Placeholder(id, title string) Figure {
	hidden := false
	return Figure{
		ID:    id,
		Title: title,
		Data:  []Trace{},
		Layout: Layout{
			Title: &Text{Text: title},
			XAxis: &Axis{Visible: &hidden},
			YAxis: &Axis{Visible: &hidden},
			Annotations: []Annotation{{
				Text:      NoDataText,
				XRef:      "paper",
				YRef:      "paper",
				ShowArrow: false,
				Font:      &Font{Size: 28},
			}},
		},
		Empty: true,
	}
}

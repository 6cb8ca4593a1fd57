// Package charts builds Plotly figure documents for the dashboard.
// Figures are marshalled to JSON and drawn client-side with Plotly.newPlot.
package charts

// Figure is a Plotly figure
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is one Plotly series
type Trace struct {
	Type string   `json:"type"` // scatter or bar
	Mode string   `json:"mode,omitempty"`
	Name string   `json:"name"`
	X    []string `json:"x"`
	Y    []any    `json:"y"` // numbers, nil for gaps
}

// Layout is the subset of the Plotly layout the dashboard uses
type Layout struct {
	Title       Text         `json:"title"`
	XAxis       Axis         `json:"xaxis"`
	YAxis       Axis         `json:"yaxis"`
	Template    string       `json:"template"`
	Annotations []Annotation `json:"annotations,omitempty"`
}

// Text is a Plotly title object
type Text struct {
	Text string `json:"text"`
}

// Axis is a Plotly axis
type Axis struct {
	Title          Text   `json:"title"`
	TickFormat     string `json:"tickformat,omitempty"`
	TickAngle      int    `json:"tickangle,omitempty"`
	TickFont       *Font  `json:"tickfont,omitempty"`
	ShowTickLabels *bool  `json:"showticklabels,omitempty"`
}

// Font is a Plotly font
type Font struct {
	Size  int    `json:"size,omitempty"`
	Color string `json:"color,omitempty"`
}

// Annotation is a Plotly text annotation
type Annotation struct {
	Text      string  `json:"text"`
	XRef      string  `json:"xref"`
	YRef      string  `json:"yref"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	XAnchor   string  `json:"xanchor"`
	YAnchor   string  `json:"yanchor"`
	ShowArrow bool    `json:"showarrow"`
	Font      Font    `json:"font"`
}

const (
	plotlyTheme  = "plotly_white"
	modeLines    = "lines+markers"
	typeScatter  = "scatter"
	typeBar      = "bar"
	twoDecimals  = ".2f"
	noDataSuffix = " - No Data"

	// NoDataMessage is shown on charts before an MSISDN is searched
	NoDataMessage = "No data available. Please search for an MSISDN first."
)

func line(name string, x []string, y []any) Trace {
	return Trace{Type: typeScatter, Mode: modeLines, Name: name, X: x, Y: y}
}

func layout(title, xTitle, yTitle string) Layout {
	return Layout{
		Title:    Text{Text: title},
		XAxis:    Axis{Title: Text{Text: xTitle}},
		YAxis:    Axis{Title: Text{Text: yTitle}},
		Template: plotlyTheme,
	}
}

// Empty returns the placeholder figure shown without data
func Empty(title, xTitle, yTitle string) Figure {
	hidden := false
	l := layout(title+noDataSuffix, xTitle, yTitle)
	l.XAxis.ShowTickLabels = &hidden
	l.YAxis.ShowTickLabels = &hidden
	l.Annotations = []Annotation{{
		Text: NoDataMessage,
		XRef: "paper", YRef: "paper",
		X: 0.5, Y: 0.5,
		XAnchor: "center", YAnchor: "middle",
		Font: Font{Size: 16, Color: "gray"},
	}}
	return Figure{Data: []Trace{}, Layout: l}
}

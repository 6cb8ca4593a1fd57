package charts

import (
	"strconv"
	"strings"

	"github.com/jengzang/subscriber-insights-go/internal/dataset"
)

// KPI workbook sheets and titles
const (
	HLRSheet      = "Daily HLR Subs"
	HLRTitle      = "Daily HLR/VLR Subscribers (HLR_VLR_Subbase.xls)"
	CallDropSheet = "Average_3G_Call_Drop_Rate"
	CallDropTitle = "3G Call Drop Rate by Site (Average_3G_Call_Drop_Rate Sheet)"

	callDropSiteColumn = "Site Name"
	callDropRateColumn = "Call Drop Rate (%)"
)

// HLRSubscribers plots every column of the sheet against the first one
func HLRSubscribers(t *dataset.Table) Figure {
	if t == nil || len(t.Header) == 0 {
		return Figure{Data: []Trace{}, Layout: layout(HLRTitle, "", "Subscriber Count")}
	}

	x := column(t, 0)
	f := Figure{Data: []Trace{}, Layout: layout(HLRTitle, t.Header[0], "Subscriber Count")}
	for i := 1; i < len(t.Header); i++ {
		f.Data = append(f.Data, line(t.Header[i], x, numbers(t, i)))
	}
	return f
}

// CallDropRate plots the drop rate per site. The site and rate columns fall
// back to the first and last columns of the sheet.
func CallDropRate(t *dataset.Table) Figure {
	if t == nil || len(t.Header) == 0 {
		return Figure{Data: []Trace{}, Layout: layout(CallDropTitle, "", "")}
	}

	siteIdx := t.Index(callDropSiteColumn)
	if siteIdx < 0 {
		siteIdx = 0
	}
	rateIdx := t.Index(callDropRateColumn)
	if rateIdx < 0 {
		rateIdx = len(t.Header) - 1
	}

	var x []string
	var y []any
	for _, row := range t.Rows {
		site := strings.TrimSpace(dataset.Cell(row, siteIdx))
		rate := strings.TrimSpace(dataset.Cell(row, rateIdx))
		if site == "" && rate == "" {
			continue
		}
		x = append(x, site)
		y = append(y, number(rate))
	}

	f := Figure{
		Data:   []Trace{line(callDropRateColumn, x, y)},
		Layout: layout(CallDropTitle, t.Header[siteIdx], t.Header[rateIdx]),
	}
	f.Layout.XAxis.TickAngle = 45
	f.Layout.XAxis.TickFont = &Font{Size: 10}
	f.Layout.YAxis.TickFormat = twoDecimals
	return f
}

func column(t *dataset.Table, idx int) []string {
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = dataset.Cell(row, idx)
	}
	return out
}

func numbers(t *dataset.Table, idx int) []any {
	out := make([]any, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = number(dataset.Cell(row, idx))
	}
	return out
}

// number returns the cell as a float64, or nil when blank or not numeric
func number(s string) any {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return f
}

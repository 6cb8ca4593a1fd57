package charts

import (
	"math"

	"github.com/jengzang/subscriber-insights-go/internal/models"
)

// Chart titles and axis labels
const (
	UsageTitle      = "Monthly Usage by Network Type"
	TotalTitle      = "Total Monthly Usage"
	VoiceTitle      = "Monthly Incoming & Outgoing Voice Usage"
	VoiceEmptyTitle = "Monthly Incoming & Outgoing Calls"
	SMSTitle        = "Monthly Incoming & Outgoing SMS Usage"

	monthAxis = "Month"
)

// UsageFigures holds the four subscriber usage charts
type UsageFigures struct {
	Usage Figure `json:"usage"`
	Total Figure `json:"total"`
	Voice Figure `json:"voice"`
	SMS   Figure `json:"sms"`
}

// Usage builds the subscriber usage charts; a nil or empty usage gives the placeholders
func Usage(u *models.MonthlyUsage) UsageFigures {
	if u == nil || u.IsEmpty() {
		return UsageFigures{
			Usage: Empty(UsageTitle, monthAxis, "Usage (GB)"),
			Total: Empty(TotalTitle, monthAxis, "Total Usage (GB)"),
			Voice: Empty(VoiceEmptyTitle, monthAxis, "Call Duration (Minutes)"),
			SMS:   Empty(SMSTitle, monthAxis, "SMS Count"),
		}
	}
	return UsageFigures{
		Usage: usageByNetwork(u),
		Total: totalUsage(u),
		Voice: voiceUsage(u),
		SMS:   smsUsage(u),
	}
}

func usageByNetwork(u *models.MonthlyUsage) Figure {
	f := Figure{Data: []Trace{}, Layout: layout(UsageTitle, monthAxis, "Usage (GB)")}
	f.Layout.YAxis.TickFormat = twoDecimals
	series := []struct {
		name string
		mb   []int64
	}{
		{"2G", u.Volume2G}, {"3G", u.Volume3G}, {"4G", u.Volume4G}, {"5G", u.Volume5G},
	}
	for _, s := range series {
		if len(s.mb) == 0 {
			continue
		}
		f.Data = append(f.Data, line(s.name, u.Months, toGB(s.mb)))
	}
	return f
}

func totalUsage(u *models.MonthlyUsage) Figure {
	f := Figure{Data: []Trace{}, Layout: layout(TotalTitle, monthAxis, "Total Usage (GB)")}
	f.Layout.YAxis.TickFormat = twoDecimals
	if len(u.Total) > 0 {
		f.Data = append(f.Data, Trace{Type: typeBar, Name: "Total Usage", X: u.Months, Y: toGB(u.Total)})
	}
	return f
}

func voiceUsage(u *models.MonthlyUsage) Figure {
	return Figure{
		Data: []Trace{
			line("Incoming Voice", u.Months, values(u.IncomingVoice)),
			line("Outgoing Voice", u.Months, values(u.OutgoingVoice)),
		},
		Layout: layout(VoiceTitle, monthAxis, "Voice Minutes"),
	}
}

func smsUsage(u *models.MonthlyUsage) Figure {
	f := Figure{Data: []Trace{}, Layout: layout(SMSTitle, monthAxis, "SMS Count")}
	if len(u.IncomingSMS) > 0 {
		f.Data = append(f.Data, line("Incoming SMS", u.Months, values(u.IncomingSMS)))
	}
	if len(u.OutgoingSMS) > 0 {
		f.Data = append(f.Data, line("Outgoing SMS", u.Months, values(u.OutgoingSMS)))
	}
	return f
}

// toGB converts MB to GB rounded to 2 decimals
func toGB(mb []int64) []any {
	out := make([]any, len(mb))
	for i, v := range mb {
		out[i] = math.Round(float64(v)/1024*100) / 100
	}
	return out
}

func values[T int64 | float64](in []T) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

package summarizer

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jengzang/subscriber-insights-go/internal/models"
	"github.com/jengzang/subscriber-insights-go/internal/stats"
)

// Pattern and suggestion texts
const (
	PatternDataSpike       = "Significant spike in data usage detected in some months."
	PatternLowMonths       = "Some months show very low data usage."
	PatternHeavyVoice      = "Heavy voice call activity detected."
	PatternFrequentSMS     = "Frequent SMS usage detected."
	PatternLowActivity     = "Low voice and SMS activity."
	PatternVoiceIncreasing = "Voice usage is consistently increasing month over month."
	PatternVoiceDecreasing = "Voice usage is consistently decreasing month over month."
	PatternVoiceStable     = "Voice usage is stable across months."
	PatternVoiceSpikeUp    = "Significant increase in voice usage detected in some months."
	PatternVoiceSpikeDown  = "Significant decrease in voice usage detected in some months."

	SuggestHigherPlan    = "Consider a higher data plan to save costs."
	SuggestDowngrade     = "Current plan may be more than needed; consider downgrading."
	SuggestUpgradeDevice = "Consider upgrading to a newer device for better performance and features."
)

// Rule thresholds. Data in MB, voice in minutes.
const (
	highUsageMB           = 1000
	lowUsageMB            = 500
	heavyVoiceMinutes     = 5000
	frequentSMS           = 500
	lowVoiceMinutes       = 100
	lowSMS                = 50
	stableVoiceDelta      = 10
	significantVoiceDelta = 100
	deviceYearCutoff      = 2022
)

// recommendations are shown to every subscriber
var recommendations = []string{
	"Try Mobitel's new Unlimited Data Plan for heavy users!",
	"Upgrade to a 5G device for better speeds.",
}

// alreadySummarized are left out of the pattern list appended to the summary
var alreadySummarized = map[string]bool{
	PatternDataSpike:    true,
	PatternLowMonths:    true,
	PatternHeavyVoice:   true,
	PatternFrequentSMS:  true,
	PatternVoiceSpikeUp: true,
}

// Recommendations returns the personalized recommendations for a profile
func Recommendations(*models.Profile) []string {
	return append([]string(nil), recommendations...)
}

// Analyze runs the usage rules over a profile
func Analyze(p *models.Profile) models.UsageAnalysis {
	a := models.UsageAnalysis{Patterns: []string{}, Suggestions: []string{}}
	u := p.MonthlyUsage

	if len(u.Total) > 0 {
		total := make([]float64, len(u.Total))
		for i, t := range u.Total {
			total[i] = float64(t)
		}
		avg := stats.Mean(total)
		if stats.Max(total) > avg {
			a.Patterns = append(a.Patterns, PatternDataSpike)
		}
		if stats.Min(total) < avg {
			a.Patterns = append(a.Patterns, PatternLowMonths)
		}
		switch {
		case avg > highUsageMB:
			a.Suggestions = append(a.Suggestions, SuggestHigherPlan)
		case avg < lowUsageMB:
			a.Suggestions = append(a.Suggestions, SuggestDowngrade)
		}
	}

	voice := monthlyVoice(u)
	totalVoice := stats.Sum(voice)
	totalSMS := stats.Sum(monthlySMS(u))
	if totalVoice > heavyVoiceMinutes {
		a.Patterns = append(a.Patterns, PatternHeavyVoice)
	}
	if totalSMS > frequentSMS {
		a.Patterns = append(a.Patterns, PatternFrequentSMS)
	}
	if totalVoice < lowVoiceMinutes && totalSMS < lowSMS {
		a.Patterns = append(a.Patterns, PatternLowActivity)
	}
	if trend := voiceTrend(voice); trend != "" {
		a.Patterns = append(a.Patterns, trend)
	}

	if year, err := strconv.Atoi(p.YearReleased); err == nil && year < deviceYearCutoff {
		a.Suggestions = append(a.Suggestions, SuggestUpgradeDevice)
	}
	return a
}

func voiceTrend(voice []float64) string {
	diffs := stats.Diff(voice)
	if len(diffs) == 0 {
		return ""
	}

	increasing, decreasing, stable := true, true, true
	for _, d := range diffs {
		increasing = increasing && d > 0
		decreasing = decreasing && d < 0
		stable = stable && math.Abs(d) < stableVoiceDelta
	}
	switch {
	case increasing:
		return PatternVoiceIncreasing
	case decreasing:
		return PatternVoiceDecreasing
	case stable:
		return PatternVoiceStable
	case stats.Max(diffs) > significantVoiceDelta:
		return PatternVoiceSpikeUp
	case stats.Min(diffs) < -significantVoiceDelta:
		return PatternVoiceSpikeDown
	}
	return ""
}

// monthlyVoice returns incoming+outgoing minutes per month
func monthlyVoice(u models.MonthlyUsage) []float64 {
	out := make([]float64, len(u.Months))
	for i := range u.Months {
		out[i] = at(u.OutgoingVoice, i) + at(u.IncomingVoice, i)
	}
	return out
}

// monthlySMS returns incoming+outgoing messages per month
func monthlySMS(u models.MonthlyUsage) []float64 {
	out := make([]float64, len(u.Months))
	for i := range u.Months {
		out[i] = float64(at(u.OutgoingSMS, i) + at(u.IncomingSMS, i))
	}
	return out
}

func at[T int64 | float64](s []T, i int) T {
	if i < len(s) {
		return s[i]
	}
	return 0
}

// Prompt builds the summarizer input from the analysis
func Prompt(a models.UsageAnalysis, recs []string) string {
	var b strings.Builder
	b.WriteString("\nPatterns detected:\n")
	b.WriteString(bullets(a.Patterns, "- None detected."))
	b.WriteString("\nSuggestions:\n")
	b.WriteString(bullets(a.Suggestions, "- None."))
	b.WriteString("\nPersonalized Recommendations:\n")
	b.WriteString(bullets(recs, "- None."))
	return b.String()
}

// Combine appends the patterns the summary does not already cover
func Combine(details, summary string, patterns []string) string {
	var extra []string
	for _, p := range patterns {
		if !alreadySummarized[p] {
			extra = append(extra, "- "+p)
		}
	}
	tail := "- None detected."
	if len(patterns) > 0 {
		tail = strings.Join(extra, "\n")
	}
	if tail == "" {
		return details + "\n" + summary
	}
	return details + "\n" + summary + "\n" + tail
}

func bullets(items []string, empty string) string {
	if len(items) == 0 {
		return empty
	}
	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = "- " + it
	}
	return strings.Join(lines, "\n")
}

// Details renders the identity, device, location and monthly usage of a profile
func Details(p *models.Profile) string {
	const rule = "==============================\n"
	const thin = "------------------------------\n"

	var b strings.Builder
	b.WriteString("\n" + rule + " MSISDN Detailed Data\n" + rule)
	field := func(label, value string) {
		fmt.Fprintf(&b, "%-18s: %s\n", label, value)
	}
	field("Mobile Number", p.MSISDN)
	field("IMSI", p.IMSI)
	field("IMEI", p.IMEI)
	field("SIM Type", p.SIMType)
	field("Connection Type", p.ConnectionType)
	field("Device", fmt.Sprintf("%s %s (%s)", p.Brand, p.Model, p.MarketingName))
	field("OS", p.OS)
	field("Year Released", p.YearReleased)
	field("Device Type", p.DeviceType)
	field("VoLTE", p.VoLTE)
	field("Technology", p.Technology)
	field("Primary HW Type", p.PrimaryHardwareType)
	field("TAC", p.TAC)
	field("Location", fmt.Sprintf("%s district, %s region", p.District, p.Region))
	field("Site Name", p.SiteName)
	field("Cell Code", p.CellCode)
	field("Coordinates", p.Lat.String()+", "+p.Lon.String())

	u := p.MonthlyUsage
	b.WriteString("\n" + thin + " Monthly Usage Summary\n" + thin)
	b.WriteString("Data Usage (MB) per Month:\n")
	if len(u.Months) > 0 && len(u.Total) > 0 {
		lines := make([]string, 0, len(u.Months))
		for i, m := range u.Months {
			if i >= len(u.Total) {
				break
			}
			lines = append(lines, fmt.Sprintf("  • %s: %d MB", m, u.Total[i]))
		}
		b.WriteString(strings.Join(lines, "\n"))
	} else {
		b.WriteString("  • No usage data.")
	}

	b.WriteString("\n\nVoice & SMS Activity per Month:\n")
	if len(u.Months) > 0 {
		voice, sms := monthlyVoice(u), monthlySMS(u)
		lines := make([]string, len(u.Months))
		for i, m := range u.Months {
			lines[i] = fmt.Sprintf("  • %s: %s mins voice, %d SMS", m,
				strconv.FormatFloat(voice[i], 'f', -1, 64), int64(sms[i]))
		}
		b.WriteString(strings.Join(lines, "\n"))
	} else {
		b.WriteString("  • No voice/SMS data.")
	}
	b.WriteString("\n" + rule)
	return b.String()
}

package summarizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jengzang/subscriber-insights-go/internal/models"
)

func profileWith(total []int64, outVoice, inVoice []float64, outSMS, inSMS []int64) *models.Profile {
	months := make([]string, len(total))
	for i := range months {
		months[i] = []string{"January 2025", "February 2025", "March 2025", "April 2025"}[i]
	}
	u := models.NewMonthlyUsage()
	u.Months = months
	u.Total = total
	u.OutgoingVoice = outVoice
	u.IncomingVoice = inVoice
	u.OutgoingSMS = outSMS
	u.IncomingSMS = inSMS
	return &models.Profile{
		MSISDN:       "94771234567",
		YearReleased: "2023",
		Lat:          models.NewCoord(6.93),
		Lon:          models.NewCoord(79.85),
		MonthlyUsage: u,
	}
}

func TestAnalyzeDataPatterns(t *testing.T) {
	p := profileWith([]int64{2000, 100, 3000}, []float64{1, 1, 1}, []float64{0, 0, 0}, []int64{0, 0, 0}, []int64{0, 0, 0})
	a := Analyze(p)

	assert.Contains(t, a.Patterns, PatternDataSpike)
	assert.Contains(t, a.Patterns, PatternLowMonths)
	assert.Contains(t, a.Patterns, PatternLowActivity)
	assert.Contains(t, a.Patterns, PatternVoiceStable)
	assert.Equal(t, []string{SuggestHigherPlan}, a.Suggestions)
}

func TestAnalyzeFlatUsage(t *testing.T) {
	p := profileWith([]int64{300, 300}, []float64{10, 200}, []float64{0, 0}, []int64{400, 200}, []int64{0, 0})
	p.YearReleased = "2019"
	a := Analyze(p)

	assert.NotContains(t, a.Patterns, PatternDataSpike)
	assert.NotContains(t, a.Patterns, PatternLowMonths)
	assert.Contains(t, a.Patterns, PatternFrequentSMS)
	assert.Contains(t, a.Patterns, PatternVoiceIncreasing)
	assert.Equal(t, []string{SuggestDowngrade, SuggestUpgradeDevice}, a.Suggestions)
}

func TestVoiceTrend(t *testing.T) {
	assert.Equal(t, PatternVoiceIncreasing, voiceTrend([]float64{1, 2, 3}))
	assert.Equal(t, PatternVoiceDecreasing, voiceTrend([]float64{3, 2, 1}))
	assert.Equal(t, PatternVoiceStable, voiceTrend([]float64{5, 5, 9}))
	assert.Equal(t, PatternVoiceSpikeUp, voiceTrend([]float64{0, 200, 150}))
	assert.Equal(t, PatternVoiceSpikeDown, voiceTrend([]float64{300, 150, 160}))
	assert.Equal(t, "", voiceTrend([]float64{0, 50, 20}))
	assert.Equal(t, "", voiceTrend([]float64{7}))
}

func TestAnalyzeNoUsage(t *testing.T) {
	p := &models.Profile{YearReleased: models.NotFound, MonthlyUsage: models.NewMonthlyUsage()}
	a := Analyze(p)
	assert.Equal(t, []string{PatternLowActivity}, a.Patterns)
	assert.Empty(t, a.Suggestions)
}

func TestPrompt(t *testing.T) {
	got := Prompt(models.UsageAnalysis{Patterns: []string{"A"}}, []string{"R1", "R2"})
	assert.Equal(t, "\nPatterns detected:\n- A\nSuggestions:\n- None.\nPersonalized Recommendations:\n- R1\n- R2", got)

	got = Prompt(models.UsageAnalysis{}, nil)
	assert.Contains(t, got, "Patterns detected:\n- None detected.")
}

func TestCombine(t *testing.T) {
	out := Combine("D", "S", []string{PatternDataSpike, PatternLowActivity})
	assert.Equal(t, "D\nS\n- "+PatternLowActivity, out)

	assert.Equal(t, "D\nS", Combine("D", "S", []string{PatternHeavyVoice}))
	assert.Equal(t, "D\nS\n- None detected.", Combine("D", "S", nil))
}

func TestDetails(t *testing.T) {
	p := profileWith([]int64{1024}, []float64{10.5}, []float64{2}, []int64{3}, []int64{4})
	p.Brand, p.Model, p.MarketingName = "Apple", "iPhone 12", "iPhone 12"
	out := Details(p)

	assert.Contains(t, out, " MSISDN Detailed Data\n")
	assert.Contains(t, out, "Mobile Number     : 94771234567\n")
	assert.Contains(t, out, "Device            : Apple iPhone 12 (iPhone 12)\n")
	assert.Contains(t, out, "Coordinates       : 6.93, 79.85\n")
	assert.Contains(t, out, "  • January 2025: 1024 MB")
	assert.Contains(t, out, "  • January 2025: 12.5 mins voice, 7 SMS")
	assert.True(t, strings.HasSuffix(out, "==============================\n"))

	empty := Details(&models.Profile{MonthlyUsage: models.NewMonthlyUsage()})
	assert.Contains(t, empty, "  • No usage data.")
	assert.Contains(t, empty, "  • No voice/SMS data.")
	assert.Contains(t, empty, "Coordinates       : Not Found, Not Found\n")
}

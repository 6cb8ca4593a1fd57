package models

// UsageAnalysis is the result of the rule-based usage pattern analysis
type UsageAnalysis struct {
	Patterns    []string `json:"patterns"`
	Suggestions []string `json:"suggestions"`
}

// Overview is the subscriber summary rendered on the overview page
type Overview struct {
	MSISDN          string   `json:"msisdn"`
	Details         string   `json:"details"`
	Summary         string   `json:"summary"`
	Patterns        []string `json:"patterns"`
	Suggestions     []string `json:"suggestions"`
	Recommendations []string `json:"recommendations"`
	GeneratedAt     string   `json:"generated_at"`
}

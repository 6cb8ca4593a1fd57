package service

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/jengzang/subscriber-insights-go/internal/cache"
	"github.com/jengzang/subscriber-insights-go/internal/models"
	"github.com/jengzang/subscriber-insights-go/internal/summarizer"
)

// SummarizerUnavailable is shown when no summarizer endpoint is configured
const SummarizerUnavailable = "AI summarizer not available. Please check model installation."

// OverviewService builds the AI overview of a subscriber
type OverviewService struct {
	profiles   *ProfileService
	summarizer summarizer.Summarizer
	cache      *cache.TTL[string, *models.Overview]
	clock      clockwork.Clock
	logger     logrus.FieldLogger
}

// NewOverviewService creates a new overview service. sum may be nil.
func NewOverviewService(profiles *ProfileService, sum summarizer.Summarizer, c *cache.TTL[string, *models.Overview], clock clockwork.Clock, logger logrus.FieldLogger) *OverviewService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &OverviewService{
		profiles:   profiles,
		summarizer: sum,
		cache:      c,
		clock:      clock,
		logger:     logger.WithField("service", "overview"),
	}
}

// Overview returns the cached overview of msisdn or builds it
func (s *OverviewService) Overview(ctx context.Context, msisdn string) (*models.Overview, error) {
	if ov, ok := s.cache.Get(msisdn); ok {
		return ov, nil
	}

	p, err := s.profiles.Lookup(ctx, msisdn)
	if err != nil {
		return nil, err
	}
	ov, ok := s.build(ctx, p)
	if ok {
		s.cache.Set(msisdn, ov)
	}
	return ov, nil
}

// build reports false when the summarizer failed so the result is not cached
func (s *OverviewService) build(ctx context.Context, p *models.Profile) (*models.Overview, bool) {
	analysis := summarizer.Analyze(p)
	recs := summarizer.Recommendations(p)
	details := summarizer.Details(p)

	ov := &models.Overview{
		MSISDN:          p.MSISDN,
		Details:         details,
		Patterns:        analysis.Patterns,
		Suggestions:     analysis.Suggestions,
		Recommendations: recs,
		GeneratedAt:     s.clock.Now().Format(time.RFC3339),
	}

	if s.summarizer == nil {
		ov.Summary = SummarizerUnavailable
		return ov, true
	}

	text, err := s.summarizer.Summarize(ctx, summarizer.Prompt(analysis, recs))
	if err != nil {
		s.logger.WithError(err).WithField("msisdn", p.MSISDN).Warn("Summarizer failed")
		ov.Summary = "[AI Summary Error] " + err.Error()
		return ov, false
	}
	ov.Summary = summarizer.Combine(details, text, analysis.Patterns)
	return ov, true
}

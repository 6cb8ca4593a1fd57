package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/jengzang/subscriber-insights-go/internal/dataset"
	"github.com/jengzang/subscriber-insights-go/internal/models"
	"github.com/jengzang/subscriber-insights-go/internal/repository"
)

const topModels = 5

// InsightsService summarises devices and subscribers of the subscriber file
type InsightsService struct {
	subscribers *dataset.SubscriberFile
	devices     *repository.DeviceRepository
	logger      logrus.FieldLogger
}

// NewInsightsService creates a new insights service
func NewInsightsService(subscribers *dataset.SubscriberFile, devices *repository.DeviceRepository, logger logrus.FieldLogger) *InsightsService {
	return &InsightsService{
		subscribers: subscribers,
		devices:     devices,
		logger:      logger.WithField("service", "insights"),
	}
}

// Insights counts unique IMEIs and MSISDNs and ranks device models by line count
func (s *InsightsService) Insights(ctx context.Context) (*models.Insights, error) {
	modelByTAC, err := s.devices.ModelsByTAC(ctx)
	if err != nil {
		return nil, err
	}

	imeis := make(map[string]struct{})
	msisdns := make(map[string]struct{})
	modelCounts := make(map[string]int)
	err = s.subscribers.EachDevice(ctx, func(r models.SubscriberRecord) error {
		imeis[r.IMEI] = struct{}{}
		msisdns[r.MSISDN] = struct{}{}
		if m := modelByTAC[dataset.NormalizeTAC(r.TAC)]; m != "" {
			modelCounts[m]++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatasetUnavailable, err)
	}

	ranked := make([]string, 0, len(modelCounts))
	for m := range modelCounts {
		ranked = append(ranked, m)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if modelCounts[ranked[i]] != modelCounts[ranked[j]] {
			return modelCounts[ranked[i]] > modelCounts[ranked[j]]
		}
		return ranked[i] < ranked[j]
	})
	if len(ranked) > topModels {
		ranked = ranked[:topModels]
	}

	subscribers := len(msisdns)
	if subscribers < 1 {
		subscribers = 1
	}
	return &models.Insights{
		TotalUniqueDevices:     len(imeis),
		TotalActiveSubscribers: len(msisdns),
		AverageDevicesPerUser:  dataset.Round(float64(len(imeis))/float64(subscribers), 2),
		Top5DeviceModels:       ranked,
	}, nil
}

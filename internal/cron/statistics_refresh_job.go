package cron

import (
	"context"
	"fmt"

	"github.com/angelmondragon/stockline-backend/internal/statistics"
	"github.com/angelmondragon/stockline-backend/pkg/logger"
)

type StatisticsRefreshJobParams struct {
	Logger     *logger.Logger
	Statistics statisticsRecomputer
}

type statisticsRecomputer interface {
	Recompute(ctx context.Context) (*statistics.StatisticsDTO, error)
}

func NewStatisticsRefreshJob(params StatisticsRefreshJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Statistics == nil {
		return nil, fmt.Errorf("statistics service required")
	}
	return &statisticsRefreshJob{logg: params.Logger, stats: params.Statistics}, nil
}

type statisticsRefreshJob struct {
	logg  *logger.Logger
	stats statisticsRecomputer
}

func (j *statisticsRefreshJob) Name() string { return "statistics_refresh" }

func (j *statisticsRefreshJob) Run(ctx context.Context) error {
	snap, err := j.stats.Recompute(ctx)
	if err != nil {
		return fmt.Errorf("statistics refresh: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"date":             snap.Date,
		"number_of_orders": snap.NumberOfOrders,
	})
	j.logg.Info(logCtx, "statistics refreshed")
	return nil
}

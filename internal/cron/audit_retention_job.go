package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/stockline-backend/pkg/logger"
	"github.com/angelmondragon/stockline-backend/pkg/metrics"
)

const defaultAuditLogRetention = 96 * time.Hour

type AuditLogRetentionJobParams struct {
	Logger    *logger.Logger
	Purger    auditLogPurger
	Metrics   *metrics.CronJobMetrics
	Retention time.Duration
}

type auditLogPurger interface {
	Purge(ctx context.Context, retention time.Duration) (int64, error)
}

func NewAuditLogRetentionJob(params AuditLogRetentionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Purger == nil {
		return nil, fmt.Errorf("audit log purger required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = defaultAuditLogRetention
	}
	return &auditLogRetentionJob{
		logg:      params.Logger,
		purger:    params.Purger,
		metrics:   params.Metrics,
		retention: retention,
	}, nil
}

type auditLogRetentionJob struct {
	logg      *logger.Logger
	purger    auditLogPurger
	metrics   *metrics.CronJobMetrics
	retention time.Duration
}

func (j *auditLogRetentionJob) Name() string { return "audit_log_retention" }

func (j *auditLogRetentionJob) Run(ctx context.Context) error {
	deleted, err := j.purger.Purge(ctx, j.retention)
	if err != nil {
		return fmt.Errorf("audit log retention: %w", err)
	}
	j.metrics.AddRowsAffected(j.Name(), deleted)
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"retention":    j.retention.String(),
		"rows_deleted": deleted,
	})
	j.logg.Info(logCtx, "audit log retention complete")
	return nil
}

package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/stockline-backend/api/responses"
	"github.com/angelmondragon/stockline-backend/internal/statistics"
	pkgerrors "github.com/angelmondragon/stockline-backend/pkg/errors"
	"github.com/angelmondragon/stockline-backend/pkg/logger"
)

// StatisticsService is the read and recompute surface of the statistics aggregator.
type StatisticsService interface {
	Recompute(ctx context.Context) (*statistics.StatisticsDTO, error)
	Latest(ctx context.Context) (*statistics.StatisticsDTO, error)
	TimeSeries(ctx context.Context) ([]statistics.DayCount, error)
	Report(ctx context.Context) ([]byte, string, error)
}

func statisticsUnavailable(svc StatisticsService) error {
	if svc == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "statistics unavailable")
	}
	return nil
}

func StatisticsLatest(svc StatisticsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := statisticsUnavailable(svc); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		latest, err := svc.Latest(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, latest)
	}
}

func StatisticsTimeSeries(svc StatisticsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := statisticsUnavailable(svc); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		series, err := svc.TimeSeries(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, series)
	}
}

// StatisticsUpdate recomputes today's snapshot from every stored order.
func StatisticsUpdate(svc StatisticsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := statisticsUnavailable(svc); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		snapshot, err := svc.Recompute(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snapshot)
	}
}

func StatisticsReport(svc StatisticsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := statisticsUnavailable(svc); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		body, filename, err := svc.Report(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteAttachment(w, "application/pdf", filename, body)
	}
}

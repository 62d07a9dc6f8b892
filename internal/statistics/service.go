package statistics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/stockline-backend/internal/orders"
	"github.com/angelmondragon/stockline-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/stockline-backend/pkg/errors"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

// timeSeriesDays is how far back the order time series reaches.
const timeSeriesDays = 30

type orderSource interface {
	List(ctx context.Context, filter orders.ListFilter) ([]models.Order, error)
}

// Service recomputes and serves the business summary.
type Service struct {
	repo   *Repository
	orders orderSource
	now    func() time.Time
}

// NewService builds the statistics service.
func NewService(repo *Repository, orderSrc orderSource) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("statistics repository required")
	}
	if orderSrc == nil {
		return nil, fmt.Errorf("order source required")
	}
	return &Service{
		repo:   repo,
		orders: orderSrc,
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

// Recompute scans every order and upserts today's snapshot.
func (s *Service) Recompute(ctx context.Context) (*StatisticsDTO, error) {
	all, err := s.orders.List(ctx, orders.ListFilter{})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load orders")
	}
	products, errProducts := s.repo.CountProducts(ctx)
	parties, errParties := s.repo.CountParties(ctx)
	if err := multierr.Combine(errProducts, errParties); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count catalog")
	}

	today := s.now()
	snap := Summarize(today, all, Totals{Products: int(products), Parties: int(parties)})
	if err := s.repo.Upsert(ctx, &snap); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store statistics")
	}
	stored, err := s.repo.FindByDate(ctx, snap.Date)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload statistics")
	}
	return FromModel(stored), nil
}

// Latest returns the newest snapshot.
func (s *Service) Latest(ctx context.Context) (*StatisticsDTO, error) {
	snap, err := s.repo.Latest(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no statistics available")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load statistics")
	}
	return FromModel(snap), nil
}

// TimeSeries counts orders per UTC day over the last 30 days, oldest first.
// Days without orders are omitted.
func (s *Service) TimeSeries(ctx context.Context) ([]DayCount, error) {
	since := s.now().AddDate(0, 0, -timeSeriesDays)
	stamps, err := s.repo.OrderTimestampsSince(ctx, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order time series")
	}
	series := make([]DayCount, 0)
	for _, ts := range stamps {
		day := ts.UTC().Format(dayLayout)
		if n := len(series); n > 0 && series[n-1].Date == day {
			series[n-1].Count++
			continue
		}
		series = append(series, DayCount{Date: day, Count: 1})
	}
	return series, nil
}

// EnsureInitialized writes a placeholder snapshot when none exists. It reports
// whether one was written.
func (s *Service) EnsureInitialized(ctx context.Context) (bool, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count statistics")
	}
	if n > 0 {
		return false, nil
	}
	snap := Empty(s.now())
	if err := s.repo.Upsert(ctx, &snap); err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "initialize statistics")
	}
	return true, nil
}

// Report renders the latest snapshot and the time series as a PDF.
func (s *Service) Report(ctx context.Context) ([]byte, string, error) {
	latest, err := s.Latest(ctx)
	if err != nil {
		return nil, "", err
	}
	series, err := s.TimeSeries(ctx)
	if err != nil {
		return nil, "", err
	}
	now := s.now()
	pdfBytes, err := renderReportPDF(latest, series, now)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render statistics report")
	}
	return pdfBytes, fmt.Sprintf("statistics-%s.pdf", now.Format(dayLayout)), nil
}

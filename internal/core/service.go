package core

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/mlipski/usagewidget/internal/activity"
	"github.com/mlipski/usagewidget/internal/credentials"
	"github.com/mlipski/usagewidget/internal/quota"
)

// QuotaFetcher is the remote side of a refresh; *quota.Client implements it.
type QuotaFetcher interface {
	Fetch(ctx context.Context, token credentials.Token) (*quota.UsageResponse, error)
}

// ActivityReader is the local side; *activity.Reader implements it.
type ActivityReader interface {
	Read() activity.Log
}

// Service composes credential resolution, the remote quota fetch and local
// activity aggregation into one WidgetData per request.
type Service struct {
	cache    *credentials.SessionCache
	fetcher  QuotaFetcher
	activity ActivityReader
	log      zerolog.Logger
	now      func() time.Time
}

func NewService(cache *credentials.SessionCache, fetcher QuotaFetcher, reader ActivityReader, logger zerolog.Logger) *Service {
	return &Service{
		cache:    cache,
		fetcher:  fetcher,
		activity: reader,
		log:      logger,
		now:      time.Now,
	}
}

// GetUsage never fails: every internal failure lands in WidgetData.Error so
// the widget always has something to render.
func (s *Service) GetUsage(ctx context.Context) WidgetData {
	var data WidgetData

	token, err := s.cache.GetOrResolve()
	if err != nil {
		data.Error = err.Error()
	} else if usage, err := s.fetcher.Fetch(ctx, token); err != nil {
		var qerr *quota.Error
		if errors.As(err, &qerr) && qerr.AuthFailure() {
			// Cleared before returning so the next request observes the
			// empty slot and re-resolves.
			s.cache.Invalidate()
			s.log.Debug().Int("status", qerr.Status).Msg("session credential invalidated after auth failure")
		}
		data.Error = err.Error()
	} else {
		data.FiveHour = metricFrom(usage.FiveHour)
		data.SevenDay = metricFrom(usage.SevenDay)
		data.SevenDaySonnet = metricFrom(usage.SevenDaySonnet)
		data.SevenDayOpus = metricFrom(usage.SevenDayOpus)
	}

	// Local stats are best-effort supplementary data, included whether or
	// not the remote call succeeded.
	data.TokenStats = activity.Aggregate(s.activity.Read(), s.now())

	data.LastUpdated = s.now().UTC().Format(time.RFC3339)
	return data
}

func metricFrom(w *quota.Window) *UsageMetric {
	if w == nil {
		return nil
	}
	return &UsageMetric{Percent: w.Utilization, ResetsAt: w.ResetsAt}
}

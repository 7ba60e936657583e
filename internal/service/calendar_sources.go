package service

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/Freeeeeet/availability_bot/internal/calendar"
	"github.com/Freeeeeet/availability_bot/internal/model"
	"go.uber.org/zap"
)

// SourceBuilder turns a stored calendar source into a live one.
type SourceBuilder interface {
	Build(src *model.CalendarSource, loc *time.Location) (calendar.Source, error)
}

// CalendarSourceFactory builds ICS and Google sources, optionally wrapped
// in a cache.
type CalendarSourceFactory struct {
	Google   calendar.GoogleOAuth
	Store    calendar.Store // nil disables caching
	CacheTTL time.Duration
	Logger   *zap.Logger
}

func (f *CalendarSourceFactory) Build(src *model.CalendarSource, loc *time.Location) (calendar.Source, error) {
	var live calendar.Source
	switch src.Kind {
	case model.CalendarSourceICS:
		live = calendar.NewICSSource(src.ID.String(), src.URL, loc)
	case model.CalendarSourceGoogle:
		if !f.Google.Enabled() {
			return nil, fmt.Errorf("google calendar is not configured")
		}
		live = calendar.NewGoogleSource(src.ID.String(), f.Google, src.RefreshToken, loc)
	default:
		return nil, fmt.Errorf("unknown calendar source kind %q", src.Kind)
	}

	if f.Store == nil {
		return live, nil
	}
	return calendar.NewCachedSource(live, f.Store, f.CacheTTL, f.Logger), nil
}

type CalendarService struct {
	sourceRepo CalendarSourceStore
	logger     *zap.Logger
}

func NewCalendarService(sourceRepo CalendarSourceStore, logger *zap.Logger) *CalendarService {
	return &CalendarService{
		sourceRepo: sourceRepo,
		logger:     logger,
	}
}

// AddICS subscribes the owner to an ICS feed. webcal:// links are accepted.
func (s *CalendarService) AddICS(ctx context.Context, ownerID int64, rawURL string) (*model.CalendarSource, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return nil, ErrInvalidCalendarURL
	}
	switch u.Scheme {
	case "webcal":
		u.Scheme = "https"
	case "http", "https":
	default:
		return nil, ErrInvalidCalendarURL
	}

	src := &model.CalendarSource{
		OwnerID:  ownerID,
		Kind:     model.CalendarSourceICS,
		URL:      u.String(),
		IsActive: true,
	}
	if err := s.sourceRepo.Create(ctx, src); err != nil {
		return nil, fmt.Errorf("add ics source: %w", err)
	}

	s.logger.Info("Calendar source added",
		zap.Int64("owner_id", ownerID),
		zap.String("kind", string(src.Kind)),
		zap.String("source_id", src.ID.String()))
	return src, nil
}

// ListSources returns the owner's active sources
func (s *CalendarService) ListSources(ctx context.Context, ownerID int64) ([]*model.CalendarSource, error) {
	sources, err := s.sourceRepo.GetActiveByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list calendar sources: %w", err)
	}
	return sources, nil
}

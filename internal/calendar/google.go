package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Freeeeeet/availability_bot/internal/availability"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	googlePrimaryCalendar = "primary"
	googleMaxResults      = 2500
)

// GoogleOAuth holds the OAuth client the bot was registered with.
type GoogleOAuth struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Config returns the oauth2 configuration for read-only calendar access.
func (g GoogleOAuth) Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     g.ClientID,
		ClientSecret: g.ClientSecret,
		RedirectURL:  g.RedirectURL,
		Endpoint:     google.Endpoint,
		Scopes:       []string{gcal.CalendarEventsReadonlyScope},
	}
}

// Enabled reports whether client credentials are configured.
func (g GoogleOAuth) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != ""
}

// GoogleSource reads busy time from the owner's primary Google calendar.
type GoogleSource struct {
	ID       string
	Location *time.Location
	// CalendarID defaults to the primary calendar.
	CalendarID string

	opts []option.ClientOption
}

// NewGoogleSource creates a source authorised by a stored refresh token.
func NewGoogleSource(id string, oauth GoogleOAuth, refreshToken string, loc *time.Location) *GoogleSource {
	ts := oauth.Config().TokenSource(context.Background(), &oauth2.Token{RefreshToken: refreshToken})
	return NewGoogleSourceWithOptions(id, loc, option.WithTokenSource(ts))
}

// NewGoogleSourceWithOptions creates a source with explicit client options.
func NewGoogleSourceWithOptions(id string, loc *time.Location, opts ...option.ClientOption) *GoogleSource {
	if loc == nil {
		loc = time.UTC
	}
	return &GoogleSource{
		ID:         id,
		Location:   loc,
		CalendarID: googlePrimaryCalendar,
		opts:       opts,
	}
}

func (s *GoogleSource) Name() string {
	return "google:" + s.ID
}

// Busy lists the expanded events between from and to.
func (s *GoogleSource) Busy(ctx context.Context, from, to time.Time) ([]availability.Interval, error) {
	svc, err := gcal.NewService(ctx, s.opts...)
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}

	call := svc.Events.List(s.CalendarID).
		Context(ctx).
		SingleEvents(true).
		ShowDeleted(false).
		EventTypes("default").
		TimeMin(from.UTC().Format(time.RFC3339)).
		TimeMax(to.UTC().Format(time.RFC3339)).
		MaxResults(googleMaxResults)

	var busy []availability.Interval
	err = call.Pages(ctx, func(page *gcal.Events) error {
		for _, item := range page.Items {
			if item == nil || item.Status == "cancelled" || item.Transparency == "transparent" {
				continue
			}
			iv, err := googleInterval(item, s.Location)
			if err != nil {
				continue
			}
			busy = append(busy, iv)
		}
		return nil
	})
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusUnauthorized {
			return nil, fmt.Errorf("list google events: unauthorized: %w", err)
		}
		return nil, fmt.Errorf("list google events: %w", err)
	}

	return clip(busy, from, to), nil
}

// googleInterval converts an event into an absolute interval. All-day events
// cover [start date 00:00, end date 00:00) in loc.
func googleInterval(ev *gcal.Event, loc *time.Location) (availability.Interval, error) {
	if ev.Start == nil || ev.End == nil {
		return availability.Interval{}, errors.New("event without start or end")
	}

	if ev.Start.Date != "" {
		start, err := time.ParseInLocation("2006-01-02", ev.Start.Date, loc)
		if err != nil {
			return availability.Interval{}, fmt.Errorf("parse start date: %w", err)
		}
		end := start.AddDate(0, 0, 1)
		if ev.End.Date != "" {
			if e, err := time.ParseInLocation("2006-01-02", ev.End.Date, loc); err == nil && e.After(start) {
				end = e
			}
		}
		return availability.Interval{Start: start, End: end}, nil
	}

	start, err := time.Parse(time.RFC3339, ev.Start.DateTime)
	if err != nil {
		return availability.Interval{}, fmt.Errorf("parse start: %w", err)
	}
	end, err := time.Parse(time.RFC3339, ev.End.DateTime)
	if err != nil {
		return availability.Interval{}, fmt.Errorf("parse end: %w", err)
	}
	return availability.Interval{Start: start, End: end}, nil
}

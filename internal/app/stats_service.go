package app

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"focusflow/internal/domain"
)

const (
	// DefaultStatsDays is the trailing window used when none is requested.
	DefaultStatsDays = 7
	maxStatsDays     = 366
	dayLayout        = "2006-01-02"
)

// StatsService derives analytics from a user's stored session history.
// Every query recomputes from the full history; nothing is cached.
type StatsService struct {
	sessions domain.SessionRepository
	loc      *time.Location
	now      func() time.Time
}

// StatsOption configures a StatsService.
type StatsOption func(*StatsService)

// WithStatsClock overrides the time source used for "today" and the window.
func WithStatsClock(now func() time.Time) StatsOption {
	return func(s *StatsService) { s.now = now }
}

// NewStatsService creates a StatsService that buckets days in loc.
// A nil loc means the server's local time zone.
func NewStatsService(sessions domain.SessionRepository, loc *time.Location, opts ...StatsOption) *StatsService {
	if loc == nil {
		loc = time.Local
	}
	s := &StatsService{sessions: sessions, loc: loc, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location returns the time zone used for calendar days.
func (s *StatsService) Location() *time.Location {
	return s.loc
}

// TodaySummary aggregates the work sessions started today.
type TodaySummary struct {
	CompletedSessions     int `json:"completedSessions"`
	TotalFocusTimeSeconds int `json:"totalFocusTimeSeconds"`
	TotalFocusTimeMinutes int `json:"totalFocusTimeMinutes"`
}

// TodayStats is the result of Today.
type TodayStats struct {
	Sessions []domain.Session `json:"sessions"`
	Summary  TodaySummary     `json:"summary"`
}

// DailyBucket aggregates one calendar day.
type DailyBucket struct {
	Date              string `json:"date"`
	FocusMinutes      int    `json:"focusMinutes"`
	CompletedSessions int    `json:"completedSessions"`
	AbortedSessions   int    `json:"abortedSessions"`
}

// RangeSummary aggregates the work sessions of a trailing window.
type RangeSummary struct {
	TotalWorkSessions     int `json:"totalWorkSessions"`
	CompletedWorkSessions int `json:"completedWorkSessions"`
	AbortedWorkSessions   int `json:"abortedWorkSessions"`
	TotalFocusTimeMinutes int `json:"totalFocusTimeMinutes"`
	CompletionRate        int `json:"completionRate"`
}

// RangeStats is the result of Range.
type RangeStats struct {
	DailyData []DailyBucket `json:"dailyData"`
	Summary   RangeSummary  `json:"summary"`
}

// Today returns the sessions started since local midnight, newest first,
// with a summary of their work sessions.
func (s *StatsService) Today(ctx context.Context, userID int64) (*TodayStats, error) {
	all, err := s.sessions.ListSessions(ctx, userID, 0)
	if err != nil {
		return nil, err
	}

	now := s.now().In(s.loc)
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)

	out := &TodayStats{Sessions: make([]domain.Session, 0)}
	for _, sess := range all {
		if sess.StartTime.Before(midnight) {
			continue
		}
		out.Sessions = append(out.Sessions, sess)
		if sess.Type != domain.SessionWork {
			continue
		}
		if sess.Completed {
			out.Summary.CompletedSessions++
		}
		if sess.Duration != nil {
			out.Summary.TotalFocusTimeSeconds += *sess.Duration
		}
	}
	out.Summary.TotalFocusTimeMinutes = domain.SecondsToMinutes(out.Summary.TotalFocusTimeSeconds)
	return out, nil
}

// Range returns one bucket per calendar day for the trailing window of days
// ending today, plus a summary of the window's work sessions. days is
// clamped to 366.
func (s *StatsService) Range(ctx context.Context, userID int64, days int) (*RangeStats, error) {
	if days < 1 {
		return nil, fmt.Errorf("%w: days must be >= 1", domain.ErrValidation)
	}
	if days > maxStatsDays {
		days = maxStatsDays
	}

	all, err := s.sessions.ListSessions(ctx, userID, 0)
	if err != nil {
		return nil, err
	}

	now := s.now().In(s.loc)
	cutoff := now.AddDate(0, 0, -days)

	buckets := make(map[string]*DailyBucket, days)
	for i := days - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i).Format(dayLayout)
		buckets[day] = &DailyBucket{Date: day}
	}

	var sum RangeSummary
	var focusSeconds int
	for _, sess := range all {
		if sess.StartTime.Before(cutoff) {
			continue
		}

		if b, ok := buckets[sess.StartTime.In(s.loc).Format(dayLayout)]; ok {
			if sess.Completed {
				b.CompletedSessions++
			}
			if sess.Aborted {
				b.AbortedSessions++
			}
			if sess.Type == domain.SessionWork && sess.Duration != nil {
				b.FocusMinutes += domain.SecondsToMinutes(*sess.Duration)
			}
		}

		if sess.Type != domain.SessionWork {
			continue
		}
		sum.TotalWorkSessions++
		if sess.Completed {
			sum.CompletedWorkSessions++
		}
		if sess.Aborted {
			sum.AbortedWorkSessions++
		}
		if sess.Duration != nil {
			focusSeconds += *sess.Duration
		}
	}

	sum.TotalFocusTimeMinutes = domain.SecondsToMinutes(focusSeconds)
	if sum.TotalWorkSessions > 0 {
		sum.CompletionRate = int(math.Round(float64(sum.CompletedWorkSessions) / float64(sum.TotalWorkSessions) * 100))
	}

	daily := make([]DailyBucket, 0, len(buckets))
	for _, b := range buckets {
		daily = append(daily, *b)
	}
	sort.Slice(daily, func(i, j int) bool { return daily[i].Date < daily[j].Date })

	return &RangeStats{DailyData: daily, Summary: sum}, nil
}

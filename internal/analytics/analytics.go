// Package analytics aggregates per-user query logs into the dashboard's
// traffic summary: totals, a bucketed 24-hour series and top domains.
package analytics

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/brachiGH/firedns-dashboard/internal/models"
	"github.com/brachiGH/firedns-dashboard/internal/types"
)

const (
	// Window is the period a summary covers, ending at the requested instant.
	Window = 24 * time.Hour
	// BucketCount splits the window into eight three-hour buckets.
	BucketCount = 8
	// TopDomains caps the resolved and blocked leaderboards.
	TopDomains = 6

	bucketSize = Window / BucketCount
)

// Bucket is one three-hour slice of the series, labelled with the wall
// clock of its start. The JSON keys are the dashboard client's chart
// contract.
type Bucket struct {
	Label   string `json:"name"`
	Total   int64  `json:"total"`
	Blocked int64  `json:"blocked"`
}

// DomainCount ranks one domain on a leaderboard.
type DomainCount struct {
	Domain string `json:"domain"`
	Count  int64  `json:"count"`
}

// Summary is the aggregate served to the dashboard.
type Summary struct {
	TotalQueries   int64         `json:"totalQueries"`
	BlockedQueries int64         `json:"blockedQueries"`
	BlockedPercent float64       `json:"blockedPercent"`
	Series         []Bucket      `json:"queryChartData"`
	TopResolved    []DomainCount `json:"resolvedDomains"`
	TopBlocked     []DomainCount `json:"blockedDomains"`
}

// Summarize aggregates the entries that fall inside the 24-hour window
// ending at now. Entries outside the window are ignored.
func Summarize(entries []models.QueryLogEntry, now time.Time) *Summary {
	start := now.Add(-Window)

	summary := &Summary{
		Series: make([]Bucket, BucketCount),
	}
	for i := range summary.Series {
		summary.Series[i].Label = start.Add(time.Duration(i) * bucketSize).Format("15:04")
	}

	resolved := make(map[string]int64)
	blocked := make(map[string]int64)

	for _, e := range entries {
		if e.Timestamp.Before(start) || e.Timestamp.After(now) {
			continue
		}

		idx := int(e.Timestamp.Sub(start) / bucketSize)
		if idx >= BucketCount {
			idx = BucketCount - 1
		}

		summary.TotalQueries++
		summary.Series[idx].Total++
		if e.Status == types.StatusBlocked {
			summary.BlockedQueries++
			summary.Series[idx].Blocked++
			blocked[e.Domain]++
		} else {
			resolved[e.Domain]++
		}
	}

	if summary.TotalQueries > 0 {
		percent := float64(summary.BlockedQueries) / float64(summary.TotalQueries) * 100
		summary.BlockedPercent = math.Round(percent*100) / 100
	}

	summary.TopResolved = top(resolved, TopDomains)
	summary.TopBlocked = top(blocked, TopDomains)

	return summary
}

// top returns the n highest counts, ties broken alphabetically so output is
// stable.
func top(counts map[string]int64, n int) []DomainCount {
	ranked := make([]DomainCount, 0, len(counts))
	for domain, count := range counts {
		ranked = append(ranked, DomainCount{Domain: domain, Count: count})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Domain < ranked[j].Domain
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// LogSource is the slice of the query log store the service needs.
type LogSource interface {
	ListSince(ctx context.Context, userID string, since time.Time, limit int) ([]models.QueryLogEntry, error)
}

// Entries fetched per summary. Bounded so one noisy client cannot make the
// dashboard endpoint scan without limit.
const fetchLimit = 100000

// Service serves summaries and raw logs from a log store.
type Service struct {
	logs LogSource
}

func NewService(logs LogSource) *Service {
	return &Service{logs: logs}
}

// Summary aggregates the user's last 24 hours of traffic.
func (s *Service) Summary(ctx context.Context, userID string, now time.Time) (*Summary, error) {
	entries, err := s.logs.ListSince(ctx, userID, now.Add(-Window), fetchLimit)
	if err != nil {
		return nil, err
	}
	return Summarize(entries, now), nil
}

// RecentLogs returns the user's raw log entries, most recent first.
func (s *Service) RecentLogs(ctx context.Context, userID string, now time.Time, limit int) ([]models.QueryLogEntry, error) {
	return s.logs.ListSince(ctx, userID, now.Add(-Window), limit)
}

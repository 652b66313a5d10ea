package services

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/cybermitra/guardian-api/models"
)

const (
	recentCaseLimit  = 5
	recentAlertLimit = 5
)

// Dashboard builds the landing page rollup. It owns no state.
type Dashboard struct {
	Cases  *CaseStore
	Alerts *Alerts
	Users  *Users
}

// GetDashboardData fetches every source concurrently. A failed source
// contributes its zero value and a log line; the rollup itself never fails.
func (d *Dashboard) GetDashboardData(ctx context.Context) models.DashboardData {
	var (
		wg           sync.WaitGroup
		cases        []models.Case
		alertStats   models.AlertStats
		userCount    int64
		recentAlerts []models.Alert
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		var err error
		if cases, err = d.Cases.GetAllCases(ctx); err != nil {
			zap.S().Warnw("dashboard: failed to fetch cases", "error", err)
			cases = nil
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if alertStats, err = d.Alerts.AlertStats(ctx); err != nil {
			zap.S().Warnw("dashboard: failed to fetch alert stats", "error", err)
			alertStats = models.AlertStats{}
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if userCount, err = d.Users.DB.CountDocuments(ctx, bson.M{}); err != nil {
			zap.S().Warnw("dashboard: failed to count users", "error", err)
			userCount = 0
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if recentAlerts, err = d.Alerts.RecentAlerts(ctx, recentAlertLimit); err != nil {
			zap.S().Warnw("dashboard: failed to fetch recent alerts", "error", err)
			recentAlerts = nil
		}
	}()
	wg.Wait()

	if recentAlerts == nil {
		recentAlerts = []models.Alert{}
	}

	return models.DashboardData{
		Stats: models.DashboardStats{
			Cases:  CaseStatsFor(cases),
			Alerts: alertStats,
			Users:  models.UserStats{Total: int(userCount)},
		},
		RecentCases:  RecentOpenCases(cases, recentCaseLimit),
		RecentAlerts: recentAlerts,
	}
}

// CaseStatsFor counts cases by status and sums recovered amounts on closed
// and archived cases. A fully recovered case counts its whole amount involved.
func CaseStatsFor(cases []models.Case) models.CaseStats {
	stats := models.CaseStats{Total: len(cases)}
	for _, c := range cases {
		switch c.Status {
		case models.CaseStatusActive:
			stats.Active++
		case models.CaseStatusClosed:
			stats.Closed++
		case models.CaseStatusUnverified:
			stats.Unverified++
		}
		if c.Status != models.CaseStatusClosed && c.Status != models.CaseStatusArchived {
			continue
		}
		if c.Recovery == nil {
			continue
		}
		if c.Recovery.FullyRecovered {
			stats.TotalRecovered += c.AmountInvolved
		} else if c.Recovery.AmountRecovered != nil {
			stats.TotalRecovered += *c.Recovery.AmountRecovered
		}
	}
	return stats
}

// RecentOpenCases returns up to limit active or unverified cases, most recently opened first
func RecentOpenCases(cases []models.Case, limit int) []models.Case {
	open := make([]models.Case, 0, limit)
	for _, c := range cases {
		if c.Status == models.CaseStatusActive || c.Status == models.CaseStatusUnverified {
			open = append(open, c)
		}
	}
	sort.SliceStable(open, func(i, j int) bool { return open[i].DateOpened > open[j].DateOpened })
	if len(open) > limit {
		open = open[:limit]
	}
	return open
}

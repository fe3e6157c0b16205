package models

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/majanidev/insurance_backend/config"
	"github.com/majanidev/insurance_backend/policy"
)

const dashboardCacheKey = "DashboardStats"

// DashboardSummary is the /api/dashboard/stats payload. PendingClaims is
// a placeholder until a claims module exists; it is always 0 for now.
type DashboardSummary struct {
	TotalClients     int             `json:"total_clients"`
	ActivePolicies   int             `json:"active_policies"`
	PendingClaims    int             `json:"pending_claims"`
	TotalCommissions decimal.Decimal `json:"total_commissions"`
	RecentClients    []*ClientRow    `json:"recent_clients"`
}

// GetDashboardStats aggregates over every stored client. Statuses are
// evaluated against now at read time, so the summary is short-lived:
// the cache TTL keeps stale counts from surviving a day boundary.
func GetDashboardStats(ctx context.Context, now time.Time) (*DashboardSummary, error) {
	summary := DashboardSummary{}
	exists, err := config.GetRedisObject(dashboardCacheKey, &summary)
	if err != nil {
		return nil, err
	}
	if exists {
		return &summary, nil
	}

	db := config.GetDB()
	var clients []Client
	if err := db.WithContext(ctx).Model(&Client{}).Find(&clients).Error; err != nil {
		return nil, err
	}

	records := make([]policy.Record, len(clients))
	for i := range clients {
		records[i] = clients[i].PolicyRecord()
	}
	stats := policy.Aggregate(records, now)

	summary = DashboardSummary{
		TotalClients:     stats.Total,
		ActivePolicies:   stats.Active,
		PendingClaims:    0,
		TotalCommissions: stats.CommissionSum,
		RecentClients:    RecentClients(clients, now, 5),
	}

	_ = config.SetRedisObject(dashboardCacheKey, summary, 5*time.Minute)
	return &summary, nil
}

// removeDashboardCache invalidates the cached summary after any client
// write. Errors are ignored; the TTL bounds the staleness either way.
func removeDashboardCache() {
	_ = config.RemoveRedisKey(dashboardCacheKey)
}

package workflow

import (
	"context"
	"time"

	"github.com/bsm/redislock"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/majanidev/insurance_backend/config"
	"github.com/majanidev/insurance_backend/models"
	"github.com/majanidev/insurance_backend/policy"
	"github.com/majanidev/insurance_backend/utils"
)

const reminderScanLockKey = "Lock:RenewalReminderScan"

// ReminderDispatcher periodically scans for policies inside the renewal
// window and publishes one reminder event per policy per renewal date.
// A redis lock keeps concurrent replicas from double-scanning, and a
// SETNX dedupe key keeps a policy from being reminded twice for the
// same renewal.
type ReminderDispatcher struct {
	DB           *gorm.DB
	Logger       *logrus.Logger
	Tracer       trace.Tracer
	DispatcherID string

	Interval time.Duration
	LockTTL  time.Duration
	DedupTTL time.Duration

	// Publish and Now are injectable for tests.
	Publish       func(ctx context.Context, msg config.ReminderMessage) (string, error)
	Now           func() time.Time
	AlertsEnabled func(ctx context.Context, userId int) bool
}

func NewReminderDispatcher(db *gorm.DB, logger *logrus.Logger) *ReminderDispatcher {
	return &ReminderDispatcher{
		DB:            db,
		Logger:        logger,
		Tracer:        otel.Tracer("majani-insurance/workflow"),
		DispatcherID:  uuid.NewString(),
		Interval:      time.Hour,
		LockTTL:       5 * time.Minute,
		DedupTTL:      48 * time.Hour,
		Publish:       config.PublishReminder,
		Now:           time.Now,
		AlertsEnabled: models.ExpiryAlertsEnabled,
	}
}

func (d *ReminderDispatcher) Run(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		d.scanOnce(ctx)
		select {
		case <-ctx.Done():
			return
		case <-time.After(d.Interval):
		}
	}
}

func (d *ReminderDispatcher) scanOnce(ctx context.Context) {
	if d.DB == nil {
		return
	}
	if d.Tracer != nil {
		var span trace.Span
		ctx, span = d.Tracer.Start(ctx, "renewal-reminder-scan")
		defer span.End()
	}

	locker := config.GetRedisLock()
	if locker != nil {
		lock, err := locker.Obtain(ctx, reminderScanLockKey, d.LockTTL, nil)
		if err == redislock.ErrNotObtained {
			return
		}
		if err != nil {
			config.LogError(d.Logger, "renewalReminder.go", "scanOnce", "ObtainLock", reminderScanLockKey, err)
			return
		}
		defer lock.Release(context.Background())
	}

	var clients []models.Client
	if err := d.DB.WithContext(ctx).Model(&models.Client{}).Find(&clients).Error; err != nil {
		config.LogError(d.Logger, "renewalReminder.go", "scanOnce", "LoadClients", nil, err)
		return
	}

	now := d.Now().UTC()
	correlationId, _ := utils.GetCorrelationIdFromContext(ctx)
	if correlationId == "" {
		correlationId = uuid.NewString()
	}

	due := DueReminders(clients, now, correlationId)
	sent := 0
	for _, msg := range due {
		if d.AlertsEnabled != nil && !d.AlertsEnabled(ctx, msg.AgentId) {
			continue
		}
		claimed, err := config.SetRedisValueNX(reminderDedupKey(msg), d.DispatcherID, d.DedupTTL)
		if err != nil {
			config.LogError(d.Logger, "renewalReminder.go", "scanOnce", "DedupClaim", msg.ClientId, err)
			continue
		}
		if !claimed {
			continue
		}
		if _, err := d.Publish(ctx, msg); err != nil {
			// release the claim so the next scan retries this policy
			_ = config.RemoveRedisKey(reminderDedupKey(msg))
			config.LogError(d.Logger, "renewalReminder.go", "scanOnce", "Publish", msg.ClientId, err)
			continue
		}
		sent++
	}

	if d.Logger != nil && sent > 0 {
		d.Logger.WithFields(logrus.Fields{
			"field":          "ReminderDispatcher",
			"dispatcher_id":  d.DispatcherID,
			"due":            len(due),
			"sent":           sent,
			"correlation_id": correlationId,
		}).Info("renewal reminders published")
	}
}

func reminderDedupKey(msg config.ReminderMessage) string {
	return "ReminderSent:" + msg.ClientId + ":" + msg.RenewalDate.Format("2006-01-02")
}

// DueReminders selects the policies currently flagged ExpiringSoon and
// builds their reminder payloads. Pure: same clients + now always give
// the same selection, in input order.
func DueReminders(clients []models.Client, now time.Time, correlationId string) []config.ReminderMessage {
	var due []config.ReminderMessage
	for i := range clients {
		c := &clients[i]
		if policy.EvaluateStatus(c.StartDate, c.RenewalDate, now) != policy.StatusExpiringSoon {
			continue
		}
		renewal := policy.ResolveRenewal(c.StartDate, c.RenewalDate)
		days, _ := policy.DaysUntilRenewal(c.StartDate, c.RenewalDate, now)
		due = append(due, config.ReminderMessage{
			ClientId:      c.ID,
			FullName:      c.FullName,
			Phone:         c.Phone,
			VehicleNumber: c.VehicleNumber,
			PolicyType:    string(c.PolicyType),
			RenewalDate:   renewal,
			DaysLeft:      days,
			AgentId:       c.CreatedBy,
			CorrelationId: correlationId,
		})
	}
	return due
}

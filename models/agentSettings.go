package models

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/majanidev/insurance_backend/config"
	"github.com/majanidev/insurance_backend/utils"
)

// AgentSettings holds the per-agent business details and UI preferences
// from the settings page. One row per user, created lazily on first save.
type AgentSettings struct {
	UserId                int             `gorm:"primary_key" json:"user_id"`
	CompanyName           string          `gorm:"size:100" json:"company_name"`
	CompanyAddress        string          `gorm:"size:255" json:"company_address"`
	CompanyPhone          string          `gorm:"size:20" json:"company_phone"`
	CompanyEmail          string          `gorm:"size:100" json:"company_email"`
	DefaultCommissionRate decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"default_commission_rate"`
	ComprehensiveRate     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"comprehensive_rate"`
	ThirdPartyRate        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"third_party_rate"`
	ActOnlyRate           decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"act_only_rate"`
	DarkMode              *bool           `gorm:"not null;default:false" json:"dark_mode"`
	Language              string          `gorm:"size:10;default:'en'" json:"language"`
	EmailNotifications    *bool           `gorm:"not null;default:true" json:"email_notifications"`
	ExpiryAlerts          *bool           `gorm:"not null;default:true" json:"expiry_alerts"`
	CommissionUpdates     *bool           `gorm:"not null;default:false" json:"commission_updates"`
	DefaultPage           string          `gorm:"size:20;default:'dashboard'" json:"default_page"`
	ItemsPerPage          int             `gorm:"default:10" json:"items_per_page"`
	UpdatedAt             time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewBusinessSettings struct {
	CompanyName           string      `json:"company_name"`
	CompanyAddress        string      `json:"company_address"`
	CompanyPhone          string      `json:"company_phone"`
	CompanyEmail          string      `json:"company_email"`
	DefaultCommissionRate FlexDecimal `json:"default_commission_rate"`
	ComprehensiveRate     FlexDecimal `json:"comprehensive_rate"`
	ThirdPartyRate        FlexDecimal `json:"third_party_rate"`
	ActOnlyRate           FlexDecimal `json:"act_only_rate"`
}

type NewPreferences struct {
	DarkMode           *bool  `json:"dark_mode"`
	Language           string `json:"language"`
	EmailNotifications *bool  `json:"email_notifications"`
	ExpiryAlerts       *bool  `json:"expiry_alerts"`
	CommissionUpdates  *bool  `json:"commission_updates"`
	DefaultPage        string `json:"default_page"`
	ItemsPerPage       int    `json:"items_per_page"`
}

func defaultAgentSettings(userId int) *AgentSettings {
	return &AgentSettings{
		UserId:             userId,
		Language:           "en",
		DarkMode:           utils.NewFalse(),
		EmailNotifications: utils.NewTrue(),
		ExpiryAlerts:       utils.NewTrue(),
		CommissionUpdates:  utils.NewFalse(),
		DefaultPage:        "dashboard",
		ItemsPerPage:       10,
	}
}

func agentSettingsCacheKey(userId int) string {
	return "AgentSettings:" + strconv.Itoa(userId)
}

// GetAgentSettings returns the stored row, or defaults if the agent
// never saved any settings.
func GetAgentSettings(ctx context.Context, userId int) (*AgentSettings, error) {
	settings := AgentSettings{}
	exists, err := config.GetRedisObject(agentSettingsCacheKey(userId), &settings)
	if err != nil {
		return nil, err
	}
	if exists {
		return &settings, nil
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&AgentSettings{}).Where("user_id = ?", userId).Take(&settings).Error
	if err == gorm.ErrRecordNotFound {
		return defaultAgentSettings(userId), nil
	}
	if err != nil {
		return nil, err
	}
	_ = config.SetRedisObject(agentSettingsCacheKey(userId), settings, time.Hour)
	return &settings, nil
}

// CurrentAgentSettings is GetAgentSettings for the signed-in agent.
func CurrentAgentSettings(ctx context.Context) (*AgentSettings, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId <= 0 {
		return nil, utils.ErrorRecordNotFound
	}
	return GetAgentSettings(ctx, userId)
}

func upsertAgentSettings(ctx context.Context, settings *AgentSettings) error {
	db := config.GetDB()
	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(settings).Error
	if err != nil {
		return err
	}
	return config.RemoveRedisKey(agentSettingsCacheKey(settings.UserId))
}

func UpdateBusinessSettings(ctx context.Context, input *NewBusinessSettings) (*AgentSettings, error) {
	settings, err := CurrentAgentSettings(ctx)
	if err != nil {
		return nil, err
	}

	if email := strings.TrimSpace(input.CompanyEmail); email != "" && !utils.IsValidEmail(email) {
		return nil, errors.New("please enter a valid email address")
	}

	settings.CompanyName = input.CompanyName
	settings.CompanyAddress = input.CompanyAddress
	settings.CompanyPhone = input.CompanyPhone
	settings.CompanyEmail = input.CompanyEmail
	settings.DefaultCommissionRate = input.DefaultCommissionRate.Decimal
	settings.ComprehensiveRate = input.ComprehensiveRate.Decimal
	settings.ThirdPartyRate = input.ThirdPartyRate.Decimal
	settings.ActOnlyRate = input.ActOnlyRate.Decimal

	if err := upsertAgentSettings(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func UpdatePreferences(ctx context.Context, input *NewPreferences) (*AgentSettings, error) {
	settings, err := CurrentAgentSettings(ctx)
	if err != nil {
		return nil, err
	}

	if input.DarkMode != nil {
		settings.DarkMode = input.DarkMode
	}
	if input.Language != "" {
		settings.Language = input.Language
	}
	if input.EmailNotifications != nil {
		settings.EmailNotifications = input.EmailNotifications
	}
	if input.ExpiryAlerts != nil {
		settings.ExpiryAlerts = input.ExpiryAlerts
	}
	if input.CommissionUpdates != nil {
		settings.CommissionUpdates = input.CommissionUpdates
	}
	if input.DefaultPage != "" {
		settings.DefaultPage = input.DefaultPage
	}
	if input.ItemsPerPage > 0 {
		settings.ItemsPerPage = input.ItemsPerPage
	}

	if err := upsertAgentSettings(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// ExpiryAlertsEnabled reports whether the agent wants renewal reminders.
// Missing settings fall back to the default (on).
func ExpiryAlertsEnabled(ctx context.Context, userId int) bool {
	settings, err := GetAgentSettings(ctx, userId)
	if err != nil {
		return true
	}
	return settings.ExpiryAlerts == nil || *settings.ExpiryAlerts
}

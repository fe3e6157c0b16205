package models

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/majanidev/insurance_backend/config"
	"github.com/majanidev/insurance_backend/policy"
	"github.com/majanidev/insurance_backend/utils"
)

// Client is one insured vehicle/policy entry. ID, CreatedAt and CreatedBy
// are set once at creation and never change; there is no update operation.
type Client struct {
	ID            string            `gorm:"primary_key;size:36" json:"id"`
	FullName      string            `gorm:"size:100;not null" json:"full_name"`
	Phone         string            `gorm:"size:20;not null" json:"phone"`
	Email         string            `gorm:"size:100" json:"email"`
	Address       string            `gorm:"size:255" json:"address"`
	VehicleNumber string            `gorm:"size:20;not null" json:"vehicle_number"`
	PolicyType    policy.PolicyType `gorm:"size:20;not null" json:"policy_type"`
	StartDate     time.Time         `gorm:"not null" json:"start_date"`
	RenewalDate   *time.Time        `json:"renewal_date"`
	Premium       decimal.Decimal   `gorm:"type:decimal(20,4);default:0" json:"premium"`
	Earned        decimal.Decimal   `gorm:"type:decimal(20,4);default:0" json:"earned"`
	Commission    decimal.Decimal   `gorm:"type:decimal(20,4);default:0" json:"commission"`
	CreatedAt     time.Time         `gorm:"autoCreateTime" json:"created_at"`
	CreatedBy     int               `gorm:"index;not null" json:"created_by"`
}

// NewClient is the raw form submission. Dates stay strings until the
// policy validator has checked them; amounts go through FlexDecimal so
// unparseable input defaults to 0 instead of failing the bind.
type NewClient struct {
	FullName      string      `json:"full_name"`
	Phone         string      `json:"phone"`
	Email         string      `json:"email"`
	Address       string      `json:"address"`
	VehicleNumber string      `json:"vehicle_number"`
	PolicyType    string      `json:"policy_type"`
	StartDate     string      `json:"start_date"`
	RenewalDate   string      `json:"renewal_date"`
	Premium       FlexDecimal `json:"premium"`
	Earned        FlexDecimal `json:"earned"`
	Commission    FlexDecimal `json:"commission"`
}

// ClientRow is a Client plus the fields derived fresh for display.
type ClientRow struct {
	Client
	PolicyNumber string        `json:"policy_number"`
	Status       policy.Status `json:"status"`
	StatusLabel  string        `json:"status_label"`
	StatusClass  string        `json:"status_class"`
	DaysLeft     *int          `json:"days_left"`
}

// ValidationError carries the single rejection reason for a submission.
type ValidationError struct {
	Reason policy.InvalidReason
}

func (e *ValidationError) Error() string {
	if msg, ok := reasonMessages[e.Reason]; ok {
		return msg
	}
	return "invalid client record"
}

var reasonMessages = map[policy.InvalidReason]string{
	policy.InvalidFullNameRequired:      "Full name is required.",
	policy.InvalidPhoneRequired:         "Phone number is required.",
	policy.InvalidPhoneFormat:           "Please enter a valid phone number.",
	policy.InvalidEmailFormat:           "Please enter a valid email address.",
	policy.InvalidVehicleNumberRequired: "Vehicle registration number is required.",
	policy.InvalidStartDate:             "Start date is required.",
	policy.InvalidRenewalDate:           "Renewal date is not a valid date.",
	policy.InvalidPolicyType:            "Policy type is required.",
	policy.InvalidPremiumNegative:       "Premium must be a positive number.",
	policy.InvalidCommissionNegative:    "Commission must be a positive number.",
}

func (input *NewClient) candidate() policy.Candidate {
	return policy.Candidate{
		FullName:      input.FullName,
		Phone:         input.Phone,
		Email:         input.Email,
		Address:       input.Address,
		VehicleNumber: input.VehicleNumber,
		StartDate:     input.StartDate,
		RenewalDate:   input.RenewalDate,
		PolicyType:    input.PolicyType,
		Premium:       input.Premium.Decimal,
		Commission:    input.Commission.Decimal,
	}
}

func CreateClient(ctx context.Context, input *NewClient) (*Client, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId <= 0 {
		return nil, utils.ErrorRecordNotFound
	}

	if result := policy.ValidateClient(input.candidate()); !result.Valid() {
		return nil, &ValidationError{Reason: result.Reason}
	}

	vehicleNumber := strings.TrimSpace(input.VehicleNumber)
	if err := utils.ValidateUnique[Client](ctx, "vehicle_number", vehicleNumber, ""); err != nil {
		return nil, errors.New("a client with this vehicle registration already exists")
	}

	policyType, _ := policy.ParsePolicyType(input.PolicyType)

	client := Client{
		ID:            uuid.NewString(),
		FullName:      strings.TrimSpace(input.FullName),
		Phone:         utils.NormalizePhoneNumber(strings.TrimSpace(input.Phone)),
		Email:         strings.TrimSpace(input.Email),
		Address:       strings.TrimSpace(input.Address),
		VehicleNumber: vehicleNumber,
		PolicyType:    policyType,
		StartDate:     policy.ParseDate(input.StartDate),
		Premium:       input.Premium.Decimal,
		Earned:        input.Earned.Decimal,
		Commission:    input.Commission.Decimal,
		CreatedBy:     userId,
	}
	if r := policy.ParseDate(input.RenewalDate); !r.IsZero() {
		client.RenewalDate = &r
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&client).Error; err != nil {
		return nil, err
	}

	removeDashboardCache()
	return &client, nil
}

// ListClients returns display rows, newest first. search is a
// case-insensitive substring over name/phone/email/vehicle number;
// statusFilter is one of "", "all", "active", "expiring", "expired".
// Status is recomputed from now on every call, never read from storage.
func ListClients(ctx context.Context, search string, statusFilter string, now time.Time) ([]*ClientRow, error) {
	db := config.GetDB()
	var clients []Client
	if err := db.WithContext(ctx).Model(&Client{}).
		Order("created_at DESC").
		Find(&clients).Error; err != nil {
		return nil, err
	}

	search = strings.ToLower(strings.TrimSpace(search))

	rows := make([]*ClientRow, 0, len(clients))
	for i := range clients {
		row := clients[i].Row(now)
		if search != "" && !row.matchesSearch(search) {
			continue
		}
		if !statusFilterMatches(statusFilter, row.Status) {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func GetClient(ctx context.Context, id string, now time.Time) (*ClientRow, error) {
	db := config.GetDB()
	var client Client
	if err := db.WithContext(ctx).Model(&Client{}).Where("id = ?", id).Take(&client).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return client.Row(now), nil
}

// DeleteClient hard-deletes by id. There is no soft delete or versioning.
func DeleteClient(ctx context.Context, id string) (*Client, error) {
	db := config.GetDB()
	var client Client
	if err := db.WithContext(ctx).Model(&Client{}).Where("id = ?", id).Take(&client).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	if err := db.WithContext(ctx).Delete(&Client{}, "id = ?", id).Error; err != nil {
		return nil, err
	}

	removeDashboardCache()
	return &client, nil
}

// PolicyNumber derives the display policy number from the vehicle
// registration: "POL " plus its last two characters.
func (c *Client) PolicyNumber() string {
	reg := c.VehicleNumber
	if len(reg) > 2 {
		reg = reg[len(reg)-2:]
	}
	return "POL " + reg
}

func (c *Client) PolicyRecord() policy.Record {
	return policy.Record{
		StartDate:   c.StartDate,
		RenewalDate: c.RenewalDate,
		Commission:  c.Commission,
	}
}

func (c *Client) Row(now time.Time) *ClientRow {
	status := policy.EvaluateStatus(c.StartDate, c.RenewalDate, now)
	row := &ClientRow{
		Client:       *c,
		PolicyNumber: c.PolicyNumber(),
		Status:       status,
		StatusLabel:  statusLabels[status],
		StatusClass:  statusClasses[status],
	}
	if days, ok := policy.DaysUntilRenewal(c.StartDate, c.RenewalDate, now); ok {
		row.DaysLeft = &days
	}
	return row
}

var statusLabels = map[policy.Status]string{
	policy.StatusActive:       "Active",
	policy.StatusExpiringSoon: "Expiring Soon",
	policy.StatusExpired:      "Expired",
	policy.StatusDateError:    "Date Error",
}

var statusClasses = map[policy.Status]string{
	policy.StatusActive:       "status-active",
	policy.StatusExpiringSoon: "status-expiring",
	policy.StatusExpired:      "status-expired",
	policy.StatusDateError:    "status-error",
}

func (row *ClientRow) matchesSearch(search string) bool {
	return strings.Contains(strings.ToLower(row.FullName), search) ||
		strings.Contains(strings.ToLower(row.Phone), search) ||
		strings.Contains(strings.ToLower(row.Email), search) ||
		strings.Contains(strings.ToLower(row.VehicleNumber), search)
}

func statusFilterMatches(filter string, status policy.Status) bool {
	switch strings.ToLower(strings.TrimSpace(filter)) {
	case "", "all":
		return true
	case "active":
		return status == policy.StatusActive
	case "expiring":
		return status == policy.StatusExpiringSoon
	case "expired":
		return status == policy.StatusExpired
	default:
		return true
	}
}

// RecentClients returns the newest rows for the dashboard table.
func RecentClients(clients []Client, now time.Time, limit int) []*ClientRow {
	sorted := make([]Client, len(clients))
	copy(sorted, clients)
	sort.Slice(sorted, func(a, b int) bool {
		return sorted[a].CreatedAt.After(sorted[b].CreatedAt)
	})
	if limit > len(sorted) {
		limit = len(sorted)
	}
	rows := make([]*ClientRow, 0, limit)
	for i := 0; i < limit; i++ {
		rows = append(rows, sorted[i].Row(now))
	}
	return rows
}

package models

import (
	"context"
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/majanidev/insurance_backend/config"
	"github.com/majanidev/insurance_backend/policy"
	"github.com/majanidev/insurance_backend/utils"
)

// User is an agent account. New accounts are seeded with a default
// password and MustChangePassword set, which keeps the profile gate
// closed until the agent picks their own password.
type User struct {
	ID                 int        `gorm:"primary_key" json:"id"`
	Email              string     `gorm:"size:100;not null;unique" json:"email"`
	Name               string     `gorm:"size:100" json:"name"`
	Phone              string     `gorm:"size:20" json:"phone"`
	Address            string     `gorm:"size:255" json:"address"`
	Password           string     `gorm:"size:255;not null" json:"-"`
	IsActive           *bool      `gorm:"not null;default:true" json:"is_active"`
	MustChangePassword *bool      `gorm:"not null;default:false" json:"must_change_password"`
	PasswordChangedAt  *time.Time `json:"password_changed_at"`
	CreatedAt          time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

/*
caches:
	User:$email
	UserById:$id
	Token:$token -> user id
	Tokens:$email -> set of live session tokens
*/

func (user User) RemoveInstanceRedis() error {
	return config.RemoveRedisKey("User:"+user.Email, "UserById:"+strconv.Itoa(user.ID))
}

// Profile maps the account onto the completeness checker's view of it.
func (user *User) Profile() *policy.Profile {
	if user == nil {
		return nil
	}
	return &policy.Profile{
		Name:               user.Name,
		Phone:              user.Phone,
		Address:            user.Address,
		MustChangePassword: user.MustChangePassword != nil && *user.MustChangePassword,
	}
}

type LoginInfo struct {
	Token           string `json:"token"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	ProfileComplete bool   `json:"profile_complete"`
	RedirectTo      string `json:"redirect_to"`
}

func sessionLifespan() time.Duration {
	if hours, err := strconv.Atoi(os.Getenv("TOKEN_HOUR_LIFESPAN")); err == nil && hours > 0 {
		return time.Duration(hours) * time.Hour
	}
	return 24 * time.Hour
}

func Login(ctx context.Context, email string, password string) (*LoginInfo, error) {
	db := config.GetDB()
	var result LoginInfo

	email = strings.ToLower(strings.TrimSpace(email))
	user := User{}

	// get User info
	exists, err := config.GetRedisObject("User:"+email, &user)
	if err != nil {
		return &result, err
	}
	if !exists {
		err = db.WithContext(ctx).Model(&User{}).Where("email = ?", email).Take(&user).Error
		if err != nil {
			return &result, utils.ErrorInvalidCredentials
		}
		_ = config.SetRedisObject("User:"+email, user, time.Hour)
	}

	// check login credentials
	err = utils.ComparePassword(user.Password, password)
	if err != nil && errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return &result, utils.ErrorInvalidCredentials
	}

	if user.IsActive != nil && !*user.IsActive {
		return &result, utils.ErrorUserDisabled
	}

	// generate session token
	token := uuid.NewString()
	if err := config.SetRedisValue("Token:"+token, strconv.Itoa(user.ID), sessionLifespan()); err != nil {
		return &result, err
	}
	if err := config.AddRedisSet("Tokens:"+user.Email, token); err != nil {
		return &result, err
	}

	complete := policy.IsProfileComplete(user.Profile())

	result.Token = token
	result.Name = user.Name
	result.Email = user.Email
	result.ProfileComplete = complete
	result.RedirectTo = "dashboard"
	if !complete {
		// Incomplete onboarding always lands on settings first.
		result.RedirectTo = "settings"
	}
	return &result, nil
}

// Logout destroys the current session.
func Logout(ctx context.Context) (bool, error) {
	token, ok := utils.GetTokenFromContext(ctx)
	if !ok || token == "" {
		return false, errors.New("token is required")
	}
	if err := config.RemoveRedisKey("Token:" + token); err != nil {
		return false, err
	}
	// remove current token from the user's live-token set
	if email, ok := utils.GetUserEmailFromContext(ctx); ok && email != "" {
		_ = config.RemoveRedisSetMember("Tokens:"+email, token)
	}
	return true, nil
}

// revokeSessions kills every live session of the user. Called after a
// password change so stale tokens cannot outlive the old credential.
func revokeSessions(user *User) {
	tokens, err := config.GetRedisSetMembers("Tokens:" + user.Email)
	if err != nil {
		return
	}
	for _, token := range tokens {
		_ = config.RemoveRedisKey("Token:" + token)
	}
	_ = config.RemoveRedisKey("Tokens:" + user.Email)
}

func GetUserByID(ctx context.Context, id int) (*User, error) {
	user := User{}
	exists, err := config.GetRedisObject("UserById:"+strconv.Itoa(id), &user)
	if err != nil {
		return nil, err
	}
	if exists {
		return &user, nil
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Take(&user).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	_ = config.SetRedisObject("UserById:"+strconv.Itoa(id), user, time.Hour)
	return &user, nil
}

func CurrentUser(ctx context.Context) (*User, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId <= 0 {
		return nil, utils.ErrorRecordNotFound
	}
	return GetUserByID(ctx, userId)
}

// NewProfile is the settings-page profile form. All three fields are
// required before the completeness gate opens.
type NewProfile struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone" binding:"required"`
	Address string `json:"address" binding:"required"`
}

type ProfileInfo struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Address         string `json:"address"`
	ProfileComplete bool   `json:"profile_complete"`
}

func (user *User) profileInfo() *ProfileInfo {
	return &ProfileInfo{
		Name:            user.Name,
		Email:           user.Email,
		Phone:           user.Phone,
		Address:         user.Address,
		ProfileComplete: policy.IsProfileComplete(user.Profile()),
	}
}

func GetProfile(ctx context.Context) (*ProfileInfo, error) {
	user, err := CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	return user.profileInfo(), nil
}

func UpdateProfile(ctx context.Context, input *NewProfile) (*ProfileInfo, error) {
	user, err := CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	phone := strings.TrimSpace(input.Phone)
	address := strings.TrimSpace(input.Address)
	if name == "" || phone == "" || address == "" {
		return nil, errors.New("please fill in all required fields")
	}
	if err := utils.ValidatePhoneNumber(phone, utils.CountryCode); err != nil {
		return nil, errors.New("please enter a valid phone number")
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"name":    name,
		"phone":   utils.NormalizePhoneNumber(phone),
		"address": address,
	}).Error; err != nil {
		return nil, err
	}

	_ = user.RemoveInstanceRedis()
	updated, err := GetUserByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return updated.profileInfo(), nil
}

// ChangePassword sets a new password, clears the mandatory-change flag
// and revokes every other live session.
func ChangePassword(ctx context.Context, newPassword string, confirmPassword string) (*ProfileInfo, error) {
	if len(newPassword) < 6 {
		return nil, errors.New("password must be at least 6 characters long")
	}
	if newPassword != confirmPassword {
		return nil, errors.New("passwords do not match")
	}

	user, err := CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"password":             string(hashed),
		"must_change_password": false,
		"password_changed_at":  now,
	}).Error; err != nil {
		return nil, err
	}

	_ = user.RemoveInstanceRedis()
	revokeSessions(user)

	// re-issue the current session so the caller stays signed in
	if token, ok := utils.GetTokenFromContext(ctx); ok && token != "" {
		_ = config.SetRedisValue("Token:"+token, strconv.Itoa(user.ID), sessionLifespan())
		_ = config.AddRedisSet("Tokens:"+user.Email, token)
	}

	updated, err := GetUserByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return updated.profileInfo(), nil
}

// internal/services/auth_service.go
package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/danalakshmi/freshtrack-backend/internal/apperrors"
	"github.com/danalakshmi/freshtrack-backend/internal/models"
	"github.com/danalakshmi/freshtrack-backend/internal/utils"
)

type AuthService struct {
	db               *gorm.DB
	clock            utils.Clock
	accessTokenTTL   time.Duration
	rememberTokenTTL time.Duration
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Remember bool   `json:"remember"`
}

type LoginResult struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	User      UserProfileView `json:"user"`
}

type UserProfileView struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	Role        string     `json:"role"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

func NewAuthService(db *gorm.DB, clock utils.Clock, accessTTL, rememberTTL time.Duration) *AuthService {
	return &AuthService{
		db:               db,
		clock:            clock,
		accessTokenTTL:   accessTTL,
		rememberTokenTTL: rememberTTL,
	}
}

// Login checks credentials and issues a JWT. The same generic error is
// returned for unknown users and wrong passwords.
func (s *AuthService) Login(req LoginRequest, ipAddress, userAgent string) (*LoginResult, error) {
	var user models.User
	err := s.db.Where("username = ?", req.Username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Auth("invalid credentials")
		}
		return nil, apperrors.Storage("failed to look up user", err)
	}

	if !user.Active {
		return nil, apperrors.Auth("account is disabled")
	}
	if err := user.CheckPassword(req.Password); err != nil {
		return nil, apperrors.Auth("invalid credentials")
	}

	ttl := s.accessTokenTTL
	if req.Remember {
		ttl = s.rememberTokenTTL
	}

	now := s.clock.Now()
	token, err := utils.GenerateJWT(user.ID, user.Username, string(user.Role), ttl, now)
	if err != nil {
		return nil, apperrors.Storage("failed to generate token", err)
	}

	// Opportunistic cleanup; login is rare enough to absorb it.
	if _, err := s.PurgeExpiredSessions(); err != nil {
		logrus.WithError(err).Warn("failed to purge expired sessions")
	}

	expiresAt := now.Add(ttl)
	session := models.Session{
		UserID:    user.ID,
		Token:     token,
		IPAddress: ipAddress,
		UserAgent: userAgent,
		ExpiresAt: expiresAt,
	}
	if err := s.db.Create(&session).Error; err != nil {
		return nil, apperrors.Storage("failed to persist session", err)
	}

	if err := s.db.Model(&user).Update("last_login_at", now).Error; err != nil {
		return nil, apperrors.Storage("failed to record login time", err)
	}
	user.LastLoginAt = &now

	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      profileOf(user),
	}, nil
}

// Logout removes the session for the given token. With everywhere set,
// every session of the token's owner is removed instead. Unknown
// tokens are not an error.
func (s *AuthService) Logout(token string, everywhere bool) error {
	if token == "" {
		return nil
	}

	if everywhere {
		if claims, err := utils.ValidateJWT(token, s.clock.Now()); err == nil {
			if userID, err := uuid.Parse(claims.UserID); err == nil {
				if err := s.db.Where("user_id = ?", userID).Delete(&models.Session{}).Error; err != nil {
					return apperrors.Storage("failed to delete sessions", err)
				}
				return nil
			}
		}
		// Fall through to single-token delete when the token does not
		// resolve to a user.
	}

	if err := s.db.Where("token = ?", token).Delete(&models.Session{}).Error; err != nil {
		return apperrors.Storage("failed to delete session", err)
	}
	return nil
}

// Validate verifies a token and returns the profile of its owner.
func (s *AuthService) Validate(token string) (*UserProfileView, error) {
	claims, err := utils.ValidateJWT(token, s.clock.Now())
	if err != nil {
		return nil, apperrors.Auth("invalid or expired token")
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, apperrors.Auth("invalid or expired token")
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Auth("user no longer exists")
		}
		return nil, apperrors.Storage("failed to look up user", err)
	}
	if !user.Active {
		return nil, apperrors.Auth("account is disabled")
	}

	profile := profileOf(user)
	return &profile, nil
}

// PurgeExpiredSessions deletes sessions past their expiry.
func (s *AuthService) PurgeExpiredSessions() (int64, error) {
	result := s.db.Where("expires_at < ?", s.clock.Now()).Delete(&models.Session{})
	if result.Error != nil {
		return 0, apperrors.Storage("failed to purge sessions", result.Error)
	}
	return result.RowsAffected, nil
}

func profileOf(user models.User) UserProfileView {
	return UserProfileView{
		ID:          user.ID,
		Username:    user.Username,
		Role:        string(user.Role),
		LastLoginAt: user.LastLoginAt,
	}
}

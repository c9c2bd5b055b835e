package services

import (
	"context"
	"errors"

	"loanlink-partners/internal/adapters/persistence/models"
	"loanlink-partners/internal/adapters/persistence/repositories"
	"loanlink-partners/internal/config"
	"loanlink-partners/internal/core/domain"
	"loanlink-partners/internal/pkg/dbretry"
	"loanlink-partners/internal/pkg/jwt"
	"loanlink-partners/internal/pkg/password"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenRevoked       = errors.New("token revoked")
)

// AuthService handles authentication for admins and partners
type AuthService struct {
	adminRepo   repositories.AdminRepository
	partnerRepo repositories.PartnerRepository
	tokenRepo   repositories.RefreshTokenRepository
	retry       dbretry.Policy
	cfg         *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(
	adminRepo repositories.AdminRepository,
	partnerRepo repositories.PartnerRepository,
	tokenRepo repositories.RefreshTokenRepository,
	retry dbretry.Policy,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		adminRepo:   adminRepo,
		partnerRepo: partnerRepo,
		tokenRepo:   tokenRepo,
		retry:       retry,
		cfg:         cfg,
	}
}

// LoginInput represents login input
type LoginInput struct {
	Username string `json:"username"` // admin username or partner email
	Password string `json:"password"`
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// LoginAdmin authenticates an administrator
func (s *AuthService) LoginAdmin(ctx context.Context, input *LoginInput) (*models.Admin, *TokenPair, error) {
	var admin *models.Admin
	err := dbretry.Do(ctx, s.retry, func(ctx context.Context) error {
		var err error
		admin, err = s.adminRepo.GetByUsername(ctx, input.Username)
		return err
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !admin.IsActive {
		return nil, nil, ErrAccountInactive
	}
	if !password.Verify(input.Password, admin.Password) {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issueTokens(ctx, admin.ID, admin.Email, jwt.RoleAdmin)
	if err != nil {
		return nil, nil, err
	}
	return admin, pair, nil
}

// LoginPartner authenticates a partner by email. A partner logging in
// with the temporary credential clears it: it was only held for
// administrator display and is no longer needed once used.
func (s *AuthService) LoginPartner(ctx context.Context, input *LoginInput) (*models.Partner, *TokenPair, error) {
	var partner *models.Partner
	err := dbretry.Do(ctx, s.retry, func(ctx context.Context) error {
		var err error
		partner, err = s.partnerRepo.GetByEmail(ctx, input.Username)
		return err
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !password.Verify(input.Password, partner.Password) {
		return nil, nil, ErrInvalidCredentials
	}

	if partner.TempCredential != nil {
		partner.TempCredential = nil
		err = dbretry.Do(ctx, s.retry, func(ctx context.Context) error {
			return s.partnerRepo.Update(ctx, partner)
		})
		if err != nil {
			return nil, nil, err
		}
	}

	pair, err := s.issueTokens(ctx, partner.ID, partner.Email, jwt.RolePartner)
	if err != nil {
		return nil, nil, err
	}
	return partner, pair, nil
}

// issueTokens mints an access/refresh pair and stores the refresh hash
func (s *AuthService) issueTokens(ctx context.Context, actorID uint, email, role string) (*TokenPair, error) {
	accessToken, err := jwt.GenerateAccessToken(actorID, email, role, s.cfg.JWT.Secret, s.cfg.JWT.AccessTokenMins)
	if err != nil {
		return nil, err
	}

	tokenID := uuid.New().String()
	refreshToken, err := jwt.GenerateRefreshToken(actorID, role, tokenID, s.cfg.JWT.RefreshSecret, s.cfg.JWT.RefreshTokenDays)
	if err != nil {
		return nil, err
	}

	record := &models.RefreshToken{
		ActorID:   actorID,
		Role:      role,
		TokenHash: password.HashToken(refreshToken),
		ExpiresAt: jwt.GetExpiryTime(s.cfg.JWT.RefreshTokenDays),
	}
	err = dbretry.Do(ctx, s.retry, func(ctx context.Context) error {
		return s.tokenRepo.Create(ctx, record)
	})
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Refresh rotates a refresh token and mints a new access token
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.cfg.JWT.RefreshSecret)
	if err != nil {
		return nil, ErrInvalidToken
	}

	hash := password.HashToken(refreshToken)
	var stored *models.RefreshToken
	err = dbretry.Do(ctx, s.retry, func(ctx context.Context) error {
		var err error
		stored, err = s.tokenRepo.GetByTokenHash(ctx, hash)
		return err
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenRevoked
		}
		return nil, err
	}
	if stored.IsExpired() {
		return nil, ErrInvalidToken
	}

	// Rotate: the presented token dies with this call
	err = dbretry.Do(ctx, s.retry, func(ctx context.Context) error {
		return s.tokenRepo.RevokeByTokenHash(ctx, hash)
	})
	if err != nil {
		return nil, err
	}

	email, err := s.actorEmail(ctx, claims.ActorID, claims.Role)
	if err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, claims.ActorID, email, claims.Role)
}

// Logout revokes the presented refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	hash := password.HashToken(refreshToken)
	return dbretry.Do(ctx, s.retry, func(ctx context.Context) error {
		return s.tokenRepo.RevokeByTokenHash(ctx, hash)
	})
}

func (s *AuthService) actorEmail(ctx context.Context, actorID uint, role string) (string, error) {
	var email string
	err := dbretry.Do(ctx, s.retry, func(ctx context.Context) error {
		switch role {
		case jwt.RoleAdmin:
			admin, err := s.adminRepo.GetByID(ctx, actorID)
			if err != nil {
				return err
			}
			email = admin.Email
		default:
			partner, err := s.partnerRepo.GetByID(ctx, actorID)
			if err != nil {
				return err
			}
			email = partner.Email
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrUnauthorized
		}
		return "", err
	}
	return email, nil
}

package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
	ErrUserNotFound       = errors.New("user not found")
	ErrPasswordRequired   = errors.New("password is required")
	ErrSocialLinked       = errors.New("this social account is already linked to another user")
	ErrSocialVerification = errors.New("identity token verification failed")
)

type AuthService struct {
	db       *gorm.DB
	cfg      *config.Config
	verifier IdentityVerifier
}

func NewAuthService(db *gorm.DB, cfg *config.Config, verifier IdentityVerifier) *AuthService {
	return &AuthService{db: db, cfg: cfg, verifier: verifier}
}

func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, invalidf("a valid email is required")
	}
	if len(req.Password) < 8 {
		return nil, invalidf("password must be at least 8 characters")
	}
	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		return nil, invalidf("full name is required")
	}

	user := models.User{
		Email:        email,
		FullName:     fullName,
		AuthProvider: models.ProviderEmail,
		Role:         models.RoleUser,
	}
	if req.Gender != nil && *req.Gender != "" {
		g, err := normalizeGender(*req.Gender)
		if err != nil {
			return nil, err
		}
		user.Gender = &g
	}
	if req.DateOfBirth != nil && *req.DateOfBirth != "" {
		dob, err := parseDate(*req.DateOfBirth)
		if err != nil {
			return nil, err
		}
		user.DateOfBirth = &dob
	}

	db := s.db.WithContext(ctx)
	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hash)

	if err := db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.generateTokenPair(ctx, &user)
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.generateTokenPair(ctx, &user)
}

func (s *AuthService) Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.AuthResponse, error) {
	db := s.db.WithContext(ctx)
	tokenHash := hashToken(req.RefreshToken)

	var stored models.RefreshToken
	if err := db.Where("token_hash = ? AND revoked = ?", tokenHash, false).First(&stored).Error; err != nil {
		return nil, ErrInvalidToken
	}

	// Rotation: the presented token is spent either way.
	if err := db.Model(&stored).Update("revoked", true).Error; err != nil {
		return nil, fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	if time.Now().After(stored.ExpiresAt) {
		return nil, ErrInvalidToken
	}

	var user models.User
	if err := db.First(&user, "id = ?", stored.UserID).Error; err != nil {
		return nil, ErrInvalidToken
	}

	return s.generateTokenPair(ctx, &user)
}

func (s *AuthService) Logout(ctx context.Context, req *dto.LogoutRequest) error {
	return s.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token_hash = ?", hashToken(req.RefreshToken)).
		Update("revoked", true).Error
}

func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	resp := userResponse(&user)
	return &resp, nil
}

// DeleteAccount removes the user and everything they own in one transaction.
// Email accounts must confirm with their password.
func (s *AuthService) DeleteAccount(ctx context.Context, userID uuid.UUID, password string) error {
	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return ErrUserNotFound
	}

	if user.AuthProvider == models.ProviderEmail {
		if password == "" {
			return ErrPasswordRequired
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
			return ErrInvalidCredentials
		}
	}

	return db.Transaction(func(tx *gorm.DB) error {
		owned := []interface{}{
			&models.RefreshToken{},
			&models.MealLog{},
			&models.WorkoutLog{},
			&models.Recommendation{},
			&models.UserProfile{},
		}
		for _, m := range owned {
			if err := tx.Scopes(models.OwnedBy(userID)).Delete(m).Error; err != nil {
				return fmt.Errorf("failed to delete %T: %w", m, err)
			}
		}
		return tx.Delete(&user).Error
	})
}

// SocialSignIn verifies a provider identity token and signs the matching
// user in, linking or creating the account as needed.
func (s *AuthService) SocialSignIn(ctx context.Context, provider SocialProvider, req *dto.SocialSignInRequest) (*dto.AuthResponse, error) {
	if strings.TrimSpace(req.IdentityToken) == "" {
		return nil, invalidf("identity token is required")
	}

	identity, err := s.verifier.Verify(ctx, provider, req.IdentityToken)
	if err != nil {
		slog.Warn("social token verification failed", "provider", provider, "error", err)
		return nil, ErrSocialVerification
	}
	if identity.Email == "" {
		identity.Email = strings.TrimSpace(req.Email)
	}
	if identity.FullName == "" {
		identity.FullName = strings.TrimSpace(req.FullName)
	}

	user, err := s.upsertFromSocial(ctx, identity)
	if err != nil {
		return nil, err
	}
	return s.generateTokenPair(ctx, user)
}

// socialPatch maps a provider to the one user column that stores its id.
func socialPatch(provider SocialProvider, providerID string) (models.User, error) {
	switch provider {
	case SocialGoogle:
		return models.User{GoogleID: &providerID}, nil
	case SocialApple:
		return models.User{AppleUserID: &providerID}, nil
	}
	return models.User{}, fmt.Errorf("%w: %q", ErrUnsupportedProvider, provider)
}

func mergeSocial(dst *models.User, patch models.User) {
	if patch.GoogleID != nil {
		dst.GoogleID = patch.GoogleID
	}
	if patch.AppleUserID != nil {
		dst.AppleUserID = patch.AppleUserID
	}
}

func (s *AuthService) upsertFromSocial(ctx context.Context, identity *SocialIdentity) (*models.User, error) {
	patch, err := socialPatch(identity.Provider, identity.ProviderID)
	if err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)

	var user models.User
	err = db.Where(&patch).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up social user: %w", err)
	}

	email := strings.ToLower(identity.Email)
	if email != "" {
		err = db.Where("email = ?", email).First(&user).Error
		if err == nil {
			if err := db.Model(&user).Updates(patch).Error; err != nil {
				return nil, fmt.Errorf("failed to link social account: %w", err)
			}
			mergeSocial(&user, patch)
			return &user, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to look up user by email: %w", err)
		}
	} else {
		email = fmt.Sprintf("%s-%s@auth.local", identity.Provider, identity.ProviderID)
	}

	password, err := randomToken(16)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	fullName := identity.FullName
	if fullName == "" {
		fullName = "Social User"
	}
	user = patch
	user.Email = email
	user.Password = string(hash)
	user.FullName = fullName
	user.Role = models.RoleUser
	user.AuthProvider = string(identity.Provider)

	if err := db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create social user: %w", err)
	}
	return &user, nil
}

// LinkSocial attaches a verified provider identity to an existing account.
func (s *AuthService) LinkSocial(ctx context.Context, userID uuid.UUID, req *dto.LinkSocialRequest) (*dto.UserResponse, error) {
	provider, err := ParseSocialProvider(req.Provider)
	if err != nil {
		return nil, invalidf("provider must be google or apple")
	}
	if strings.TrimSpace(req.IdentityToken) == "" {
		return nil, invalidf("identity token is required")
	}

	identity, err := s.verifier.Verify(ctx, provider, req.IdentityToken)
	if err != nil {
		slog.Warn("social token verification failed", "provider", provider, "user_id", userID, "error", err)
		return nil, ErrSocialVerification
	}

	patch, err := socialPatch(provider, identity.ProviderID)
	if err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)

	var conflict int64
	if err := db.Model(&models.User{}).Where(&patch).Where("id <> ?", userID).Count(&conflict).Error; err != nil {
		return nil, fmt.Errorf("failed to check social link: %w", err)
	}
	if conflict > 0 {
		return nil, ErrSocialLinked
	}

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, ErrUserNotFound
	}
	if err := db.Model(&user).Updates(patch).Error; err != nil {
		return nil, fmt.Errorf("failed to link social account: %w", err)
	}
	mergeSocial(&user, patch)

	resp := userResponse(&user)
	return &resp, nil
}

func (s *AuthService) generateTokenPair(ctx context.Context, user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateRefreshToken(ctx, user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         userResponse(user),
	}, nil
}

func (s *AuthService) generateAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"role":  user.Role,
		"iat":   now.Unix(),
		"exp":   now.Add(s.cfg.JWTAccessExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) generateRefreshToken(ctx context.Context, user *models.User) (string, error) {
	rawToken, err := randomToken(32)
	if err != nil {
		return "", err
	}

	record := models.RefreshToken{
		UserID:    user.ID,
		TokenHash: hashToken(rawToken),
		ExpiresAt: time.Now().Add(s.cfg.JWTRefreshExpiry),
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return rawToken, nil
}

func randomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

func userResponse(u *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:                u.ID,
		Email:             u.Email,
		FullName:          u.FullName,
		Gender:            u.Gender,
		DateOfBirth:       u.DateOfBirth,
		Role:              u.Role,
		AuthProvider:      u.AuthProvider,
		ProfilePictureURL: u.ProfilePictureURL,
		GoogleLinked:      u.GoogleID != nil,
		AppleLinked:       u.AppleUserID != nil,
	}
}

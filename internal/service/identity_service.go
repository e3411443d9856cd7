package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/herafna/marketplace/internal/auth"
	"github.com/herafna/marketplace/internal/config"
	"github.com/herafna/marketplace/internal/docstore"
	"github.com/herafna/marketplace/internal/domain"
	"github.com/herafna/marketplace/internal/events"
	"github.com/herafna/marketplace/internal/repository"
	apperrors "github.com/herafna/marketplace/pkg/util"
)

const minPasswordLength = 6

// IdentityService coordinates registration, sign-in and session lifecycle.
type IdentityService struct {
	creds      repository.CredentialRepository
	profiles   repository.ProfileRepository
	resets     repository.PasswordResetRepository
	tokenMgr   *auth.TokenManager
	revoked    *auth.RevocationList
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
	resetTTL   time.Duration
}

// IdentityDependencies bundles requirements for the identity service.
type IdentityDependencies struct {
	CredentialRepo repository.CredentialRepository
	ProfileRepo    repository.ProfileRepository
	ResetRepo      repository.PasswordResetRepository
	Revoked        *auth.RevocationList
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
}

// RegisterInput carries the profile fields collected at sign-up.
type RegisterInput struct {
	FullName    string
	Email       string
	Password    string
	PhoneNumber string
	City        string
	AccountType domain.AccountType
}

// NewIdentityService builds the service.
func NewIdentityService(cfg config.Config, deps IdentityDependencies) *IdentityService {
	resetTTLMinutes := cfg.Auth.ResetTokenTTLMinutes
	if resetTTLMinutes <= 0 {
		resetTTLMinutes = 30
	}
	return &IdentityService{
		creds:      deps.CredentialRepo,
		profiles:   deps.ProfileRepo,
		resets:     deps.ResetRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		revoked:    deps.Revoked,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		bcryptCost: cfg.Auth.BcryptCost,
		resetTTL:   time.Duration(resetTTLMinutes) * time.Minute,
	}
}

// Register creates new credentials plus the profile document, assigning
// default role and status from the declared account type.
func (s *IdentityService) Register(ctx context.Context, input RegisterInput) (*domain.UserProfile, string, time.Time, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if input.FullName == "" || email == "" || input.Password == "" {
		return nil, "", time.Time{}, apperrors.NewValidationError("full name, email and password required", nil)
	}
	if !domain.ValidEmail(email) {
		return nil, "", time.Time{}, apperrors.NewValidationError("invalid email address", map[string]any{"field": "email"})
	}
	if len(input.Password) < minPasswordLength {
		return nil, "", time.Time{}, apperrors.NewValidationError("password too weak", map[string]any{"field": "password"})
	}

	if _, err := s.creds.GetByEmail(ctx, email); err == nil {
		return nil, "", time.Time{}, apperrors.NewConflict("email already registered", map[string]any{"email": email})
	} else if !repository.IsNoRows(err) {
		return nil, "", time.Time{}, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	cred := &repository.Credential{
		UID:          uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.creds.Create(ctx, cred); err != nil {
		return nil, "", time.Time{}, err
	}

	accountType := input.AccountType
	if accountType == "" {
		accountType = domain.AccountTypeUser
	}
	profile, err := s.profiles.Create(ctx, domain.UserProfile{
		UID:         cred.UID,
		FullName:    input.FullName,
		Email:       email,
		PhoneNumber: input.PhoneNumber,
		City:        input.City,
		AccountType: accountType,
	})
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewPersistenceError(err)
	}

	token, exp, err := s.tokenMgr.GenerateToken(profile.UID, profile.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return profile, token, exp, nil
}

// SignIn authenticates an identity. A missing profile document is
// provisioned on the spot so sign-in and the session middleware share one
// policy.
func (s *IdentityService) SignIn(ctx context.Context, email, password string) (*domain.UserProfile, string, time.Time, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	cred, err := s.creds.GetByEmail(ctx, email)
	if err != nil {
		if repository.IsNoRows(err) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(cred.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}

	profile, err := s.ResolveProfile(ctx, cred.UID)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.tokenMgr.GenerateToken(profile.UID, profile.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return profile, token, exp, nil
}

// SignOut revokes the session token. Always succeeds from the caller's
// point of view; an unparseable token simply has nothing to revoke.
func (s *IdentityService) SignOut(ctx context.Context, tokenStr string) {
	claims, err := s.tokenMgr.ParseToken(tokenStr)
	if err != nil {
		return
	}
	if err := s.revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		s.logger.Warn("failed to revoke session token", zap.Error(err))
	}
}

// ForgotPassword issues a single-use reset token for a registered email.
// An unknown address yields an empty token and no error, so the endpoint
// never reveals which addresses are registered.
func (s *IdentityService) ForgotPassword(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if !domain.ValidEmail(email) {
		return "", apperrors.NewValidationError("invalid email address", map[string]any{"field": "email"})
	}

	cred, err := s.creds.GetByEmail(ctx, email)
	if err != nil {
		if repository.IsNoRows(err) {
			return "", nil
		}
		return "", err
	}

	token := &repository.PasswordResetToken{
		UID:       cred.UID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(s.resetTTL),
	}
	if err := s.resets.Create(ctx, token); err != nil {
		return "", err
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventPasswordResetRequested,
		SubjectID: cred.UID,
		ActorUID:  cred.UID,
		Payload: events.PasswordResetRequestedPayload{
			Email: email,
			Token: token.Token,
		},
	})
	return token.Token, nil
}

// ResetPassword redeems a reset token and replaces the credential hash.
// The token burns on use regardless of later failures.
func (s *IdentityService) ResetPassword(ctx context.Context, tokenStr, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return apperrors.NewValidationError("password too weak", map[string]any{"field": "password"})
	}

	token, err := s.resets.Consume(ctx, tokenStr)
	if err != nil {
		if repository.IsNoRows(err) {
			return apperrors.NewUnauthorized("invalid or expired reset token")
		}
		return err
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	return s.creds.UpdatePassword(ctx, token.UID, hash)
}

// ResolveProfile implements auth.ProfileResolver. An authenticated identity
// without a profile document gets a minimal one provisioned: empty phone
// and city, plain user account. A concurrent duplicate provision writes the
// same document key, so the race is idempotent.
func (s *IdentityService) ResolveProfile(ctx context.Context, uid string) (*domain.UserProfile, error) {
	profile, err := s.profiles.Get(ctx, uid)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, docstore.ErrNotFound) {
		return nil, err
	}

	email := ""
	if cred, credErr := s.creds.GetByUID(ctx, uid); credErr == nil {
		email = cred.Email
	}

	provisioned, err := s.profiles.Create(ctx, domain.UserProfile{
		UID:         uid,
		Email:       email,
		AccountType: domain.AccountTypeUser,
	})
	if err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:      events.EventProfileProvisioned,
		SubjectID: uid,
		ActorUID:  uid,
		Payload: events.ProfileProvisionedPayload{
			AccountType: provisioned.AccountType,
			Role:        provisioned.Role,
		},
	})
	return provisioned, nil
}

// UpdateProfile merges partial profile fields; the identity key stays fixed.
func (s *IdentityService) UpdateProfile(ctx context.Context, uid string, partial map[string]any) (*domain.UserProfile, error) {
	if err := s.profiles.Update(ctx, uid, partial); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, apperrors.NewNotFound("profile", map[string]any{"uid": uid})
		}
		return nil, apperrors.NewPersistenceError(err)
	}
	return s.profiles.Get(ctx, uid)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *IdentityService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *IdentityService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}

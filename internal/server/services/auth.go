// Package services holds the business logic between the HTTP layer and the
// repositories. Services receive a *sql.DB plus a repository manager and
// decide per call whether a plain handle or a transaction is needed.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dkravets/tenantnotes/internal/common"
	"github.com/dkravets/tenantnotes/internal/dbx"
	"github.com/dkravets/tenantnotes/internal/server/auth"
	"github.com/dkravets/tenantnotes/internal/server/config"
	"github.com/dkravets/tenantnotes/internal/server/models"
	"github.com/dkravets/tenantnotes/internal/server/repositories/repomanager"
)

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Session is the fully-resolved caller identity: the user and the tenant
// every downstream query is scoped to.
type Session struct {
	User   *models.User
	Tenant *models.Tenant
}

type AuthService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	accessSecret                 []byte
	refreshSecret                []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *AuthService {
	return &AuthService{
		db:                           db,
		repomanager:                  m,
		accessSecret:                 []byte(cfg.AccessTokenSecret),
		refreshSecret:                []byte(cfg.RefreshTokenSecret),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// AccessTokenTTL exposes the access token lifetime for cookie max-age.
func (s *AuthService) AccessTokenTTL() time.Duration { return s.accessTokenValidityDuration }

// RefreshTokenTTL exposes the refresh token lifetime for cookie max-age.
func (s *AuthService) RefreshTokenTTL() time.Duration { return s.refreshTokenValidityDuration }

// Login checks the credentials and issues a token pair. A missing user and
// a wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, *TokenPair, error) {

	if email == "" || password == "" {
		return nil, nil, common.ErrorValidation
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorUnauthorized
		}
		return nil, nil, common.ErrorInternal
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, nil, common.ErrorUnauthorized
	}

	tenant, err := s.repomanager.Tenants(s.db).GetByID(ctx, user.TenantID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrTenantNotFound
		}
		return nil, nil, common.ErrorInternal
	}

	pair, err := s.generateTokenPair(ctx, s.db, user, tenant)
	if err != nil {
		return nil, nil, err
	}

	return &Session{User: user, Tenant: tenant}, pair, nil
}

// Authenticate verifies an access token and resolves the session snapshot
// from the stores. This is the only place an access token is verified.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*Session, error) {

	payload, err := auth.ParseToken(accessToken, s.accessSecret)
	if err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, payload.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, common.ErrorInternal
	}

	tenant, err := s.repomanager.Tenants(s.db).GetByID(ctx, user.TenantID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrTenantNotFound
		}
		return nil, common.ErrorInternal
	}

	return &Session{User: user, Tenant: tenant}, nil
}

// Rotate exchanges a refresh token for a fresh pair. The old token is
// deleted and the new one stored inside one transaction, so a rotated
// token can never authenticate again.
func (s *AuthService) Rotate(ctx context.Context, refreshToken string) (*Session, *TokenPair, error) {

	payload, err := auth.ParseToken(refreshToken, s.refreshSecret)
	if err != nil {
		return nil, nil, err
	}

	stored, err := s.repomanager.RefreshTokens(s.db).Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// no row means the token was revoked or already rotated
			return nil, nil, common.ErrInvalidToken
		}
		return nil, nil, common.ErrorInternal
	}

	if stored.ExpiresAt.Before(time.Now()) {
		return nil, nil, common.ErrRefreshTokenExpired
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, payload.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrUserNotFound
		}
		return nil, nil, common.ErrorInternal
	}

	tenant, err := s.repomanager.Tenants(s.db).GetByID(ctx, user.TenantID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrTenantNotFound
		}
		return nil, nil, common.ErrorInternal
	}

	var pair *TokenPair

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}

		pair, err = s.generateTokenPair(ctx, tx, user, tenant)
		if err != nil {
			return fmt.Errorf("error generating token pair: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, nil, err
	}

	return &Session{User: user, Tenant: tenant}, pair, nil
}

// Revoke deletes the stored refresh token. Revoking an unknown token is a
// no-op.
func (s *AuthService) Revoke(ctx context.Context, refreshToken string) error {
	return s.repomanager.RefreshTokens(s.db).Delete(ctx, refreshToken)
}

// SweepExpiredTokens purges expired refresh-token rows.
func (s *AuthService) SweepExpiredTokens(ctx context.Context) (int64, error) {
	return s.repomanager.RefreshTokens(s.db).DeleteExpired(ctx)
}

func (s *AuthService) generateTokenPair(ctx context.Context, db dbx.DBTX, user *models.User, tenant *models.Tenant) (*TokenPair, error) {

	payload := auth.TokenPayload{UserID: user.ID, TenantID: tenant.ID, Role: string(user.Role)}

	accessToken, err := auth.GenerateToken(payload, s.accessSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	refreshToken, err := auth.GenerateToken(payload, s.refreshSecret, s.refreshTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	// store before responding: an unstored refresh token is unusable
	err = s.repomanager.RefreshTokens(db).Create(ctx, user.ID, tenant.ID, refreshToken, s.refreshTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

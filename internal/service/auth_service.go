package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lesdavils/MedimexResolv/internal/apierror"
	"github.com/lesdavils/MedimexResolv/internal/dto"
	"github.com/lesdavils/MedimexResolv/internal/model"
	"github.com/lesdavils/MedimexResolv/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"

	denylistPrefix = "auth:denylist:"
)

// Claims is the JWT payload for both access and refresh tokens.
type Claims struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// AuthService handles login, token rotation and user administration.
type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	// Refresh exchanges a valid, non-revoked refresh token for a fresh pair.
	// The old refresh token is revoked in the same call.
	Refresh(ctx context.Context, req dto.RefreshRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context, req dto.LogoutRequest) error

	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error)
	UpdateUser(ctx context.Context, id uuid.UUID, req dto.UpdateUserRequest) (*dto.UserResponse, error)
	GetUser(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error)
	ListUsers(ctx context.Context, includeInactive bool) ([]dto.UserResponse, error)
	DeactivateUser(ctx context.Context, actor Actor, id uuid.UUID) error
	ReactivateUser(ctx context.Context, id uuid.UUID) error

	Capabilities(role string) dto.CapabilitiesResponse
}

type authService struct {
	repo       repository.UserRepository
	rdb        *redis.Client
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	timeout    time.Duration
}

func NewAuthService(repo repository.UserRepository, rdb *redis.Client, secret string, accessTTL, refreshTTL, timeout time.Duration) AuthService {
	return &authService{
		repo:       repo,
		rdb:        rdb,
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		timeout:    timeout,
	}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	user, err := s.repo.FindByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.Validation("username", "invalid credentials")
		}
		return nil, storeErr(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, apierror.Validation("username", "invalid credentials")
	}

	// Best effort: a failed timestamp update should not block the login.
	_ = s.repo.TouchLastLogin(ctx, user.ID)

	return s.issueTokens(user)
}

func (s *authService) Refresh(ctx context.Context, req dto.RefreshRequest) (*dto.LoginResponse, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	claims, err := s.parseToken(req.RefreshToken, tokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	revoked, err := s.isRevoked(ctx, claims.ID)
	if err != nil {
		return nil, storeErr(err)
	}
	if revoked {
		return nil, apierror.Validation("refresh_token", "token has been revoked")
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, apierror.Validation("refresh_token", "malformed token subject")
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound("user", userID, err)
	}
	if !user.Active {
		return nil, apierror.Validation("refresh_token", "account is deactivated")
	}

	// Rotate: the presented refresh token is single-use.
	if err := s.revoke(ctx, claims); err != nil {
		return nil, storeErr(err)
	}

	return s.issueTokens(user)
}

func (s *authService) Logout(ctx context.Context, req dto.LogoutRequest) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	claims, err := s.parseToken(req.RefreshToken, tokenTypeRefresh)
	if err != nil {
		// An expired or garbage token is already unusable.
		return nil
	}
	return storeErr(s.revoke(ctx, claims))
}

func (s *authService) issueTokens(user *model.User) (*dto.LoginResponse, error) {
	now := time.Now()

	access, err := s.signToken(user, tokenTypeAccess, now, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.signToken(user, tokenTypeRefresh, now, s.refreshTTL)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.accessTTL.Seconds()),
		User:         *userToResponse(user),
	}, nil
}

func (s *authService) signToken(user *model.User, tokenType string, now time.Time, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID:    user.ID.String(),
		Username:  user.Username,
		Role:      user.Role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *authService) parseToken(tokenStr, wantType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apierror.Validation("refresh_token", "invalid or expired token")
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || claims.TokenType != wantType {
		return nil, apierror.Validation("refresh_token", "invalid token type")
	}
	return claims, nil
}

func (s *authService) revoke(ctx context.Context, claims *Claims) error {
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return s.rdb.Set(ctx, denylistPrefix+claims.ID, "1", ttl).Err()
}

func (s *authService) isRevoked(ctx context.Context, jti string) (bool, error) {
	err := s.rdb.Get(ctx, denylistPrefix+jti).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ─── User administration ─────────────────────────────────────────────────────

func (s *authService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	username := strings.TrimSpace(req.Username)
	if existing, err := s.repo.FindByUsername(ctx, username); err == nil && existing != nil {
		return nil, apierror.Conflict(fmt.Sprintf("username %q is already taken", username))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     username,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		Role:         req.Role,
		Active:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, storeErr(err)
	}
	return userToResponse(user), nil
}

func (s *authService) UpdateUser(ctx context.Context, id uuid.UUID, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("user", id, err)
	}

	if req.FirstName != "" {
		user.FirstName = strings.TrimSpace(req.FirstName)
	}
	if req.LastName != "" {
		user.LastName = strings.TrimSpace(req.LastName)
	}
	if req.Email != nil {
		user.Email = req.Email
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.Role != "" {
		user.Role = req.Role
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, storeErr(err)
	}
	return userToResponse(user), nil
}

func (s *authService) GetUser(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("user", id, err)
	}
	return userToResponse(user), nil
}

func (s *authService) ListUsers(ctx context.Context, includeInactive bool) ([]dto.UserResponse, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	var (
		users []model.User
		err   error
	)
	if includeInactive {
		users, err = s.repo.ListAll(ctx)
	} else {
		users, err = s.repo.List(ctx)
	}
	if err != nil {
		return nil, storeErr(err)
	}
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, *userToResponse(&users[i]))
	}
	return out, nil
}

func (s *authService) DeactivateUser(ctx context.Context, actor Actor, id uuid.UUID) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	if actor.ID == id {
		return apierror.Validation("id", "cannot deactivate your own account")
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return notFound("user", id, err)
	}
	return storeErr(s.repo.Deactivate(ctx, id))
}

func (s *authService) ReactivateUser(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return notFound("user", id, err)
	}
	return storeErr(s.repo.Reactivate(ctx, id))
}

func (s *authService) Capabilities(role string) dto.CapabilitiesResponse {
	return dto.CapabilitiesResponse{
		Role:     role,
		Features: Features(role),
	}
}

func userToResponse(u *model.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        u.ID.String(),
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
		Active:    u.Active,
	}
}

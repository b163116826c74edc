package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"grocery-admin/internal/dto"
	"grocery-admin/internal/model"
	"grocery-admin/internal/repository"
)

// AuthService signs and validates the admin panel tokens.
type AuthService struct {
	users  UserRepository
	roles  RoleRepository
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type AuthUser struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

type Claims struct {
	Name        string   `json:"name"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

func NewAuthService(users UserRepository, roles RoleRepository, secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		users:  users,
		roles:  roles,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// IsAdmin reports whether the user holds the admin role.
func (a *AuthService) IsAdmin(user *AuthUser) bool {
	return user.Role == model.RoleAdmin
}

func (u *AuthUser) Can(permission string) bool {
	return slices.Contains(u.Permissions, permission)
}

// Login checks the credentials and issues a token carrying the role permissions.
func (a *AuthService) Login(ctx context.Context, email, password string) (*dto.LoginResponse, error) {
	u, err := a.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	ok, err := u.PasswordMatches(password)
	if err != nil {
		return nil, err
	}
	if !ok || !u.Active {
		return nil, ErrInvalidCredentials
	}

	var perms []string
	role, err := a.roles.FindRole(ctx, u.Role)
	switch {
	case err == nil:
		perms = role.Permissions
	case errors.Is(err, repository.ErrNotFound):
		perms = []string{}
	default:
		return nil, err
	}

	token, exp, err := a.IssueToken(u, perms)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: exp.Unix(),
		UserID:    u.ID,
		Name:      u.Name,
		Role:      u.Role,
	}, nil
}

func (a *AuthService) IssueToken(u *model.User, permissions []string) (string, time.Time, error) {
	now := a.now()
	exp := now.Add(a.ttl)
	claims := Claims{
		Name:        u.Name,
		Role:        u.Role,
		Permissions: permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(u.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// ValidateToken parses a bearer token and returns the user it was issued to.
func (a *AuthService) ValidateToken(tokenString string) (*AuthUser, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(a.now))
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, errors.New("invalid subject claim")
	}
	return &AuthUser{
		ID:          id,
		Name:        claims.Name,
		Role:        claims.Role,
		Permissions: claims.Permissions,
	}, nil
}

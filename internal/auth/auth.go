package auth

import (
	"fmt"
	"time"

	"github.com/flexprice/gstbill/internal/config"
	ierr "github.com/flexprice/gstbill/internal/errors"
	"github.com/flexprice/gstbill/internal/types"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// Claims is what a verified token says about its bearer
type Claims struct {
	// Subject is the tenant id for owners and the username for the admin
	Subject  string
	TenantID string
	Role     types.Role
	ExpireAt time.Time
}

// Provider issues and verifies HS256 bearer tokens
type Provider interface {
	IssueToken(subject, tenantID string, role types.Role) (string, time.Time, error)
	ValidateToken(token string) (*Claims, error)
}

type jwtProvider struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewProvider(cfg *config.Configuration) Provider {
	ttl := cfg.Auth.TokenTTL()
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &jwtProvider{
		secret: []byte(cfg.Auth.Secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (p *jwtProvider) IssueToken(subject, tenantID string, role types.Role) (string, time.Time, error) {
	now := p.now()
	expiration := now.Add(p.ttl)

	claims := jwt.MapClaims{
		"sub":  subject,
		"role": string(role),
		"exp":  expiration.Unix(),
		"iat":  now.Unix(),
	}
	if tenantID != "" {
		claims["tenant_id"] = tenantID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(p.secret)
	if err != nil {
		return "", time.Time{}, ierr.WithError(err).
			WithHint("Failed to generate token").
			Mark(ierr.ErrSystem)
	}
	return signed, expiration, nil
}

func (p *jwtProvider) ValidateToken(token string) (*Claims, error) {
	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ierr.NewError("unexpected signing method").
				WithHint(fmt.Sprintf("unexpected signing method: %v", token.Header["alg"])).
				Mark(ierr.ErrUnauthorized)
		}
		return p.secret, nil
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid or expired token").
			Mark(ierr.ErrUnauthorized)
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok || !parsedToken.Valid {
		return nil, ierr.NewError("invalid token claims").
			WithHint("Invalid token claims").
			Mark(ierr.ErrUnauthorized)
	}

	subject, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if subject == "" || role == "" {
		return nil, ierr.NewError("token missing subject or role").
			WithHint("Invalid token claims").
			Mark(ierr.ErrUnauthorized)
	}

	out := &Claims{Subject: subject, Role: types.Role(role)}
	out.TenantID, _ = claims["tenant_id"].(string)
	if exp, ok := claims["exp"].(float64); ok {
		out.ExpireAt = time.Unix(int64(exp), 0).UTC()
	}
	if out.Role == types.RoleOwner && out.TenantID == "" {
		return nil, ierr.NewError("owner token missing tenant id").
			WithHint("Invalid token claims").
			Mark(ierr.ErrUnauthorized)
	}
	return out, nil
}

// HashPassword returns the bcrypt hash of password
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ierr.NewError("password is required").
			WithHint("Password is required").
			Mark(ierr.ErrValidation)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", ierr.WithError(err).
			WithHint("Failed to hash password").
			Mark(ierr.ErrSystem)
	}
	return string(hashed), nil
}

// CheckPassword reports whether password matches the stored hash
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

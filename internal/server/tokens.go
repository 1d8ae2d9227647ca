package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are carried by session tokens. The subject is the user uid.
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

type TokenIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret, issuer string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}
}

// Issue signs an HS256 session token for uid.
func (t *TokenIssuer) Issue(uid, email string) (string, error) {
	now := t.now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid,
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Parse validates a session token and returns its claims.
func (t *TokenIssuer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}

// IdentityClaims are the claims expected in a federated identity token.
type IdentityClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

var ErrProviderDisabled = errors.New("provider sign-in is not configured")

// IdentityVerifier checks identity tokens issued by the trusted provider.
type IdentityVerifier struct {
	cfg ProviderConfig
	now func() time.Time
}

func NewIdentityVerifier(cfg ProviderConfig) *IdentityVerifier {
	return &IdentityVerifier{cfg: cfg, now: time.Now}
}

func (v *IdentityVerifier) Verify(tokenString string) (*IdentityClaims, error) {
	if v.cfg.Secret == "" {
		return nil, ErrProviderDisabled
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	}
	if v.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.cfg.Issuer))
	}
	if v.cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(v.cfg.Audience))
	}

	claims := &IdentityClaims{}
	if _, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(v.cfg.Secret), nil
	}, opts...); err != nil {
		return nil, fmt.Errorf("invalid identity token: %w", err)
	}
	if claims.Subject == "" || claims.Email == "" {
		return nil, errors.New("identity token must carry a subject and an email")
	}
	return claims, nil
}

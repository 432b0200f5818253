// AngelaMos | 2026
// jwt.go

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/carterperez-dev/storefront/internal/config"
	"github.com/carterperez-dev/storefront/internal/core"
)

// TokenManager issues and verifies the two token kinds: signed stateless
// session tokens and one-time password-reset secrets. The signing secret
// comes from configuration; a missing secret fails construction, never a
// request.
type TokenManager struct {
	key    jwk.Key
	config config.JWTConfig
}

func NewTokenManager(cfg config.JWTConfig) (*TokenManager, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("token manager: signing secret is required")
	}

	key, err := jwk.Import([]byte(cfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("import signing key: %w", err)
	}

	if setErr := key.Set(jwk.AlgorithmKey, jwa.HS256()); setErr != nil {
		return nil, fmt.Errorf("set algorithm: %w", setErr)
	}

	return &TokenManager{
		key:    key,
		config: cfg,
	}, nil
}

// IssueSessionToken signs a stateless session token for the identity.
// Validity is determined purely by signature and expiry at verification
// time; the server keeps no session table.
func (m *TokenManager) IssueSessionToken(identityID string) (string, error) {
	now := time.Now()

	token, err := jwt.NewBuilder().
		JwtID(uuid.New().String()).
		Issuer(m.config.Issuer).
		Audience([]string{m.config.Audience}).
		Subject(identityID).
		IssuedAt(now).
		Expiration(now.Add(m.config.SessionExpire)).
		NotBefore(now).
		Claim("type", "session").
		Build()
	if err != nil {
		return "", fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), m.key))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return string(signed), nil
}

// VerifySessionToken returns the identity id carried by a valid session
// token, or ErrTokenExpired / ErrTokenInvalid.
func (m *TokenManager) VerifySessionToken(
	ctx context.Context,
	tokenString string,
) (string, error) {
	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.HS256(), m.key),
		jwt.WithValidate(true),
		jwt.WithIssuer(m.config.Issuer),
		jwt.WithAudience(m.config.Audience),
	)
	if err != nil {
		if isTokenExpiredError(err) {
			return "", fmt.Errorf("verify token: %w", core.ErrTokenExpired)
		}
		return "", fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}

	var tokenType string
	if err := token.Get("type", &tokenType); err != nil ||
		tokenType != "session" {
		return "", fmt.Errorf(
			"verify token: invalid token type: %w",
			core.ErrTokenInvalid,
		)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return "", fmt.Errorf(
			"verify token: missing subject: %w",
			core.ErrTokenInvalid,
		)
	}

	return subject, nil
}

func isTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "exp") &&
		strings.Contains(errStr, "not satisfied")
}

func (m *TokenManager) SessionTTL() time.Duration {
	return m.config.SessionExpire
}

// ResetTokenData carries a freshly issued reset secret. Raw goes to the
// user out-of-band; only Hash is persisted.
type ResetTokenData struct {
	Raw       string
	Hash      string
	ExpiresAt time.Time
}

func (m *TokenManager) IssueResetToken() (*ResetTokenData, error) {
	raw, err := core.GenerateResetSecret()
	if err != nil {
		return nil, fmt.Errorf("issue reset token: %w", err)
	}

	return &ResetTokenData{
		Raw:       raw,
		Hash:      core.HashToken(raw),
		ExpiresAt: time.Now().Add(m.config.ResetTokenTTL),
	}, nil
}

func (m *TokenManager) HashResetToken(raw string) string {
	return core.HashToken(raw)
}

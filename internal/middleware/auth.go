// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/carterperez-dev/storefront/internal/core"
)

type contextKey string

const (
	IdentityKey contextKey = "identity"
)

// Identity is the resolved caller attached to the request context by the
// authenticator. Role checks read it; they never re-verify the token.
type Identity struct {
	ID    string
	Name  string
	Email string
	Role  string
}

type TokenVerifier interface {
	VerifySessionToken(ctx context.Context, token string) (string, error)
}

type IdentityLoader interface {
	LoadIdentity(ctx context.Context, id string) (*Identity, error)
}

// Authenticator resolves the session token from the Authorization header
// or the token cookie, verifies it, loads the identity and stores it on
// the request context. Protected routes mount this before any role check.
func Authenticator(
	verifier TokenVerifier,
	loader IdentityLoader,
	cookieName string,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r, cookieName)

			if token == "" {
				core.JSONError(
					w,
					core.UnauthorizedError("login first to access this resource"),
				)
				return
			}

			identityID, err := verifier.VerifySessionToken(r.Context(), token)
			if err != nil {
				handleAuthError(w, err)
				return
			}

			identity, err := loader.LoadIdentity(r.Context(), identityID)
			if err != nil {
				if errors.Is(err, core.ErrNotFound) {
					core.JSONError(w, core.TokenInvalidError())
					return
				}
				core.InternalServerError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), IdentityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole denies callers whose resolved role is not in the allowed
// set. Unknown roles are always denied. Must run after Authenticator.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	roleSet := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		roleSet[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := GetIdentity(r.Context())

			if identity == nil {
				core.JSONError(
					w,
					core.UnauthorizedError("authentication required"),
				)
				return
			}

			if _, ok := roleSet[identity.Role]; !ok {
				core.JSONError(
					w,
					core.ForbiddenError(
						"you are not allowed to access this resource",
					),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole("admin")(next)
}

func RequireManager(next http.Handler) http.Handler {
	return RequireRole("manager")(next)
}

// ExtractToken prefers the Authorization Bearer header and falls back to
// the HTTP-only session cookie. Either transport satisfies the gate.
func ExtractToken(r *http.Request, cookieName string) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}

	if cookie, err := r.Cookie(cookieName); err == nil {
		return cookie.Value
	}

	return ""
}

func handleAuthError(w http.ResponseWriter, err error) {
	if core.IsAppError(err) {
		core.JSONError(w, err)
		return
	}

	switch {
	case errors.Is(err, core.ErrTokenExpired):
		core.JSONError(w, core.TokenExpiredError())
	default:
		core.JSONError(w, core.TokenInvalidError())
	}
}

func GetIdentity(ctx context.Context) *Identity {
	if identity, ok := ctx.Value(IdentityKey).(*Identity); ok {
		return identity
	}
	return nil
}

func GetUserID(ctx context.Context) string {
	if identity := GetIdentity(ctx); identity != nil {
		return identity.ID
	}
	return ""
}

func GetUserRole(ctx context.Context) string {
	if identity := GetIdentity(ctx); identity != nil {
		return identity.Role
	}
	return ""
}

func IsAuthenticated(ctx context.Context) bool {
	return GetIdentity(ctx) != nil
}

func IsAdmin(ctx context.Context) bool {
	return GetUserRole(ctx) == "admin"
}

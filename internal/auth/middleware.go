package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"log/slog"

	"github.com/MishalHQ/aevon-console/internal/respond"
)

type contextKey string

const userContextKey contextKey = "aevon_user"

func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userContextKey, u)
}

func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(userContextKey).(*User)
	return u, ok
}

// Middleware is the access-control guard. Requests pass through extract,
// verify, live re-resolve, attach; any failure short-circuits.
//
// The re-resolution against the store is what makes role changes and account
// disables take effect immediately instead of at token expiry. Status codes
// follow the console's existing contract: 401 when no token was supplied,
// 403 when one was supplied and rejected.
func Middleware(tokens *TokenService, users CredentialSource, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				respond.Error(w, http.StatusUnauthorized, "Access token required")
				return
			}

			claims, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				respond.Error(w, http.StatusForbidden, "Invalid or expired token")
				return
			}

			// Never trust role or active state baked into the token.
			user, err := users.GetByID(r.Context(), claims.UserID)
			if err != nil || !user.IsActive {
				if err != nil && !errors.Is(err, ErrUserNotFound) {
					logger.Error("resolve token user", "uid", claims.UserID, "err", err)
				}
				respond.Error(w, http.StatusForbidden, "User account is inactive")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequireAdmin gates mutation endpoints. It assumes Middleware already ran.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		if user.Role != RoleAdmin {
			respond.Error(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dkoval/fieldops-backend/internal/config"
	"github.com/dkoval/fieldops-backend/pkg/ctxutil"
)

// Claims carried by access tokens. Tokens are issued by the identity
// service; this backend only verifies them. The subject is the acting
// user, account_id is the tenant.
type Claims struct {
	AccountID string `json:"account_id"`
	jwt.RegisteredClaims
}

// Auth returns middleware that requires a valid bearer token and stores
// the tenant account ID and acting user ID in the request context.
func Auth(cfg config.AuthConfig) Middleware {
	keyFunc := func(_ *jwt.Token) (any, error) {
		return []byte(cfg.JWTSecret), nil
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(cfg.JWTIssuer),
		jwt.WithExpirationRequired(),
	)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			var claims Claims
			if _, err := parser.ParseWithClaims(token, &claims, keyFunc); err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			accountID, err := uuid.Parse(claims.AccountID)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			userID, err := uuid.Parse(claims.Subject)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := ctxutil.WithAccountID(r.Context(), accountID)
			ctx = ctxutil.WithUserID(ctx, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(auth, "Bearer ")
}

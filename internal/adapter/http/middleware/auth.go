package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Claims is the token payload issued by the account service.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// JWTAuth guards the admin surface. It expects "Authorization: Bearer
// <token>" signed with an HMAC secret and puts the user id and role
// into the request context.
func JWTAuth(jwtSecret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "authorization token is not provided", http.StatusUnauthorized)
				return
			}

			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				http.Error(w, "authorization token format is invalid, expected 'Bearer <token>'", http.StatusUnauthorized)
				return
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.New("unexpected signing method")
				}
				return []byte(jwtSecret), nil
			})
			if err != nil {
				logger.Warn("token parsing or validation failed", zap.Error(err))
				if errors.Is(err, jwt.ErrTokenExpired) {
					http.Error(w, "token has expired", http.StatusUnauthorized)
					return
				}
				http.Error(w, "token is invalid", http.StatusUnauthorized)
				return
			}
			if !token.Valid || claims.UserID == "" {
				http.Error(w, "token is not valid", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDCtxKey, claims.UserID)
			ctx = context.WithValue(ctx, UserRoleCtxKey, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

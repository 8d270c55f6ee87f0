// Package auth issues and verifies the signed session tokens the API
// authenticates with, and loads the acting user into request context.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/wedevhq/wedev/internal/domain/models"
)

// Claims are the assertions embedded in a session token.
type Claims struct {
	UserID string `json:"_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// ErrInvalidToken is returned by Verify for any token that does not
// check out; callers never learn which part failed.
var ErrInvalidToken = errors.New("invalid session token")

// Tokens signs and verifies session tokens with a shared HS256 key.
type Tokens struct {
	key []byte
}

// NewTokens returns a Tokens signing with the given key.
func NewTokens(key string) Tokens {
	return Tokens{key: []byte(key)}
}

// Issue signs a token asserting the user's id and email.
func (t Tokens) Issue(userID primitive.ObjectID, email string) (string, error) {
	claims := Claims{
		UserID: userID.Hex(),
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.key)
}

// Verify parses and validates a token, returning its claims.
func (t Tokens) Verify(token string) (*Claims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return t.key, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

type ctxKey struct{}

// CurrentUser returns the authenticated user from ctx and a found flag.
func CurrentUser(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(ctxKey{}).(*models.User)
	return u, ok
}

// WithUser returns ctx carrying u as the authenticated user.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// UserFetcher loads the user a verified token refers to. Fetching
// fresh on every request means deactivations and ownership changes
// take effect immediately instead of at token expiry.
type UserFetcher interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// Middleware resolves a bearer token into a context user. Requests
// without a usable token proceed unauthenticated; the services decide
// which operations require a user.
func Middleware(tokens Tokens, fetcher UserFetcher, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := tokens.Verify(raw)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			uid, err := primitive.ObjectIDFromHex(claims.UserID)
			if err != nil {
				// Malformed id inside a validly signed token means the
				// signing key leaked or a bug; fail closed either way.
				logger.Warn("session token carried malformed user id", zap.String("user_id", claims.UserID))
				next.ServeHTTP(w, r)
				return
			}

			user, err := fetcher.GetByID(r.Context(), uid)
			if err != nil || user == nil || user.IsDeactivated || user.Email != claims.Email {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

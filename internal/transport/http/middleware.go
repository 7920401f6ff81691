package http

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"quizzes-service/internal/domain"
)

// Authenticator resolves and issues access tokens.
type Authenticator interface {
	Principal(ctx context.Context, token string) (domain.Principal, error)
	Login(ctx context.Context, email, plain string) (string, error)
	Register(ctx context.Context, name, email, plain string) (domain.User, error)
}

type ctxKey string

const ctxKeyPrincipal ctxKey = "principal"

func withPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, ctxKeyPrincipal, p)
}

// PrincipalFromContext returns the caller attached by RequireAuth.
func PrincipalFromContext(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(ctxKeyPrincipal).(domain.Principal)
	return p, ok
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// RequireAuth rejects requests without a valid bearer token of an active user.
func RequireAuth(auth Authenticator, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeError(w, log, domain.Unauthenticatedf("not authenticated"))
				return
			}
			p, err := auth.Principal(r.Context(), token)
			if err != nil {
				writeError(w, log, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), p)))
		})
	}
}

func principal(r *http.Request) domain.Principal {
	p, _ := PrincipalFromContext(r.Context())
	return p
}

// requireOwner fails unless the leading segment of uuid is the caller.
func requireOwner(p domain.Principal, uuid, what string) error {
	if domain.OwnerOf(uuid) != p.UUID {
		return domain.Forbiddenf("only access your own %s", what)
	}
	return nil
}

package auth

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/taskmarket/internal/apperr"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/models"
)

type UserFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Gate resolves an Authorization header to the account behind it.
type Gate struct {
	tokens *Tokens
	users  UserFinder
}

func NewGate(tokens *Tokens, users UserFinder) *Gate {
	return &Gate{tokens: tokens, users: users}
}

// Authenticate expects "Bearer <token>". A missing token or an account that
// no longer exists is Unauthenticated; a token that fails verification is
// InvalidCredential.
func (g *Gate) Authenticate(ctx context.Context, header string) (*models.User, error) {
	raw, ok := bearerToken(header)
	if !ok {
		return nil, apperr.Unauthenticated("Not authenticated: missing bearer token")
	}
	return g.AuthenticateToken(ctx, raw)
}

// AuthenticateToken applies the same checks to a bare token, as sent on
// the websocket query string.
func (g *Gate) AuthenticateToken(ctx context.Context, raw string) (*models.User, error) {
	if raw == "" {
		return nil, apperr.Unauthenticated("Not authenticated: missing bearer token")
	}

	claims, err := g.tokens.Parse(raw)
	if err != nil {
		return nil, apperr.InvalidCredential(err)
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, apperr.InvalidCredential(err)
	}

	u, err := g.users.FindByID(ctx, id)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, apperr.Unauthenticated("User no longer exists")
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, apperr.Unauthenticated("Account is not active")
	}
	return u, nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}

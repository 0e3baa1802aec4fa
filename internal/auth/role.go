package auth

import (
	"github.com/Windi-Fikriyansyah/taskmarket/internal/apperr"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/models"
)

// RequireRole fails with Forbidden unless the account may act as one of
// the given roles.
func RequireRole(u *models.User, roles ...models.UserType) error {
	for _, r := range roles {
		if u.UserType.Can(r) {
			return nil
		}
	}
	return apperr.Forbidden("Forbidden: insufficient role")
}

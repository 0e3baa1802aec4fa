// Package account registers users and issues their session tokens.
package account

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"strings"

	"github.com/Windi-Fikriyansyah/taskmarket/internal/apperr"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/auth"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/logger"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/models"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/repository"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/validator"
)

type RegisterInput struct {
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
	FirstName string `json:"firstName" validate:"required,max=80"`
	LastName  string `json:"lastName" validate:"required,max=80"`
	Phone     string `json:"phone" validate:"omitempty,min=8,max=30"`
	UserType  string `json:"userType" validate:"omitempty,oneof=client freelancer both"`
	Country   string `json:"country" validate:"required,oneof=RO MD"`
	City      string `json:"city" validate:"omitempty,max=100"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Session is what register and login hand back to the client.
type Session struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

type Service struct {
	store    *repository.Store
	tokens   *auth.Tokens
	validate *validator.Validator
}

func NewService(store *repository.Store, tokens *auth.Tokens, v *validator.Validator) *Service {
	return &Service{store: store, tokens: tokens, validate: v}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	in.Email = normalizeEmail(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Phone = strings.TrimSpace(in.Phone)
	in.City = strings.TrimSpace(in.City)
	in.Country = strings.ToUpper(strings.TrimSpace(in.Country))

	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	if _, err := s.store.Users.FindByEmail(ctx, in.Email); err == nil {
		return nil, apperr.Conflict("A user with this email already exists")
	} else if !apperr.IsKind(err, apperr.KindNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	userType := models.UserType(in.UserType)
	if userType == "" {
		userType = models.UserTypeBoth
	}

	u := &models.User{
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		UserType:     userType,
		Country:      in.Country,
		City:         in.City,
		IsActive:     true,
	}
	if err := s.store.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	logger.Info("user registered", "user_id", u.ID, "user_type", u.UserType)

	return s.session(u)
}

// Login never tells the caller whether the email exists.
func (s *Service) Login(ctx context.Context, in LoginInput) (*Session, error) {
	in.Email = normalizeEmail(in.Email)
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	u, err := s.store.Users.FindByEmail(ctx, in.Email)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, apperr.Unauthenticated("Invalid email or password")
		}
		return nil, err
	}
	if !auth.CheckPassword(u.PasswordHash, in.Password) {
		return nil, apperr.Unauthenticated("Invalid email or password")
	}
	if !u.IsActive {
		return nil, apperr.Forbidden("Account is not active")
	}

	return s.session(u)
}

// SignInWithGoogle finds or creates the account for a verified Google
// email. New accounts get an unusable random password.
func (s *Service) SignInWithGoogle(ctx context.Context, email, name string) (*Session, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, apperr.Validation("Email not provided by Google")
	}
	first, last := splitName(name, email)

	u, err := s.store.Users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if strings.TrimSpace(name) != "" && (u.FirstName != first || u.LastName != last) {
			if err := s.store.Users.UpdateName(ctx, u.ID, first, last); err != nil {
				logger.WithError(err).Warn("update name from google", "user_id", u.ID)
			} else {
				u.FirstName, u.LastName = first, last
			}
		}
	case apperr.IsKind(err, apperr.KindNotFound):
		hash, herr := auth.HashPassword(randomSecret(24))
		if herr != nil {
			return nil, apperr.Internal(herr)
		}
		u = &models.User{
			Email:        email,
			PasswordHash: hash,
			FirstName:    first,
			LastName:     last,
			UserType:     models.UserTypeBoth,
			Country:      "MD",
			IsActive:     true,
		}
		if err := s.store.Users.Create(ctx, u); err != nil {
			return nil, err
		}
		logger.Info("user registered via google", "user_id", u.ID)
	default:
		return nil, err
	}

	if !u.IsActive {
		return nil, apperr.Forbidden("Account is not active")
	}
	return s.session(u)
}

func (s *Service) session(u *models.User) (*Session, error) {
	token, err := s.tokens.Sign(u.ID, string(u.UserType))
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &Session{User: u, Token: token}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// splitName falls back to the email's local part when Google gives no name.
func splitName(name, email string) (string, string) {
	fields := strings.Fields(name)
	switch len(fields) {
	case 0:
		local, _, _ := strings.Cut(email, "@")
		return local, "-"
	case 1:
		return fields[0], "-"
	default:
		return fields[0], strings.Join(fields[1:], " ")
	}
}

func randomSecret(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/Windi-Fikriyansyah/taskmarket/internal/apperr"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/logger"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/services/account"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type GoogleOAuthHandler struct {
	Accounts        *account.Service
	GoogleClientID  string
	GoogleSecret    string
	GoogleRedirect  string
	FrontendBaseURL string
}

func (h *GoogleOAuthHandler) enabled() bool {
	return h.GoogleClientID != "" && h.GoogleSecret != "" && h.GoogleRedirect != ""
}

func (h *GoogleOAuthHandler) oauthCfg() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.GoogleClientID,
		ClientSecret: h.GoogleSecret,
		RedirectURL:  h.GoogleRedirect,
		Endpoint:     google.Endpoint,
		Scopes:       []string{"openid", "email", "profile"},
	}
}

func randomState(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

func (h *GoogleOAuthHandler) GoogleStart(c *fiber.Ctx) error {
	if !h.enabled() {
		return fail(c, apperr.NotFound("Google sign-in is not configured"))
	}

	next := c.Query("next", "/")
	st := randomState(32)

	// state and next survive the round trip in short-lived cookies
	c.Cookie(&fiber.Cookie{Name: "oauth_state", Value: st, Path: "/", HTTPOnly: true, SameSite: "Lax", MaxAge: 10 * 60})
	c.Cookie(&fiber.Cookie{Name: "oauth_next", Value: next, Path: "/", HTTPOnly: true, SameSite: "Lax", MaxAge: 10 * 60})

	return c.Redirect(h.oauthCfg().AuthCodeURL(st, oauth2.AccessTypeOffline), http.StatusTemporaryRedirect)
}

type googleUserInfo struct {
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

// GoogleCallback signs the user in and sends them back to the frontend
// with the token in the URL fragment.
func (h *GoogleOAuthHandler) GoogleCallback(c *fiber.Ctx) error {
	if !h.enabled() {
		return fail(c, apperr.NotFound("Google sign-in is not configured"))
	}

	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		return fail(c, apperr.Validation("Missing code or state"))
	}
	if st := c.Cookies("oauth_state"); st == "" || st != state {
		return fail(c, apperr.Validation("Invalid state"))
	}

	next := c.Cookies("oauth_next")
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		next = "/"
	}
	c.Cookie(&fiber.Cookie{Name: "oauth_state", Value: "", Path: "/", MaxAge: -1, HTTPOnly: true, SameSite: "Lax"})
	c.Cookie(&fiber.Cookie{Name: "oauth_next", Value: "", Path: "/", MaxAge: -1, HTTPOnly: true, SameSite: "Lax"})

	cfg := h.oauthCfg()
	tok, err := cfg.Exchange(c.UserContext(), code)
	if err != nil {
		logger.WithError(err).Warn("google code exchange failed")
		return fail(c, apperr.Unauthenticated("Failed to exchange code"))
	}

	resp, err := cfg.Client(c.UserContext(), tok).Get(googleUserInfoURL)
	if err != nil {
		return fail(c, apperr.Wrap(err, apperr.KindUnauthenticated, "Failed to fetch Google profile"))
	}
	defer resp.Body.Close()

	var gu googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&gu); err != nil {
		return fail(c, apperr.Wrap(err, apperr.KindUnauthenticated, "Failed to decode Google profile"))
	}
	if !gu.VerifiedEmail {
		return h.back(c, "/auth/login?err="+url.QueryEscape("Google email is not verified"))
	}

	sess, err := h.Accounts.SignInWithGoogle(c.UserContext(), gu.Email, gu.Name)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindForbidden {
			return h.back(c, "/auth/login?err="+url.QueryEscape(apperr.As(err).Message))
		}
		return fail(c, err)
	}

	return h.back(c, next+"#token="+url.QueryEscape(sess.Token))
}

func (h *GoogleOAuthHandler) back(c *fiber.Ctx, path string) error {
	return c.Redirect(strings.TrimRight(h.FrontendBaseURL, "/")+path, http.StatusTemporaryRedirect)
}

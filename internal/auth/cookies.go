package auth

import (
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	AccessCookieName  = "accessToken"
	RefreshCookieName = "refreshToken"
)

// CookieConfig controls how tokens are written to the browser.
type CookieConfig struct {
	Secure     bool
	Domain     string
	Path       string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// CookieConfigFromEnv marks cookies Secure when APP_ENV (or NODE_ENV) is production.
func CookieConfigFromEnv(accessTTL, refreshTTL time.Duration) CookieConfig {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = os.Getenv("NODE_ENV")
	}
	return CookieConfig{
		Secure:     strings.EqualFold(env, "production"),
		Domain:     os.Getenv("COOKIE_DOMAIN"),
		Path:       "/",
		AccessTTL:  accessTTL,
		RefreshTTL: refreshTTL,
	}
}

func (c CookieConfig) cookie(name, value string, maxAge int) *http.Cookie {
	path := c.Path
	if path == "" {
		path = "/"
	}
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Domain:   c.Domain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}

func (c CookieConfig) setAccess(w http.ResponseWriter, tok string) {
	http.SetCookie(w, c.cookie(AccessCookieName, tok, int(c.AccessTTL.Seconds())))
}

func (c CookieConfig) setSession(w http.ResponseWriter, s *Session) {
	c.setAccess(w, s.AccessToken)
	http.SetCookie(w, c.cookie(RefreshCookieName, s.RefreshToken, int(c.RefreshTTL.Seconds())))
}

func (c CookieConfig) clear(w http.ResponseWriter) {
	http.SetCookie(w, c.cookie(AccessCookieName, "", -1))
	http.SetCookie(w, c.cookie(RefreshCookieName, "", -1))
}

func cookieValue(r *http.Request, name string) string {
	ck, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(ck.Value)
}

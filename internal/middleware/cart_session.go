package middleware

import (
	"net/http"

	"app/internal/config"
	"app/internal/session"

	"github.com/labstack/echo/v4"
)

const (
	CtxCartIDKey = "cart_id" // string
)

// cookieTTLは発行したカートIDの寿命。
const cookieTTL = 30 * 24 * 60 * 60 // 秒

// cookieRequestMetadata はechoのcookieをsession.RequestMetadataに合わせる。
type cookieRequestMetadata struct {
	c echo.Context
}

func (m *cookieRequestMetadata) Get(name string) (string, bool) {
	ck, err := m.c.Cookie(name)
	if err != nil || ck.Value == "" {
		return "", false
	}
	return ck.Value, true
}

type cookieResponseMetadata struct {
	c      echo.Context
	secure bool
}

func (m *cookieResponseMetadata) Set(name string, value string) {
	m.c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   cookieTTL,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// CartSession はカートID解決ミドルウェア。
// 提示が無ければ発行してSet-Cookieし、contextにcart_idを積む。
func CartSession(p *session.Provider, cfg config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cartID := p.ResolveCartID(
				&cookieRequestMetadata{c: c},
				&cookieResponseMetadata{c: c, secure: cfg.IsProd()},
			)

			c.Set(CtxCartIDKey, cartID)
			return next(c)
		}
	}
}

package server

import (
	"app/internal/config"
	"app/internal/handler"
	"app/internal/session"

	"github.com/labstack/echo/v4"
)

func Start(
	addr string,
	cfg config.Config,
	sess *session.Provider,
	productH *handler.ProductHandler,
	cartH *handler.CartHandler,
	orderH *handler.OrderHandler,
) error {
	e := echo.New()
	RegisterRoutes(e, cfg, sess, productH, cartH, orderH)
	return e.Start(addr)
}

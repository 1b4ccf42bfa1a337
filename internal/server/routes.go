package server

import (
	"app/internal/config"
	"app/internal/handler"
	"app/internal/session"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(
	e *echo.Echo,
	cfg config.Config,
	sess *session.Provider,
	productH *handler.ProductHandler,
	cartH *handler.CartHandler,
	orderH *handler.OrderHandler,
) {
	productH.RegisterRoutes(e)
	cartH.RegisterRoutes(e, cfg, sess)
	orderH.RegisterRoutes(e, cfg, sess)
}

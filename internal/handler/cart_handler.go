package handler

import (
	"net/http"
	"strconv"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/session"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /cartのHTTP
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

type AddCartRequest struct {
	ProductID int64 `json:"product_id"`
}

type RemoveCartItemResponse struct {
	Quantity int64 `json:"quantity"`
}

type ItemCountResponse struct {
	ItemCount int64 `json:"item_count"`
}

// ミドルウェアが積んだcart_idを取り出す
func getCartIDFromContext(c echo.Context) (string, bool) {
	v, ok := c.Get(middleware.CtxCartIDKey).(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// /cart, /cart/items/{id} を登録
func (h *CartHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, sess *session.Provider) {
	g := e.Group("/cart")
	g.Use(middleware.CartSession(sess, cfg))

	g.GET("", h.getCart)
	g.GET("/count", h.itemCount)
	g.POST("/items", h.addItem)
	g.DELETE("/items/:id", h.removeItem)
	g.DELETE("", h.emptyCart)
}

func (h *CartHandler) getCart(c echo.Context) error {
	cartID, ok := getCartIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.GetCart(c.Request().Context(), cartID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) itemCount(c echo.Context) error {
	cartID, ok := getCartIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	count, err := h.uc.ItemCount(c.Request().Context(), cartID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, ItemCountResponse{ItemCount: count})
}

func (h *CartHandler) addItem(c echo.Context) error {
	cartID, ok := getCartIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req AddCartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.AddToCart(c.Request().Context(), cartID, usecase.AddCartInput{
		ProductID: req.ProductID,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) removeItem(c echo.Context) error {
	cartID, ok := getCartIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	remaining, err := h.uc.RemoveFromCart(c.Request().Context(), cartID, itemID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, RemoveCartItemResponse{Quantity: remaining})
}

func (h *CartHandler) emptyCart(c echo.Context) error {
	cartID, ok := getCartIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	if err := h.uc.EmptyCart(c.Request().Context(), cartID); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

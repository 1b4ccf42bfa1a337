package usecase

import (
	repo "app/internal/repository"
	"context"
	"net/http"
)

// CartUsecase は /cart の業務ロジックです。
// カートはセッションで発行されたcart_idにだけ紐づく。
type CartUsecase struct {
	cartItemRepo repo.CartItemRepository
	productRepo  repo.ProductRepository
	tx           repo.TransactionManager
}

func NewCartUsecase(
	cartItemRepo repo.CartItemRepository,
	productRepo repo.ProductRepository,
	tx repo.TransactionManager,
) *CartUsecase {
	return &CartUsecase{
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
		tx:           tx,
	}
}

// CartItemResponse は OASの CartItem に合わせます。
// price は現在のカタログ価格（注文スナップショットとは別物）。
type CartItemResponse struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int64  `json:"quantity"`
}

// CartResponse は OASの CartResponse に合わせます。
type CartResponse struct {
	Items     []CartItemResponse `json:"items"`
	Total     int64              `json:"total"`
	ItemCount int64              `json:"item_count"`
}

// OAS: AddCartRequest
type AddCartInput struct {
	ProductID int64
}

// GetCart はカート取得（明細なしなら空を返す）。
func (u *CartUsecase) GetCart(ctx context.Context, cartID string) (CartResponse, error) {
	if cartID == "" {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	return u.buildCartResponse(ctx, cartID)
}

// AddToCart はカートに追加（同一商品は数量+1）。
func (u *CartUsecase) AddToCart(ctx context.Context, cartID string, in AddCartInput) (CartResponse, error) {
	if cartID == "" {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ProductID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}

	// 商品チェック
	if _, err := u.productRepo.FindByID(ctx, in.ProductID); err != nil {
		if err == repo.ErrNotFound {
			return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	// Upsert（同一商品は加算）
	if err := u.cartItemRepo.UpsertByCartAndProduct(ctx, cartID, in.ProductID, 1); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartResponse(ctx, cartID)
}

// RemoveFromCart は1個だけ減らす。数量1なら明細ごと削除して0を返す。
// (cartID, cartItemID)が一致しないときは404（黙って無視しない）。
func (u *CartUsecase) RemoveFromCart(ctx context.Context, cartID string, cartItemID int64) (int64, error) {
	if cartID == "" {
		return 0, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if cartItemID <= 0 {
		return 0, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var remaining int64

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		item, err := r.CartItems().FindByCartAndID(ctx, cartID, cartItemID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if item.Quantity > 1 {
			remaining = item.Quantity - 1
			if err := r.CartItems().UpdateQuantity(ctx, item.ID, remaining); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			return nil
		}

		//数量1は行ごと消す（0のまま残さない）
		remaining = 0
		if err := r.CartItems().DeleteByID(ctx, item.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})

	if err != nil {
		return 0, err
	}
	return remaining, nil
}

// EmptyCart は明細を全削除。空のカートでもエラーにしない。
func (u *CartUsecase) EmptyCart(ctx context.Context, cartID string) error {
	if cartID == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	if err := u.cartItemRepo.DeleteByCartID(ctx, cartID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// ItemCount は数量合計（明細なしは0）。
func (u *CartUsecase) ItemCount(ctx context.Context, cartID string) (int64, error) {
	if cartID == "" {
		return 0, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	sum, err := u.cartItemRepo.SumQuantityByCartID(ctx, cartID)
	if err != nil {
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return sum, nil
}

// cartIDの明細をまとめてCartResponseを作る。
// totalは現在価格で計算する（注文確定時のスナップショットはCheckout側）。
func (u *CartUsecase) buildCartResponse(ctx context.Context, cartID string) (CartResponse, error) {
	items, err := u.cartItemRepo.ListByCartID(ctx, cartID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	respItems := make([]CartItemResponse, 0, len(items))
	var total int64 = 0

	for _, it := range items {
		p, err := u.productRepo.FindByID(ctx, it.ProductID)
		if err != nil {
			//カタログから消えた商品は表示しない（チェックアウトで弾く）
			continue
		}

		respItems = append(respItems, CartItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  it.Quantity,
		})

		total += p.Price * it.Quantity
	}

	//数量合計は明細全体の集計で取る
	count, err := u.cartItemRepo.SumQuantityByCartID(ctx, cartID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return CartResponse{Items: respItems, Total: total, ItemCount: count}, nil
}

package repository

import (
	"context"

	"app/internal/domain/model"
)

type CartItemRepository interface {
	ListByCartID(ctx context.Context, cartID string) ([]model.CartItem, error)
	// 同一商品はプラス
	UpsertByCartAndProduct(ctx context.Context, cartID string, productID int64, addQty int64) error
	UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error
	DeleteByID(ctx context.Context, cartItemID int64) error
	// カートの明細を全削除（空でもエラーにしない）
	DeleteByCartID(ctx context.Context, cartID string) error
	// cart_idとidの両方が一致する明細だけを返す
	FindByCartAndID(ctx context.Context, cartID string, cartItemID int64) (model.CartItem, error)
	// 数量合計（明細なしは0）
	SumQuantityByCartID(ctx context.Context, cartID string) (int64, error)
}

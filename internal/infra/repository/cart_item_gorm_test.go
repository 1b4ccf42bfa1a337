package repository

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DB接続文字列を環境変数から読む。無ければスキップ。
func liveTestDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}
	return dsn
}

func liveTestDB(t *testing.T, dsn string) *gorm.DB {
	t.Helper()

	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("gorm.Open failed: %v", err)
	}
	if err := gormDB.AutoMigrate(&model.CartItem{}, &model.Order{}, &model.OrderItem{}, &model.Product{}); err != nil {
		t.Fatalf("AutoMigrate failed: %v", err)
	}
	return gormDB
}

// Test: Upsertの加算と(cart_id, product_id)の一意性を実DBで確認
func Test_CartItemGorm_UpsertAccumulates(t *testing.T) {
	dsn := liveTestDSN(t)
	gormDB := liveTestDB(t, dsn)

	ctx := context.Background()
	r := NewCartItemGormRepository(gormDB)
	cartID := uuid.NewString()

	t.Cleanup(func() { _ = r.DeleteByCartID(ctx, cartID) })

	//同一商品3回＋別商品1回
	for i := 0; i < 3; i++ {
		if err := r.UpsertByCartAndProduct(ctx, cartID, 101, 1); err != nil {
			t.Fatalf("UpsertByCartAndProduct failed: %v", err)
		}
	}
	if err := r.UpsertByCartAndProduct(ctx, cartID, 102, 1); err != nil {
		t.Fatalf("UpsertByCartAndProduct failed: %v", err)
	}

	sum, err := r.SumQuantityByCartID(ctx, cartID)
	if err != nil {
		t.Fatalf("SumQuantityByCartID failed: %v", err)
	}
	if sum != 4 {
		t.Fatalf("quantity sum = %d, want 4", sum)
	}

	//行数は商品ごとに1行（pgxで直接確認）
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("sql.Open failed: %v", err)
	}
	defer func() { _ = sqlDB.Close() }()

	var rows int64
	if err := sqlDB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM cart_items WHERE cart_id = $1", cartID,
	).Scan(&rows); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if rows != 2 {
		t.Fatalf("cart_items rows = %d, want 2", rows)
	}
}

// Test: 数量1のDeleteと、空カートのDeleteByCartIDが成功すること
func Test_CartItemGorm_DeleteFlows(t *testing.T) {
	dsn := liveTestDSN(t)
	gormDB := liveTestDB(t, dsn)

	ctx := context.Background()
	r := NewCartItemGormRepository(gormDB)
	cartID := uuid.NewString()

	if err := r.UpsertByCartAndProduct(ctx, cartID, 201, 1); err != nil {
		t.Fatalf("UpsertByCartAndProduct failed: %v", err)
	}

	item, err := r.FindByCartAndID(ctx, cartID, 0)
	if err != repo.ErrNotFound {
		t.Fatalf("FindByCartAndID(unknown id) = %v, want ErrNotFound", err)
	}

	items, err := r.ListByCartID(ctx, cartID)
	if err != nil || len(items) != 1 {
		t.Fatalf("ListByCartID = (%v, %v), want 1 item", items, err)
	}
	item = items[0]

	//別カートのIDでは見えない
	if _, err := r.FindByCartAndID(ctx, uuid.NewString(), item.ID); err != repo.ErrNotFound {
		t.Fatalf("cross-cart FindByCartAndID = %v, want ErrNotFound", err)
	}

	if err := r.DeleteByID(ctx, item.ID); err != nil {
		t.Fatalf("DeleteByID failed: %v", err)
	}

	//空でもエラーにしない
	if err := r.DeleteByCartID(ctx, cartID); err != nil {
		t.Fatalf("DeleteByCartID on empty cart failed: %v", err)
	}

	sum, err := r.SumQuantityByCartID(ctx, cartID)
	if err != nil || sum != 0 {
		t.Fatalf("SumQuantityByCartID = (%d, %v), want 0", sum, err)
	}
}

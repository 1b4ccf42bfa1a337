package main

import (
	"context"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	repo "app/internal/repository"
	"app/internal/server"
	"app/internal/session"
	"app/internal/usecase"

	"github.com/joho/godotenv"
)

func main() {
	//.envがあれば読む（無くても環境変数だけで動く）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		panic(err)
	}
	if err := gormDB.AutoMigrate(
		&model.Product{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
	); err != nil {
		panic(err)
	}

	//Repository（GORM実装）生成
	cartItemRepo := infraRepo.NewCartItemGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//開発環境ではカタログが空のままだと何も買えないので初期商品を投入
	if !cfg.IsProd() {
		if err := seedProducts(context.Background(), productRepo); err != nil {
			panic(err)
		}
	}

	//セッション（cookieのカートID）
	sess := session.NewProvider(cfg.SessionCookieName)

	//Usecase生成
	productUC := usecase.NewProductUsecase(productRepo)
	cartUC := usecase.NewCartUsecase(cartItemRepo, productRepo, txManager)
	checkoutUC := usecase.NewCheckoutUsecase(txManager)

	//Handler生成
	productH := handler.NewProductHandler(productUC)
	cartH := handler.NewCartHandler(cartUC)
	orderH := handler.NewOrderHandler(checkoutUC)

	//Server起動
	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}

	if err := server.Start(addr, cfg, sess, productH, cartH, orderH); err != nil {
		panic(err)
	}
}

// カタログが空のときだけ投入する。既にあれば何もしない。
func seedProducts(ctx context.Context, products repo.ProductRepository) error {
	_, total, err := products.List(ctx, repo.ProductListQuery{Page: 1, Limit: 1})
	if err != nil {
		return err
	}
	if total > 0 {
		return nil
	}

	for _, p := range []model.Product{
		{Name: "The Best Of Men At Work", Price: 899},
		{Name: "...And Justice For All", Price: 899},
		{Name: "Led Zeppelin IV", Price: 1099},
	} {
		if _, err := products.Create(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

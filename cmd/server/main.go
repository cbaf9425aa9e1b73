package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/avelora/integration-marketplace/internal/assist"
	"github.com/avelora/integration-marketplace/internal/config"
	"github.com/avelora/integration-marketplace/internal/database"
	"github.com/avelora/integration-marketplace/internal/handler"
	appmw "github.com/avelora/integration-marketplace/internal/middleware"
	"github.com/avelora/integration-marketplace/internal/queue"
	"github.com/avelora/integration-marketplace/internal/repository"
	"github.com/avelora/integration-marketplace/internal/router"
	"github.com/avelora/integration-marketplace/internal/service"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient() // nil when Redis is unavailable; cache and limiter fail open

	// repositories
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	projects := repository.NewProjectRepo(db)
	slots := repository.NewSlotRepo(db)
	skus := repository.NewSKURepo(db)
	bids := repository.NewBidRepo(db)
	commitments := repository.NewCommitmentRepo(db)
	audit := repository.NewAuditRepo(db)

	// handlers
	authH := handler.NewAuthHandler(cfg, users, tokens)
	projectH := handler.NewProjectHandler(projects)
	slotH := handler.NewSlotHandler(slots, projects, bids)
	discoveryH := handler.NewDiscoveryHandler(slots)
	bidH := handler.NewBidHandler(bids, slots, projects, users, commitments, audit, service.NewDealPublisher())
	skuH := handler.NewSKUHandler(cfg, skus)
	financeH := handler.NewFinanceHandler(commitments, projects, bids)
	auditH := handler.NewAuditHandler(audit)
	assistH := handler.NewAssistHandler(assist.New())

	e := echo.New()
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(appmw.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	cache := appmw.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterCreator(e, projectH, slotH, financeH, cfg.JWTSecret)
	router.RegisterBuyer(e, discoveryH, bidH, assistH, cfg.JWTSecret, cache)
	router.RegisterShared(e, bidH, slotH, projectH, skuH, cfg.JWTSecret)
	router.RegisterMerchant(e, skuH, cfg.JWTSecret)
	router.RegisterOperator(e, authH, bidH, financeH, auditH, cfg.JWTSecret)

	// uploaded SKU images
	e.Static("/static", "static")

	// background consumer writing committed deals to logs/deals.log
	go func() {
		if err := queue.StartDealConsumer(); err != nil {
			log.Printf("deal consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

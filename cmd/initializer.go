package main

import (
	"database/sql"
	"log"
	"net/http"

	"github.com/redis/go-redis/v9"

	"bazarBack/internal/config"
	"bazarBack/internal/handlers"
	"bazarBack/internal/repositories"
	services "bazarBack/internal/services"
	"bazarBack/utils"
)

type application struct {
	errorLog *log.Logger
	infoLog  *log.Logger
	db       *sql.DB
	cfg      config.Config

	userHandler      *handlers.UserHandler
	userRepo         *repositories.UserRepository
	listingHandler   *handlers.ListingHandler
	listingRepo      *repositories.ListingRepository
	promotionHandler *handlers.PromotionHandler
	promotionRepo    *repositories.PromotionRepository
	configHandler    *handlers.ConfigHandler
	configRepo       *repositories.PricingConfigRepository
	uploadHandler    *handlers.UploadHandler

	promotionService *services.PromotionService
	clickService     *services.ClickService
}

func initializeApp(db *sql.DB, rdb *redis.Client, cfg config.Config, errorLog, infoLog *log.Logger) *application {
	// Repositories
	userRepo := repositories.UserRepository{DB: db}
	listingRepo := repositories.ListingRepository{DB: db}
	promotionRepo := repositories.PromotionRepository{DB: db}
	configRepo := repositories.PricingConfigRepository{DB: db}
	clickRepo := repositories.ClickRepository{RDB: rdb}

	// Services
	tokenManager, err := utils.NewManager(cfg.Auth.SigningKey)
	if err != nil {
		errorLog.Printf("token manager unavailable: %v", err)
	}
	userService := &services.UserService{
		UserRepo:     &userRepo,
		TokenManager: tokenManager,
		SigningKey:   cfg.Auth.SigningKey,
		AccessTTL:    cfg.Auth.AccessTTL,
	}
	listingService := &services.ListingService{ListingRepo: &listingRepo}
	configService := &services.ConfigService{Repo: &configRepo}
	clickService := &services.ClickService{Clicks: &clickRepo, PromoRepo: &promotionRepo, ErrorLog: errorLog}
	promotionService := &services.PromotionService{
		Repo:        &promotionRepo,
		ListingRepo: &listingRepo,
		Config:      configService,
		Clicks:      &clickRepo,
	}

	// Handlers
	userHandler := &handlers.UserHandler{Service: userService}
	listingHandler := &handlers.ListingHandler{Service: listingService}
	promotionHandler := &handlers.PromotionHandler{Service: promotionService, Clicks: clickService}
	configHandler := &handlers.ConfigHandler{Service: configService}
	uploadHandler := &handlers.UploadHandler{Folder: "promotions"}

	return &application{
		errorLog:         errorLog,
		infoLog:          infoLog,
		db:               db,
		cfg:              cfg,
		userHandler:      userHandler,
		userRepo:         &userRepo,
		listingHandler:   listingHandler,
		listingRepo:      &listingRepo,
		promotionHandler: promotionHandler,
		promotionRepo:    &promotionRepo,
		configHandler:    configHandler,
		configRepo:       &configRepo,
		uploadHandler:    uploadHandler,
		promotionService: promotionService,
		clickService:     clickService,
	}
}

func openDB(driver, dsn string) (*sql.DB, error) {
	if driver == "" {
		driver = "mysql"
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		log.Printf("Failed to open DB: %v", err)
		return nil, err
	}
	if err = db.Ping(); err != nil {
		log.Printf("Failed to ping DB: %v", err)
		return nil, err
	}
	db.SetMaxIdleConns(35)
	log.Println("Successfully connected to database")
	return db, nil
}

func addSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
		w.Header().Set("Cross-Origin-Embedder-Policy", "require-corp")
		w.Header().Set("Cross-Origin-Resource-Policy", "same-origin")
		next.ServeHTTP(w, r)
	})
}

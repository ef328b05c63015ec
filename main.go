package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kendall-kelly/design-orders-panel/config"
	"github.com/kendall-kelly/design-orders-panel/controllers"
	"github.com/kendall-kelly/design-orders-panel/middleware"
	"github.com/kendall-kelly/design-orders-panel/services"
	"github.com/kendall-kelly/design-orders-panel/storage"
)

// app holds the wired services behind the HTTP API
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	store  storage.Store
	orders *services.OrderService
	auth   *services.AuthService
}

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (defaults to environment variables)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer a.close()

	// Warm the dashboard so the first request does not pay for the load
	status := a.orders.Load(ctx).Status
	logger.Info("Initial load finished", zap.String("source", string(status.Source)), zap.String("status", status.Message))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      setupRouter(a),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.Timeout() * 3,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("Design orders panel API listening", zap.String("addr", srv.Addr), zap.Bool("remote", cfg.UseAPI))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown failed", zap.Error(err))
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// newApp opens the local store and builds the services. With USE_API off the
// services never contact the remote.
func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	store, err := storage.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	local := storage.NewLocal(store, logger)

	var api *services.APIClient
	if cfg.UseAPI {
		api = services.NewAPIClient(services.NewRemoteClient(cfg.APIBaseURL, cfg.Timeout(), nil, logger))
	}

	return &app{
		cfg:    cfg,
		logger: logger,
		store:  store,
		orders: services.NewOrderService(services.OrderServiceOptions{
			API:          api,
			Local:        local,
			Logger:       logger,
			SeedDemoData: cfg.SeedDemoData,
		}),
		auth: services.NewAuthService(api, local, logger),
	}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("Failed to close local store", zap.Error(err))
	}
}

// setupRouter builds the gin engine with every panel route
func setupRouter(a *app) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(a.logger))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = a.cfg.CORSAllowedOrigins
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	if len(corsConfig.AllowOrigins) > 0 {
		router.Use(cors.New(corsConfig))
	}

	orderController := controllers.NewOrderController(a.orders, a.logger)
	authController := controllers.NewAuthController(a.auth, a.logger)
	dashboardController := controllers.NewDashboardController(a.orders)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)

		v1.POST("/auth/login", authController.Login)
		v1.POST("/auth/logout", authController.Logout)
		v1.GET("/auth/session", authController.Session)

		// Customers submit orders without signing in
		v1.POST("/orders", orderController.CreateOrder)

		admin := v1.Group("")
		admin.Use(middleware.RequireSession(a.auth))
		{
			admin.GET("/orders", orderController.ListOrders)
			admin.PATCH("/orders/:id/status", orderController.UpdateStatus)
			admin.PATCH("/orders/:id/priority", orderController.UpdatePriority)
			admin.DELETE("/orders/:id", orderController.DeleteOrder)
			admin.GET("/clients", dashboardController.ListClients)
			admin.GET("/dashboard", dashboardController.Dashboard)
			admin.POST("/dashboard/refresh", dashboardController.Refresh)
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Design Orders Panel API is running",
	})
}

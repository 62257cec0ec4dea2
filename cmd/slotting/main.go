package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/CedricGauzargues/Slottix/internal/config"
	"github.com/CedricGauzargues/Slottix/internal/middleware"
	"github.com/CedricGauzargues/Slottix/internal/slotting/entity"
	"github.com/CedricGauzargues/Slottix/internal/slotting/handler"
	"github.com/CedricGauzargues/Slottix/internal/slotting/repository"
	"github.com/CedricGauzargues/Slottix/internal/slotting/service"
	"github.com/CedricGauzargues/Slottix/internal/warehouse"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting slotting service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	ctx := context.Background()

	db, err := initDatabase(ctx, cfg)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&entity.Emplacement{},
		&entity.Engin{},
		&entity.RouteSimple{},
		&entity.RouteSecondaire{},
	); err != nil {
		zapLogger.Warn("AutoMigrate warning", zap.Error(err))
	}

	wh, err := warehouse.New(ctx, cfg.Warehouse.Project, cfg.Warehouse.Dataset)
	if err != nil {
		zapLogger.Fatal("Failed to create warehouse client", zap.Error(err))
	}
	defer wh.Close()

	repos := repository.NewRepositories(db, wh)
	services := service.NewServices(repos, cfg.Upload.Dir, zapLogger)

	// Background merge worker for location imports.
	workerCtx, stopWorker := context.WithCancel(context.Background())
	services.Merge.Start(workerCtx)

	handlers := handler.NewHandlers(services, zapLogger)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))
	router.LoadHTMLGlob(cfg.Server.TemplatesGlob)
	router.Static("/static", "web/static")

	registerRoutes(router, handlers)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	// Let queued merges land before exiting.
	stopWorker()
	services.Merge.Stop()

	zapLogger.Info("Server exited")
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initDatabase(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	password, err := cfg.DatabasePassword(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve database password: %w", err)
	}

	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.User,
		password, cfg.Database.DBName, cfg.Database.SSLMode,
	)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

	return db, nil
}

func registerRoutes(r *gin.Engine, h *handler.Handlers) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.html", nil)
	})

	// Imports
	r.GET("/parametres/import", h.Import.ShowImport)
	r.POST("/parametres/import", h.Import.HandleImport)
	r.GET("/parametres/hist_import", h.Import.ShowHistory)

	// Exports
	r.GET("/export_schema/:table/:format", h.Export.ExportSchema)
	r.GET("/export_data/:table/:format", h.Export.ExportData)

	// Location detail grid
	r.GET("/detail_emplacement", h.Detail.Page)
	r.GET("/detail_emplacement/data", h.Detail.Data)

	api := r.Group("/api")
	{
		// Location types
		api.GET("/types_emplacement_data", h.Type.List)
		api.GET("/types_emplacement_get", h.Type.Get)
		api.POST("/types_emplacement_add", h.Type.Add)
		api.DELETE("/types_emplacement_delete", h.Type.Delete)

		// Circuit groups
		api.GET("/groupes_circuit/data", h.Circuit.List)
		api.GET("/groupes_circuit/circuits_options", h.Circuit.CircuitOptions)
		api.POST("/groupes_circuit/add", h.Circuit.Save)
		api.DELETE("/groupes_circuit/delete", h.Circuit.Delete)

		// Exceptional sales by reference
		api.GET("/ventes_exceptionnelles_ref_data", h.Sales.ListRefs)
		api.GET("/ventes_exceptionnelles_ref_get/:id", h.Sales.GetRef)
		api.POST("/ventes_exceptionnelles_ref_add", h.Sales.AddRef)
		api.POST("/ventes_exceptionnelles_ref_update", h.Sales.UpdateRef)
		api.DELETE("/ventes_exceptionnelles_ref_delete", h.Sales.DeleteRef)
		api.GET("/ventes_exceptionnelles_ref_options", h.Sales.RefOptions)

		// Exceptional sales by supplier
		api.GET("/ventes_fournisseur_data", h.Sales.ListFournisseurs)
		api.GET("/ventes_fournisseur_get/:id", h.Sales.GetFournisseur)
		api.POST("/ventes_fournisseur_add", h.Sales.AddFournisseur)
		api.POST("/ventes_fournisseur_update", h.Sales.UpdateFournisseur)
		api.DELETE("/ventes_fournisseur_delete", h.Sales.DeleteFournisseur)
		api.GET("/ventes_fournisseur_options", h.Sales.FournisseurOptions)
		api.GET("/ventes_fournisseur_lookup", h.Sales.LookupFournisseur)

		// Exceptional sales by product family
		api.GET("/ventes_famille_data", h.Sales.ListFamilles)
		api.GET("/ventes_famille_get/:id", h.Sales.GetFamille)
		api.POST("/ventes_famille_add", h.Sales.AddFamille)
		api.POST("/ventes_famille_update", h.Sales.UpdateFamille)
		api.DELETE("/ventes_famille_delete", h.Sales.DeleteFamille)
		api.GET("/ventes_famille_options", h.Sales.FamilleFluxOptions)
		api.GET("/familles_options", h.Sales.FamilleOptions)

		// Routes
		api.GET("/routes/lists", h.Route.Lists)
		api.GET("/routes/simple", h.Route.List)
		api.POST("/routes/simple", h.Route.Create)
		api.PUT("/routes/simple/:id", h.Route.Update)
		api.DELETE("/routes/simple/:id", h.Route.Delete)
		api.GET("/routes/simple/:id/secondaires", h.Route.Secondaries)

		// Location detail grid
		api.GET("/detail_emplacement/lists", h.Detail.Lists)
		api.POST("/detail_emplacement/update", h.Detail.Update)
	}
}

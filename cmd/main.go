package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"

	getAvailableSlotsHandler "github.com/m04kA/SMC-BarberBookingService/internal/api/handlers/get_available_slots"
	getBarbersHandler "github.com/m04kA/SMC-BarberBookingService/internal/api/handlers/get_barbers"
	getCompanyConfigHandler "github.com/m04kA/SMC-BarberBookingService/internal/api/handlers/get_company_config"
	getServicesHandler "github.com/m04kA/SMC-BarberBookingService/internal/api/handlers/get_services"
	invalidateCacheHandler "github.com/m04kA/SMC-BarberBookingService/internal/api/handlers/invalidate_cache"
	refreshCacheHandler "github.com/m04kA/SMC-BarberBookingService/internal/api/handlers/refresh_cache"
	"github.com/m04kA/SMC-BarberBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-BarberBookingService/internal/config"
	"github.com/m04kA/SMC-BarberBookingService/internal/domain"
	"github.com/m04kA/SMC-BarberBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-BarberBookingService/internal/infra/storage/pgcache"
	"github.com/m04kA/SMC-BarberBookingService/internal/infra/storage/rediscache"
	"github.com/m04kA/SMC-BarberBookingService/internal/integrations/barberapi"
	catalogService "github.com/m04kA/SMC-BarberBookingService/internal/service/catalog"
	occupancyService "github.com/m04kA/SMC-BarberBookingService/internal/service/occupancy"
	getAvailableSlotsUC "github.com/m04kA/SMC-BarberBookingService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-BarberBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-BarberBookingService/pkg/logger"
	"github.com/m04kA/SMC-BarberBookingService/pkg/metrics"
	"github.com/m04kA/SMC-BarberBookingService/pkg/ttlcache"
)

const (
	preloadTimeout         = 30 * time.Second
	rateLimitIdleTTL       = 10 * time.Minute
	rateLimitCleanupPeriod = time.Minute
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-BarberBookingService...")
	log.Info("Configuration loaded (cache backend=%s, timezone=%s)", cfg.Cache.Backend, cfg.Booking.Timezone)

	// Инициализируем метрики (если включены)
	var (
		metricsCollector *metrics.Metrics
		cacheObserver    ttlcache.Observer
	)
	stopCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		cacheObserver = metricsCollector
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Хранилище кэша
	store, closeStore, err := newCacheStore(cfg, log, metricsCollector, stopCh)
	if err != nil {
		log.Fatal("Failed to initialize cache store: %v", err)
	}
	defer closeStore()

	// Часовой пояс барбершопа
	location, err := cfg.Booking.Location()
	if err != nil {
		log.Fatal("Invalid booking timezone: %v", err)
	}

	// Клиент API бронирования
	apiClient := barberapi.NewClient(
		cfg.BarberAPI.URL,
		time.Duration(cfg.BarberAPI.Timeout)*time.Second,
		barberapi.Credentials{
			AccessToken:  cfg.BarberAPI.AccessToken,
			RefreshToken: cfg.BarberAPI.RefreshToken,
		},
		log,
	)
	log.Info("Barber API client initialized (url=%s, timeout=%ds)", cfg.BarberAPI.URL, cfg.BarberAPI.Timeout)

	// Кэши по видам ресурсов
	fetchTimeout := config.TTL(cfg.Cache.FetchTimeout)
	caches := catalogService.Caches{
		CompanyConfig: ttlcache.New[*domain.CompanyConfig](store, ttlcache.Options{
			Name:         catalogService.ResourceCompanyConfig,
			TTL:          config.TTL(cfg.Cache.CompanyConfigTTL),
			FetchTimeout: fetchTimeout,
		}, log, cacheObserver),
		Barbers: ttlcache.New[domain.Roster](store, ttlcache.Options{
			Name:         catalogService.ResourceBarbers,
			TTL:          config.TTL(cfg.Cache.BarbersTTL),
			FetchTimeout: fetchTimeout,
		}, log, cacheObserver),
		Services: ttlcache.New[*domain.ServiceCatalog](store, ttlcache.Options{
			Name:         catalogService.ResourceServices,
			TTL:          config.TTL(cfg.Cache.ServicesTTL),
			FetchTimeout: fetchTimeout,
		}, log, cacheObserver),
	}
	occupiedCache := ttlcache.New[[]domain.OccupiedInterval](store, ttlcache.Options{
		Name:         occupancyService.ResourceOccupied,
		TTL:          config.TTL(cfg.Cache.OccupiedTTL),
		FetchTimeout: fetchTimeout,
	}, log, cacheObserver)

	// Сервисы и use cases
	catalogSvc := catalogService.NewService(apiClient, caches, log)
	occupancySvc := occupancyService.NewService(apiClient, occupiedCache, log)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(catalogSvc, occupancySvc, location, log)

	// Прогрев кэшей не блокирует запуск при недоступном API
	if cfg.Cache.PreloadOnStart {
		preloadCtx, cancel := context.WithTimeout(context.Background(), preloadTimeout)
		report := catalogSvc.Preload(preloadCtx)
		cancel()
		if !report.AllFresh() {
			log.Warn("Catalog preload incomplete, serving from cache or API on demand")
		}
	}

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getCompanyConfig := getCompanyConfigHandler.NewHandler(catalogSvc, log)
	getBarbers := getBarbersHandler.NewHandler(catalogSvc, log)
	getServices := getServicesHandler.NewHandler(catalogSvc, log)
	refreshCache := refreshCacheHandler.NewHandler(catalogSvc, log)
	invalidateCache := invalidateCacheHandler.NewHandler(catalogSvc, occupancySvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, metricsCollector.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации, с ограничением частоты)
	// ============================================================

	public := api.PathPrefix("").Subrouter()
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, rateLimitIdleTTL, log).
			WithTrustForwardedFor(cfg.RateLimit.TrustForwardedFor)
		go limiter.RunCleanup(rateLimitCleanupPeriod, stopCh)
		public.Use(limiter.Middleware)
		log.Info("Rate limit enabled: %.1f rps, burst %d", cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	// Свободные слоты барбера на дату
	public.HandleFunc("/barbers/{barberId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Конфигурация компании, барберы, услуги
	public.HandleFunc("/company/config", getCompanyConfig.Handle).Methods(http.MethodGet)
	public.HandleFunc("/barbers", getBarbers.Handle).Methods(http.MethodGet)
	public.HandleFunc("/services", getServices.Handle).Methods(http.MethodGet)

	// ============================================================
	// ADMIN ROUTES (требуют X-Admin-Token)
	// ============================================================

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminAuth(cfg.Admin.Token, log))

	admin.HandleFunc("/cache/refresh", refreshCache.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/cache", invalidateCache.Handle).Methods(http.MethodDelete)
	admin.HandleFunc("/cache/occupied/{barberId}", invalidateCache.HandleOccupied).Methods(http.MethodDelete)

	if cfg.Admin.Token == "" {
		log.Warn("admin.token is not set, admin routes will reject every request")
	}

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем фоновые задачи
	close(stopCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}

// newCacheStore создает хранилище кэша по cache.backend.
// Возвращаемая функция закрывает соединения хранилища.
func newCacheStore(
	cfg *config.Config,
	log *logger.Logger,
	metricsCollector *metrics.Metrics,
	stopCh <-chan struct{},
) (ttlcache.Store, func(), error) {
	retention := time.Duration(cfg.Cache.RetentionHours) * time.Hour

	switch cfg.Cache.Backend {
	case config.CacheBackendRedis:
		client := rediscache.NewClient(rediscache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			UseTLS:   cfg.Redis.UseTLS,
		})

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("ping redis %s: %w", cfg.Redis.Addr, err)
		}
		log.Info("Cache store: redis (addr=%s, db=%d, retention=%s)", cfg.Redis.Addr, cfg.Redis.DB, retention)

		closeFn := func() {
			if err := client.Close(); err != nil {
				log.Error("Failed to close redis client: %v", err)
			}
		}
		return rediscache.NewRepository(client, cfg.Redis.Namespace, retention), closeFn, nil

	case config.CacheBackendPostgres:
		db, err := sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}

		// Настраиваем connection pool
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

		// Проверяем соединение
		if err := db.Ping(); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("ping database: %w", err)
		}
		log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

		var executor dbmetrics.DBExecutor = db
		if metricsCollector != nil {
			executor = dbmetrics.WrapWithDefault(db, metricsCollector, stopCh)
			log.Info("Database metrics enabled")
		}

		repo := pgcache.NewRepository(executor)
		if err := repo.EnsureSchema(context.Background()); err != nil {
			_ = db.Close()
			return nil, nil, err
		}

		// Удаляем записи старше retention: устаревшие данные нужны только как запасной вариант
		if retention > 0 {
			go purgeLoop(repo, retention, time.Duration(cfg.Cache.PurgeIntervalMinutes)*time.Minute, log, stopCh)
		}

		closeFn := func() {
			if err := db.Close(); err != nil {
				log.Error("Failed to close database: %v", err)
			}
		}
		return repo, closeFn, nil

	default:
		repo, err := memory.NewRepository(cfg.Cache.MemorySize)
		if err != nil {
			return nil, nil, err
		}
		log.Info("Cache store: memory (size=%d)", cfg.Cache.MemorySize)
		return repo, func() {}, nil
	}
}

func purgeLoop(repo *pgcache.Repository, retention, interval time.Duration, log *logger.Logger, stopCh <-chan struct{}) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case now := <-ticker.C:
			if err := repo.PurgeOlderThan(context.Background(), now.Add(-retention)); err != nil {
				log.Error("Failed to purge cache entries: %v", err)
			}
		}
	}
}

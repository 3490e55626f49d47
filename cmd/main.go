package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	blockedTimesHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/blocked_times"
	createReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/create_reservation"
	exportReservationsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/export_reservations"
	featureFlagsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/feature_flags"
	getAvailableSlotsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_available_slots"
	getReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_reservation"
	getStoreSettingsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_store_settings"
	healthHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/health"
	listMyReservationsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/list_my_reservations"
	listReservationsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/list_reservations"
	menusHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/menus"
	staffHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/staff"
	updateReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/update_reservation"
	updateStoreSettingsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/update_store_settings"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/config"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	flagCache "github.com/m04kA/SMC-ReservationService/internal/infra/cache/featureflags"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/events"
	"github.com/m04kA/SMC-ReservationService/internal/service/availability"
	blockedTimesService "github.com/m04kA/SMC-ReservationService/internal/service/blockedtimes"
	"github.com/m04kA/SMC-ReservationService/internal/service/features"
	menusService "github.com/m04kA/SMC-ReservationService/internal/service/menus"
	reservationsService "github.com/m04kA/SMC-ReservationService/internal/service/reservations"
	settingsService "github.com/m04kA/SMC-ReservationService/internal/service/settings"
	staffService "github.com/m04kA/SMC-ReservationService/internal/service/staff"
	createReservationUC "github.com/m04kA/SMC-ReservationService/internal/usecase/create_reservation"
	getAvailableSlotsUC "github.com/m04kA/SMC-ReservationService/internal/usecase/get_available_slots"
	updateReservationUC "github.com/m04kA/SMC-ReservationService/internal/usecase/update_reservation"
	"github.com/m04kA/SMC-ReservationService/pkg/authtoken"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/metrics"
)

func main() {
	configPath := "config.toml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
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

	log.Info("Starting SMC-ReservationService...")
	log.Info("Configuration loaded from %s", configPath)

	location, err := cfg.Store.Location()
	if err != nil {
		log.Fatal("Failed to load store timezone %q: %v", cfg.Store.Timezone, err)
	}

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаем хранилище
	var store *storage
	switch cfg.Database.Driver {
	case config.DriverMemory:
		store = newMemoryStorage()
		log.Warn("Using in-memory storage, data will be lost on restart")
	default:
		store, err = newPostgresStorage(cfg.Database, location, metricsCollector, stopMetricsCh, log)
		if err != nil {
			log.Fatal("Failed to connect to database: %v", err)
		}
	}
	defer store.close()

	// Кэш флагов функций (если Redis включен)
	var cache features.Cache
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			// Сервис работает и без кэша, флаги читаются из БД
			log.Warn("Redis is unavailable at %s: %v", cfg.Redis.Addr, err)
		}
		cancel()

		cache = flagCache.NewCache(redisClient, time.Duration(cfg.Redis.TTL)*time.Second)
		log.Info("Feature flag cache enabled (addr=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.TTL)
	}

	// Публикация событий (если RabbitMQ включен)
	var publisher interface {
		Publish(ctx context.Context, event events.Event) error
		Close() error
	} = events.NoopPublisher{}
	if cfg.RabbitMQ.Enabled {
		p, err := events.NewPublisher(
			cfg.RabbitMQ.URL,
			cfg.RabbitMQ.Exchange,
			time.Duration(cfg.RabbitMQ.Timeout)*time.Second,
			log,
		)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ: %v", err)
		}
		publisher = p
		log.Info("Reservation events are published to exchange %s", cfg.RabbitMQ.Exchange)
	}
	defer publisher.Close()

	// Инициализируем сервисы
	featureSvc := features.NewService(
		store.featureFlags,
		cache,
		store.tx,
		cfg.Store.TenantID,
		metricsCollector,
		log,
	)
	calendar := availability.NewService(store.reservations, store.blockedTimes, log)
	reservationSvc := reservationsService.NewService(store.reservations, featureSvc, log)
	menuSvc := menusService.NewService(store.menus, store.reservations, store.tx, log)
	staffSvc := staffService.NewService(store.staff, store.tx, log)
	blockedTimeSvc := blockedTimesService.NewService(store.blockedTimes, store.staff, log)
	settingsSvc := settingsService.NewService(store.settings, store.tx, log)

	// Инициализируем use cases
	createReservationUseCase := createReservationUC.NewUseCase(
		store.reservations,
		store.menus,
		store.staff,
		store.settings,
		featureSvc,
		calendar,
		store.tx,
		publisher,
		metricsCollector,
		log,
	)
	updateReservationUseCase := updateReservationUC.NewUseCase(
		store.reservations,
		store.menus,
		store.staff,
		store.settings,
		featureSvc,
		calendar,
		store.tx,
		publisher,
		metricsCollector,
		log,
	).WithLocation(location)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		store.menus,
		store.staff,
		store.settings,
		featureSvc,
		calendar,
		log,
	)

	// Инициализируем handlers
	var pinger healthHandler.Pinger
	if store.db != nil {
		pinger = store.db
	}
	health := healthHandler.NewHandler(pinger, log)
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, location, log)
	updateReservation := updateReservationHandler.NewHandler(updateReservationUseCase, location, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, location, log)
	getReservation := getReservationHandler.NewHandler(reservationSvc, log)
	listMyReservations := listMyReservationsHandler.NewHandler(reservationSvc, log)
	listReservations := listReservationsHandler.NewHandler(reservationSvc, location, log)
	exportReservations := exportReservationsHandler.NewHandler(reservationSvc, location, log)
	menuHandlers := menusHandler.NewHandler(menuSvc, log)
	staffHandlers := staffHandler.NewHandler(staffSvc, log)
	blockedTimes := blockedTimesHandler.NewHandler(blockedTimeSvc, location, log)
	getStoreSettings := getStoreSettingsHandler.NewHandler(settingsSvc, log)
	updateStoreSettings := updateStoreSettingsHandler.NewHandler(settingsSvc, log)
	featureFlags := featureFlagsHandler.NewHandler(featureSvc, log)

	tokens := authtoken.NewManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, time.Duration(cfg.Auth.TokenTTL)*time.Minute)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, metricsCollector.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", health.Handle).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/availability", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/menus", menuHandlers.ListPublic).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (Bearer JWT)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(tokens, log))

	// --- Бронирования ---
	createHandler := http.Handler(http.HandlerFunc(createReservation.Handle))
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(
			cfg.RateLimit.RequestsPerMinute,
			cfg.RateLimit.Burst,
			time.Duration(cfg.RateLimit.IdleTTL)*time.Second,
		)
		createHandler = limiter.Middleware(createHandler)
		log.Info("Booking rate limit enabled: %d req/min, burst=%d", cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
	}
	protected.Handle("/reservations", createHandler).Methods(http.MethodPost)
	protected.HandleFunc("/reservations", listMyReservations.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/{id}", getReservation.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/{id}", updateReservation.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/reservations/{id}/cancel", updateReservation.HandleCancel).Methods(http.MethodPatch)
	protected.HandleFunc("/reservations/{id}", updateReservation.HandleCancel).Methods(http.MethodDelete)

	// --- Справочники ---
	protected.HandleFunc("/staff", staffHandlers.List).Methods(http.MethodGet)
	protected.HandleFunc("/feature-flags", featureFlags.Get).Methods(http.MethodGet)

	// ============================================================
	// ADMIN ROUTES (ADMIN, SUPER_ADMIN)
	// ============================================================

	admin := protected.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireRole(domain.RoleAdmin, domain.RoleSuperAdmin))

	// --- Бронирования ---
	admin.HandleFunc("/reservations", listReservations.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/reservations/export", exportReservations.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/reservations/{id}/status", updateReservation.HandleStatus).Methods(http.MethodPatch)

	// --- Сотрудники ---
	admin.HandleFunc("/staff", staffHandlers.List).Methods(http.MethodGet)
	admin.HandleFunc("/staff", staffHandlers.Create).Methods(http.MethodPost)
	admin.HandleFunc("/staff/{id}", staffHandlers.Get).Methods(http.MethodGet)
	admin.HandleFunc("/staff/{id}", staffHandlers.Update).Methods(http.MethodPatch)
	admin.HandleFunc("/staff/{id}", staffHandlers.Deactivate).Methods(http.MethodDelete)
	admin.HandleFunc("/staff/{id}/shifts", staffHandlers.ReplaceShifts).Methods(http.MethodPut)
	admin.HandleFunc("/staff/{id}/vacations", staffHandlers.AddVacation).Methods(http.MethodPost)
	admin.HandleFunc("/staff/{id}/vacations/{vacationId}", staffHandlers.DeleteVacation).Methods(http.MethodDelete)

	// --- Меню ---
	admin.HandleFunc("/menus", menuHandlers.ListAdmin).Methods(http.MethodGet)
	admin.HandleFunc("/menus", menuHandlers.Create).Methods(http.MethodPost)
	admin.HandleFunc("/menus/{id}", menuHandlers.Get).Methods(http.MethodGet)
	admin.HandleFunc("/menus/{id}", menuHandlers.Update).Methods(http.MethodPatch)
	admin.HandleFunc("/menus/{id}", menuHandlers.Delete).Methods(http.MethodDelete)

	// --- Блокировки времени ---
	admin.HandleFunc("/blocked-times", blockedTimes.List).Methods(http.MethodGet)
	admin.HandleFunc("/blocked-times", blockedTimes.Create).Methods(http.MethodPost)
	admin.HandleFunc("/blocked-times/{id}", blockedTimes.Delete).Methods(http.MethodDelete)

	// --- Настройки магазина ---
	admin.HandleFunc("/settings", getStoreSettings.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/settings", updateStoreSettings.Handle).Methods(http.MethodPut)

	// ============================================================
	// SUPER ADMIN ROUTES
	// ============================================================

	superAdmin := protected.PathPrefix("/super-admin").Subrouter()
	superAdmin.Use(middleware.RequireRole(domain.RoleSuperAdmin))
	superAdmin.HandleFunc("/feature-flags", featureFlags.Update).Methods(http.MethodPut)

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

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}

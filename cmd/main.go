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
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	cancelBookingHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/cancel_booking"
	createBlockHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/create_block"
	createBookingHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/create_booking"
	deleteBlockHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/delete_block"
	findNextAvailableHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/find_next_available"
	getAvailableSlotsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_booking"
	getLocationBookingsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_location_bookings"
	getResourceScheduleHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_resource_schedule"
	listBlocksHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/list_blocks"
	replaceResourceScheduleHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/replace_resource_schedule"
	rescheduleBookingHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/reschedule_booking"
	updateBookingStatusHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/update_booking_status"
	validateBookingHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/validate_booking"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/config"
	blockRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/block"
	bookingRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/catalog"
	outboxRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/outbox"
	scheduleRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/schedule"
	tenantRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/notifier"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability"
	bookingsService "github.com/m04kA/SMC-SchedulingService/internal/service/bookings"
	calendarService "github.com/m04kA/SMC-SchedulingService/internal/service/calendar"
	createBookingUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/create_booking"
	rescheduleBookingUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/reschedule_booking"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/metrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/txmanager"
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

	log.Info("Starting SMC-SchedulingService...")

	// Метрики (nil, если выключены: все потребители это допускают)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	sqlDB, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer sqlDB.Close()

	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := sqlDB.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	db := dbmetrics.WrapWithDefault(sqlDB, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(db, metricsCollector)

	// Репозитории
	catalogRepository := catalogRepo.NewRepository(db)
	scheduleRepository := scheduleRepo.NewRepository(db)
	blockRepository := blockRepo.NewRepository(db)
	bookingRepository := bookingRepo.NewRepository(db)
	outboxRepository := outboxRepo.NewRepository(db)

	// Реестр арендаторов, при включённом Redis с кешем
	tenantRepository := tenantRepo.NewRepository(db)
	var tenantRegistry middleware.TenantRegistry = tenantRepository
	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		pingCtx, pingCancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Warn("Redis unavailable at %s, continuing without cache: %v", cfg.Redis.Addr, err)
		}
		pingCancel()

		tenantRegistry = tenantRepo.NewCachedRegistry(
			tenantRepository,
			rdb,
			cfg.Redis.TenantCacheTTLDuration(),
			log,
		)
		log.Info("Tenant cache enabled (redis=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.TenantCacheTTL)
	}

	// Сервисы
	availabilitySvc := availability.NewService(
		catalogRepository,
		scheduleRepository,
		blockRepository,
		bookingRepository,
		availability.Config{
			GranularityMinutes: cfg.Slots.GranularityMinutes,
			SearchDays:         cfg.Slots.SearchDays,
			DefaultSearchLimit: cfg.Slots.DefaultSearchLimit,
			MaxSearchLimit:     cfg.Slots.MaxSearchLimit,
		},
		metricsCollector,
		log,
	)
	bookingSvc := bookingsService.NewService(bookingRepository, outboxRepository, txMgr, log)
	calendarSvc := calendarService.NewService(
		catalogRepository,
		scheduleRepository,
		blockRepository,
		txMgr,
		cfg.Slots.SearchDays,
		log,
	)

	// Use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		outboxRepository,
		availabilitySvc,
		txMgr,
		metricsCollector,
		log,
	)
	rescheduleBookingUseCase := rescheduleBookingUC.NewUseCase(
		bookingRepository,
		outboxRepository,
		availabilitySvc,
		txMgr,
		log,
	)

	// Handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(availabilitySvc, log)
	findNextAvailable := findNextAvailableHandler.NewHandler(availabilitySvc, log)
	validateBooking := validateBookingHandler.NewHandler(availabilitySvc, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	rescheduleBooking := rescheduleBookingHandler.NewHandler(rescheduleBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getLocationBookings := getLocationBookingsHandler.NewHandler(bookingSvc, log)
	getResourceSchedule := getResourceScheduleHandler.NewHandler(calendarSvc, log)
	replaceResourceSchedule := replaceResourceScheduleHandler.NewHandler(calendarSvc, log)
	createBlock := createBlockHandler.NewHandler(calendarSvc, log)
	listBlocks := listBlocksHandler.NewHandler(calendarSvc, log)
	deleteBlock := deleteBlockHandler.NewHandler(calendarSvc, log)

	// Роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			log.Error("GET /healthz - Database ping failed: %v", err)
			handlers.RespondError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// Все API маршруты требуют заголовок X-Organization
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Tenant(tenantRegistry, log))

	if rdb != nil && cfg.Redis.RateLimit > 0 {
		limiter, err := middleware.NewRateLimiter(rdb, cfg.Redis.RateLimit, cfg.Redis.RateWindowDuration(), log).
			WithTrustedProxies(cfg.Redis.TrustedProxies)
		if err != nil {
			log.Fatal("Failed to configure rate limiter: %v", err)
		}
		api.Use(limiter.Middleware)
		log.Info("Rate limit enabled: %d requests per %ds, trusted proxies: %v",
			cfg.Redis.RateLimit, cfg.Redis.RateWindow, cfg.Redis.TrustedProxies)
	}

	// --- Доступность ---
	api.HandleFunc("/resources/{resourceId}/slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/locations/{locationId}/next-available", findNextAvailable.Handle).Methods(http.MethodGet)

	// --- Бронирования ---
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings/validate", validateBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{bookingId}/schedule", rescheduleBooking.Handle).Methods(http.MethodPut)
	api.HandleFunc("/locations/{locationId}/bookings", getLocationBookings.Handle).Methods(http.MethodGet)

	// --- Календарь ресурса ---
	api.HandleFunc("/resources/{resourceId}/schedule", getResourceSchedule.Handle).Methods(http.MethodGet)
	api.HandleFunc("/resources/{resourceId}/schedule", replaceResourceSchedule.Handle).Methods(http.MethodPut)
	api.HandleFunc("/resources/{resourceId}/blocks", createBlock.Handle).Methods(http.MethodPost)
	api.HandleFunc("/resources/{resourceId}/blocks", listBlocks.Handle).Methods(http.MethodGet)
	api.HandleFunc("/blocks/{blockId}", deleteBlock.Handle).Methods(http.MethodDelete)

	// Публикация событий из outbox
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	publisherDone := make(chan struct{})
	if cfg.Kafka.Enabled {
		publisher := notifier.NewPublisher(
			outboxRepository,
			notifier.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic),
			txMgr,
			notifier.Config{
				PollInterval: cfg.Kafka.PollIntervalDuration(),
				BatchSize:    cfg.Kafka.BatchSize,
			},
			metricsCollector,
			log,
		)
		go func() {
			defer close(publisherDone)
			publisher.Run(workerCtx)
		}()
		log.Info("Outbox publisher started (brokers=%v, topic=%s)", cfg.Kafka.Brokers, cfg.Kafka.Topic)
	} else {
		close(publisherDone)
	}

	// HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

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

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	stopWorkers()
	select {
	case <-publisherDone:
	case <-shutdownCtx.Done():
		log.Warn("Outbox publisher did not stop in time")
	}

	close(stopMetricsCh)
	log.Info("Server stopped gracefully")
}

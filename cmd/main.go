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

	cancelBookingHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/cancel_booking"
	cancelTimeOffHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/cancel_time_off"
	completeBookingHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/complete_booking"
	createClosedPeriodHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/create_closed_period"
	deactivateClosedPeriodHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/deactivate_closed_period"
	getAvailabilityHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_availability"
	getBookingHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_booking"
	getEmployeeTimeOffHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_employee_time_off"
	getPlaceBookingsHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_place_bookings"
	getRewardsBalanceHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_rewards_balance"
	getUserBookingsHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_user_bookings"
	quotePriceHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/quote_price"
	requestTimeOffHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/request_time_off"
	reviewTimeOffHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/review_time_off"
	submitBookingHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/submit_booking"
	updateRewardSettingsHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/update_reward_settings"
	"github.com/m04kA/SMC-SalonService/internal/api/middleware"
	"github.com/m04kA/SMC-SalonService/internal/config"
	bookingRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/booking"
	campaignRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/campaign"
	rewardsRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/rewards"
	scheduleRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/schedule"
	timeoffRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/timeoff"
	notifyServiceClient "github.com/m04kA/SMC-SalonService/internal/integrations/notifyservice"
	placeServiceClient "github.com/m04kA/SMC-SalonService/internal/integrations/placeservice"
	blockedTimeService "github.com/m04kA/SMC-SalonService/internal/service/blockedtime"
	bookingsService "github.com/m04kA/SMC-SalonService/internal/service/bookings"
	pricingService "github.com/m04kA/SMC-SalonService/internal/service/pricing"
	rewardsService "github.com/m04kA/SMC-SalonService/internal/service/rewards"
	timeoffService "github.com/m04kA/SMC-SalonService/internal/service/timeoff"
	getAvailabilityUC "github.com/m04kA/SMC-SalonService/internal/usecase/get_availability"
	quotePriceUC "github.com/m04kA/SMC-SalonService/internal/usecase/quote_price"
	submitBookingUC "github.com/m04kA/SMC-SalonService/internal/usecase/submit_booking"
	"github.com/m04kA/SMC-SalonService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonService/pkg/logger"
	"github.com/m04kA/SMC-SalonService/pkg/metrics"
	"github.com/m04kA/SMC-SalonService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-SalonService/pkg/txmanager"
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

	log.Info("Starting SMC-SalonService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем интеграционных клиентов
	placeClient := placeServiceClient.NewClient(
		cfg.PlaceService.URL,
		time.Duration(cfg.PlaceService.Timeout)*time.Second,
		log,
	)
	notifyClient := notifyServiceClient.NewClient(
		cfg.NotifyService.URL,
		time.Duration(cfg.NotifyService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (PlaceService=%s timeout=%ds, NotifyService=%s timeout=%ds)",
		cfg.PlaceService.URL, cfg.PlaceService.Timeout, cfg.NotifyService.URL, cfg.NotifyService.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository  *bookingRepo.Repository
		scheduleRepository *scheduleRepo.Repository
		timeoffRepository  *timeoffRepo.Repository
		campaignRepository *campaignRepo.Repository
		rewardsRepository  *rewardsRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		scheduleRepository = scheduleRepo.NewRepository(wrappedDB)
		timeoffRepository = timeoffRepo.NewRepository(wrappedDB)
		campaignRepository = campaignRepo.NewRepository(wrappedDB)
		rewardsRepository = rewardsRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		scheduleRepository = scheduleRepo.NewRepository(db)
		timeoffRepository = timeoffRepo.NewRepository(db)
		campaignRepository = campaignRepo.NewRepository(db)
		rewardsRepository = rewardsRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	blockedTimeResolver := blockedTimeService.NewResolver(
		timeoffRepository,
		scheduleRepository,
		log,
	)
	pricingEngine := pricingService.NewEngine(
		campaignRepository,
		log,
	)
	rewardsCalculator := rewardsService.NewCalculator(
		rewardsRepository,
		campaignRepository,
		log,
	)
	rewardsAdmin := rewardsService.NewAdmin(
		rewardsRepository,
		placeClient,
		log,
	)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		placeClient,
		log,
	)
	timeoffSvc := timeoffService.NewService(
		timeoffRepository,
		placeClient,
		&timeoffService.RealTimeProvider{},
		log,
	)

	// Инициализируем use cases
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		bookingRepository,
		scheduleRepository,
		blockedTimeResolver,
		placeClient,
		log,
	)
	submitBookingUseCase := submitBookingUC.NewUseCase(
		bookingRepository,
		scheduleRepository,
		blockedTimeResolver,
		pricingEngine,
		rewardsCalculator,
		rewardsRepository,
		placeClient,
		notifyClient,
		txMgr,
		log,
	)
	quotePriceUseCase := quotePriceUC.NewUseCase(
		pricingEngine,
		rewardsCalculator,
		placeClient,
		log,
	)

	// Инициализируем handlers
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	submitBooking := submitBookingHandler.NewHandler(submitBookingUseCase, log)
	quotePrice := quotePriceHandler.NewHandler(quotePriceUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	completeBooking := completeBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getPlaceBookings := getPlaceBookingsHandler.NewHandler(bookingSvc, log)
	requestTimeOff := requestTimeOffHandler.NewHandler(timeoffSvc, log)
	reviewTimeOff := reviewTimeOffHandler.NewHandler(timeoffSvc, log)
	cancelTimeOff := cancelTimeOffHandler.NewHandler(timeoffSvc, log)
	getEmployeeTimeOff := getEmployeeTimeOffHandler.NewHandler(timeoffSvc, log)
	createClosedPeriod := createClosedPeriodHandler.NewHandler(timeoffSvc, log)
	deactivateClosedPeriod := deactivateClosedPeriodHandler.NewHandler(timeoffSvc, log)
	getRewardsBalance := getRewardsBalanceHandler.NewHandler(rewardsAdmin, log)
	updateRewardSettings := updateRewardSettingsHandler.NewHandler(rewardsAdmin, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Доступные слоты для записи
	api.HandleFunc("/places/{placeId}/availability", getAvailability.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи клиентов ---
	// Создание записи
	protected.HandleFunc("/bookings", submitBooking.Handle).Methods(http.MethodPost)

	// Получение записи по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Отмена записи
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// Завершение записи (для менеджеров)
	protected.HandleFunc("/bookings/{bookingId}/complete", completeBooking.Handle).Methods(http.MethodPatch)

	// История записей пользователя
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Управление заведением (для менеджеров) ---
	// Список записей заведения
	protected.HandleFunc("/places/{placeId}/bookings", getPlaceBookings.Handle).Methods(http.MethodGet)

	// Предварительный расчет стоимости
	protected.HandleFunc("/places/{placeId}/price-quote", quotePrice.Handle).Methods(http.MethodPost)

	// --- Отгулы и закрытые периоды ---
	// Заявка на отгул
	protected.HandleFunc("/time-off", requestTimeOff.Handle).Methods(http.MethodPost)

	// Рассмотрение заявки (для менеджеров)
	protected.HandleFunc("/time-off/{entryId}/review", reviewTimeOff.Handle).Methods(http.MethodPatch)

	// Отмена заявки
	protected.HandleFunc("/time-off/{entryId}/cancel", cancelTimeOff.Handle).Methods(http.MethodPatch)

	// Отгулы сотрудника
	protected.HandleFunc("/places/{placeId}/employees/{employeeId}/time-off",
		getEmployeeTimeOff.Handle).Methods(http.MethodGet)

	// Закрытые периоды заведения (для менеджеров)
	protected.HandleFunc("/places/{placeId}/closed-periods",
		createClosedPeriod.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/places/{placeId}/closed-periods/{periodId}/deactivate",
		deactivateClosedPeriod.Handle).Methods(http.MethodPatch)

	// --- Программа лояльности ---
	// Баланс баллов пользователя
	protected.HandleFunc("/places/{placeId}/rewards/balance", getRewardsBalance.Handle).Methods(http.MethodGet)

	// Настройки программы (для менеджеров)
	protected.HandleFunc("/places/{placeId}/rewards/settings",
		updateRewardSettings.Handle).Methods(http.MethodPut)

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
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

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

package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/KeshavDaBoss/smartparkv5/internal/api"
	"github.com/KeshavDaBoss/smartparkv5/internal/api/handler"
	"github.com/KeshavDaBoss/smartparkv5/internal/api/middleware"
	"github.com/KeshavDaBoss/smartparkv5/internal/config"
	"github.com/KeshavDaBoss/smartparkv5/internal/domain"
	"github.com/KeshavDaBoss/smartparkv5/internal/hardware"
	"github.com/KeshavDaBoss/smartparkv5/internal/iot"
	"github.com/KeshavDaBoss/smartparkv5/internal/repository"
	"github.com/KeshavDaBoss/smartparkv5/internal/repository/memory"
	"github.com/KeshavDaBoss/smartparkv5/internal/repository/postgresql"
	"github.com/KeshavDaBoss/smartparkv5/internal/service"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsgo_config "github.com/aws/aws-sdk-go-v2/config" // Alias để tránh trùng tên
	"github.com/aws/aws-sdk-go-v2/service/iotdataplane"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	topology, err := config.LoadTopology(cfg.TopologyFile)
	if err != nil {
		log.Fatalf("Không thể tải topology: %v", err)
	}
	log.Printf("Cấu hình đã được tải. %d slot, %d cảm biến local, %d cảm biến remote.",
		len(topology.Slots), len(topology.LocalSensors), len(topology.RemoteSensors.Slots))

	// 2. Stores: registry + ledger luôn in-memory; user store và event log dùng Postgres nếu có DB
	slotRepo := memory.NewSlotRegistry(topology.Slots)
	reservationRepo := memory.NewReservationLedger()
	var userRepo repository.UserRepository
	var eventLogRepo repository.SensorEventsLogRepository
	var db *sql.DB
	if cfg.UsePostgres() {
		db, err = postgresql.NewDB(cfg)
		if err != nil {
			log.Fatalf("Không thể kết nối database: %v", err)
		}
		defer db.Close()
		if err := postgresql.Migrate(db); err != nil {
			log.Fatalf("Không thể tạo schema: %v", err)
		}
		userRepo = postgresql.NewPgUserRepository(db)
		eventLogRepo = postgresql.NewPgSensorEventsLogRepository(db)
		log.Println("Đã kết nối database thành công!")
	} else {
		userRepo = memory.NewUserRepository()
		eventLogRepo = memory.NewSensorEventsLogRepository(512)
		log.Println("DB_HOST chưa được cấu hình, dùng store in-memory.")
	}

	// 3. AWS SDK config (chỉ cần khi dùng backend iot hoặc SQS)
	var awsSDKCfg aws.Config
	needAWS := cfg.HardwareBackend == "iot" || cfg.SQSSensorQueueURL != ""
	if needAWS {
		awsSDKCfg, err = awsgo_config.LoadDefaultConfig(context.TODO(), awsgo_config.WithRegion(cfg.AWSRegion))
		if err != nil {
			log.Fatalf("Không thể tải AWS SDK config: %v", err)
		}
		log.Println("Đã tải AWS SDK config thành công cho region:", cfg.AWSRegion)
	}

	// 4. Hardware backend. Driver GPIO thật nằm ngoài service này nên cảm biến local luôn là mock.
	sensor := hardware.WithTimeout(hardware.NewMockSensor(cfg.MockDistanceCM), cfg.SensorTimeout)
	var indicator hardware.Indicator
	switch cfg.HardwareBackend {
	case "iot":
		iotDataPlaneClient := iotdataplane.NewFromConfig(awsSDKCfg, func(o *iotdataplane.Options) {
			if cfg.IoTMQTTEndpoint != "" {
				endpointWithSchema := cfg.IoTMQTTEndpoint
				if !strings.HasPrefix(endpointWithSchema, "https://") && !strings.HasPrefix(endpointWithSchema, "http://") {
					endpointWithSchema = "https://" + endpointWithSchema
				}
				o.BaseEndpoint = aws.String(endpointWithSchema)
			}
		})
		ledSlots := make([]string, 0)
		for slotID := range topology.LocalLEDPins() {
			ledSlots = append(ledSlots, slotID)
		}
		ledSlots = append(ledSlots, topology.RemoteSensors.LEDs...)
		indicator = hardware.NewIoTIndicator(iotDataPlaneClient, cfg.IoTIndicatorTopicPrefix, ledSlots).
			WithResendInterval(cfg.IndicatorResendInterval)
		log.Println("Đã khởi tạo IoT Data Plane client cho đèn báo.")
	default:
		indicator = hardware.NewMockIndicator(topology.LocalLEDPins())
		log.Println("Not running on hardware. Indicators will be mocked.")
	}

	// init websocket manager
	webSocketManager := handler.NewWebSocketManager()
	go webSocketManager.Start()

	// 5. Initialize Services
	clock := service.Clock(time.Now)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpirationHours)
	indicatorService := service.NewIndicatorService(slotRepo, reservationRepo, indicator, clock)
	reservationService := service.NewReservationService(slotRepo, reservationRepo, userRepo,
		indicatorService, webSocketManager, clock)
	occupancyService := service.NewOccupancyService(slotRepo, eventLogRepo, sensor,
		indicatorService, webSocketManager, topology, cfg.OccupancyThresholdCM, clock)

	if err := seedUsers(context.Background(), authService); err != nil {
		log.Fatalf("Không thể tạo user mặc định: %v", err)
	}

	// 6. Background: sync loop + SQS consumer
	var wg sync.WaitGroup
	bgCtx, cancelBackground := context.WithCancel(context.Background())

	syncLoop := service.NewSyncLoop(occupancyService, indicatorService, cfg.TickInterval)
	wg.Add(1)
	go func() {
		defer wg.Done()
		syncLoop.Run(bgCtx)
	}()

	if cfg.SQSSensorQueueURL == "" {
		log.Println("SQS_SENSOR_QUEUE_URL chưa được cấu hình. SQS Consumer sẽ không chạy.")
	} else {
		sqsConsumer := iot.NewSQSConsumer(sqs.NewFromConfig(awsSDKCfg), cfg.SQSSensorQueueURL, occupancyService)
		wg.Add(1)
		go func() {
			defer wg.Done()
			sqsConsumer.Start(bgCtx)
			log.Println("SQS Consumer đã dừng.")
		}()
	}

	// 7. HTTP
	authMiddleware := middleware.NewAuthMiddleware(authService)
	ingestLimiter := middleware.NewRateLimiter(cfg.IngestRatePerSec, cfg.IngestBurst)
	router := api.SetupRouter(authService, reservationService, occupancyService, authMiddleware, ingestLimiter, webSocketManager)

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server đang chạy trên port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Lỗi ListenAndServe(): %v", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Đang tắt server...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server buộc phải tắt: %v", err)
	}

	cancelBackground()
	c := make(chan struct{})
	go func() {
		defer close(c)
		wg.Wait()
	}()
	select {
	case <-c:
		log.Println("Background workers đã dừng hoàn toàn.")
	case <-time.After(5 * time.Second):
		log.Println("Background workers không dừng trong thời gian chờ.")
	}

	log.Println("Server đã tắt.")
}

// seedUsers tạo ba user mẫu: thường, khuyết tật, người già.
func seedUsers(ctx context.Context, as *service.AuthService) error {
	seeds := []struct {
		id  string
		dto domain.SignupUserDTO
	}{
		{"user1", domain.SignupUserDTO{Username: "user1", Password: "password"}},
		{"user2", domain.SignupUserDTO{Username: "user2", Password: "password", IsDisabled: true}},
		{"user3", domain.SignupUserDTO{Username: "user3", Password: "password", IsElderly: true}},
	}
	for _, s := range seeds {
		if err := as.SeedUser(ctx, s.id, s.dto); err != nil {
			return err
		}
	}
	log.Printf("Đã khởi tạo %d user mặc định.", len(seeds))
	return nil
}

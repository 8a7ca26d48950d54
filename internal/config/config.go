package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string

	TickInterval         time.Duration // Chu kỳ poll cảm biến + sync đèn
	OccupancyThresholdCM float64       // < ngưỡng => occupied
	SensorTimeout        time.Duration // Timeout mỗi lần đọc cảm biến local
	HardwareBackend      string        // "mock" hoặc "iot"
	MockDistanceCM       float64
	TopologyFile         string

	DBHost     string // Rỗng => dùng store in-memory
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	AWSRegion               string
	SQSSensorQueueURL       string
	IoTMQTTEndpoint         string
	IoTIndicatorTopicPrefix string
	IndicatorResendInterval time.Duration // Gửi lại trạng thái đèn không đổi sau khoảng này

	JWTSecret          string        // Secret key cho JWT
	JWTExpirationHours time.Duration // Thời gian hết hạn của JWT

	IngestRatePerSec float64
	IngestBurst      int
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		log.Printf("Cảnh báo: Không thể tải file .env: %v", err)
	}

	tickMs, _ := strconv.Atoi(getEnv("TICK_INTERVAL_MS", "1000"))
	threshold, _ := strconv.ParseFloat(getEnv("OCCUPANCY_THRESHOLD_CM", "10"), 64)
	sensorTimeoutMs, _ := strconv.Atoi(getEnv("SENSOR_TIMEOUT_MS", "40"))
	mockDistance, _ := strconv.ParseFloat(getEnv("MOCK_DISTANCE_CM", "999"), 64)
	dbPort, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	jwtExpHours, _ := strconv.Atoi(getEnv("JWT_EXPIRATION_HOURS", "24")) // Mặc định 24 giờ
	ingestRate, _ := strconv.ParseFloat(getEnv("INGEST_RATE_PER_SEC", "5"), 64)
	ingestBurst, _ := strconv.Atoi(getEnv("INGEST_BURST", "10"))
	resendSec, _ := strconv.Atoi(getEnv("INDICATOR_RESEND_SECONDS", "30"))

	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8000"),

		TickInterval:         time.Duration(tickMs) * time.Millisecond,
		OccupancyThresholdCM: threshold,
		SensorTimeout:        time.Duration(sensorTimeoutMs) * time.Millisecond,
		HardwareBackend:      getEnv("HARDWARE_BACKEND", "mock"),
		MockDistanceCM:       mockDistance,
		TopologyFile:         getEnv("TOPOLOGY_FILE", ""),

		DBHost:     getEnv("DB_HOST", ""),
		DBPort:     dbPort,
		DBUser:     getEnv("DB_USER", "smartpark"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "smartpark"),
		DBSslMode:  getEnv("DB_SSLMODE", "disable"),

		AWSRegion:               getEnv("AWS_REGION", "ap-south-1"),
		SQSSensorQueueURL:       getEnv("SQS_SENSOR_QUEUE_URL", ""),
		IoTMQTTEndpoint:         getEnv("IOT_MQTT_ENDPOINT", ""),
		IoTIndicatorTopicPrefix: getEnv("IOT_INDICATOR_TOPIC_PREFIX", "smartpark/command/indicators"),
		IndicatorResendInterval: time.Duration(resendSec) * time.Second,

		JWTSecret:          getEnv("JWT_SECRET", "change-me-smartpark-jwt-secret"), // << THAY BẰNG SECRET KEY MẠNH HƠN
		JWTExpirationHours: time.Duration(jwtExpHours) * time.Hour,

		IngestRatePerSec: ingestRate,
		IngestBurst:      ingestBurst,
	}
}

// UsePostgres cho biết có cấu hình DB hay không.
func (c *Config) UsePostgres() bool {
	return c.DBHost != ""
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Biến môi trường '%s' không được đặt, sử dụng giá trị mặc định: '%s'", key, fallback)
	return fallback
}

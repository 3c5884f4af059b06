package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config содержит конфигурацию сервера
type Config struct {
	Port                 int
	MaxPeriods           int
	MaxScheduleLength    int
	MaxAbsValue          float64
	UnusualRateThreshold float64
	OTELEndpoint         string
	OTELServiceName      string
	LogLevel             string
	CORSAllowedOrigins   []string
}

// LoadConfig загружает конфигурацию из переменных окружения
func LoadConfig() (*Config, error) {
	// Загружаем .env файл, если он существует (игнорируем ошибку)
	_ = godotenv.Load()

	cfg := &Config{
		Port:                 getEnvInt("PORT", 8000),
		MaxPeriods:           getEnvInt("MAX_PERIODS", 12000),
		MaxScheduleLength:    getEnvInt("MAX_SCHEDULE_LENGTH", 12000),
		MaxAbsValue:          getEnvFloat("MAX_ABS_VALUE", 1e15),
		UnusualRateThreshold: getEnvFloat("UNUSUAL_RATE_THRESHOLD", 1.0),
		OTELEndpoint:         getEnvString("OTEL_ENDPOINT", ""),
		OTELServiceName:      getEnvString("OTEL_SERVICE_NAME", "mcp-tvm-server"),
		LogLevel:             getEnvString("LOG_LEVEL", "INFO"),
		CORSAllowedOrigins:   getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}

	return cfg, nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvList читает список через запятую; пустые элементы отбрасываются
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var list []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	if len(list) == 0 {
		return defaultValue
	}
	return list
}

// ValueCap возвращает максимальный модуль денежной суммы для защиты от переполнения
func (c *Config) ValueCap() float64 {
	return c.MaxAbsValue
}

// RateWarningThreshold возвращает порог модуля ставки, выше которого выдается предупреждение
func (c *Config) RateWarningThreshold() float64 {
	return c.UnusualRateThreshold
}

package cfg

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

type BackendConfig struct {
	BaseURL string
}

type OTPConfig struct {
	Enabled               bool
	ResendCooldownSeconds int
}

type OtelConfig struct {
	Endpoint    string
	ServiceName string
	Environment string
}

type Config struct {
	AppEnv            string
	AppPort           string
	RedisConfig       RedisConfig
	BackendConfig     BackendConfig
	OTPConfig         OTPConfig
	OtelConfig        OtelConfig
	SessionTTLMinutes int
	SnowflakeNodeID   int64
}

func Load() (*Config, error) {
	var errs []error

	err := godotenv.Load()
	if err != nil {
		return nil, errors.New("failed load cfg: " + err.Error())
	}

	appEnv := mustEnv("APP_ENV", &errs)
	appPort := mustEnv("APP_PORT", &errs)
	redisHost := mustEnv("REDIS_HOST", &errs)
	redisPort := mustEnv("REDIS_PORT", &errs)
	redisPassword := os.Getenv("REDIS_PASSWORD")

	backendBaseURL := mustEnv("BACKEND_BASE_URL", &errs)

	sessionTTL := mustEnv("SESSION_TTL_MINUTES", &errs)
	sessionTTLInt, err := strconv.Atoi(sessionTTL)
	if err != nil {
		errs = append(errs, errors.New("conversion failed env: "+"SESSION_TTL_MINUTES"))
	}

	otpEnabled := os.Getenv("OTP_ENABLED") == "true"
	otpCooldown := 60
	if v := os.Getenv("OTP_RESEND_COOLDOWN_SECONDS"); v != "" {
		otpCooldown, err = strconv.Atoi(v)
		if err != nil {
			errs = append(errs, errors.New("conversion failed env: "+"OTP_RESEND_COOLDOWN_SECONDS"))
		}
	}

	var nodeID int64
	if v := os.Getenv("SNOWFLAKE_NODE_ID"); v != "" {
		nodeID, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, errors.New("conversion failed env: "+"SNOWFLAKE_NODE_ID"))
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return &Config{
		AppEnv:  appEnv,
		AppPort: appPort,
		RedisConfig: RedisConfig{
			Host:     redisHost,
			Port:     redisPort,
			Password: redisPassword,
		},
		BackendConfig: BackendConfig{
			BaseURL: backendBaseURL,
		},
		OTPConfig: OTPConfig{
			Enabled:               otpEnabled,
			ResendCooldownSeconds: otpCooldown,
		},
		OtelConfig: OtelConfig{
			Endpoint:    os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
			ServiceName: envOr("OTEL_SERVICE_NAME", "aerobook"),
			Environment: appEnv,
		},
		SessionTTLMinutes: sessionTTLInt,
		SnowflakeNodeID:   nodeID,
	}, nil
}

func mustEnv(key string, errs *[]error) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		*errs = append(*errs, errors.New("missing env: "+key))
	}
	return value
}

func envOr(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}
	return value
}

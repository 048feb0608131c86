package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Quality       QualityConfig
	Health        HealthConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"AQUASAFI_APP_ENV" required:"true"`
	Port         string `envconfig:"AQUASAFI_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"AQUASAFI_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"AQUASAFI_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"AQUASAFI_DB_DSN"`
	Driver string `envconfig:"AQUASAFI_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"AQUASAFI_DB_HOST"`
	LegacyPort     int    `envconfig:"AQUASAFI_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"AQUASAFI_DB_USER"`
	LegacyPassword string `envconfig:"AQUASAFI_DB_PASSWORD"`
	LegacyName     string `envconfig:"AQUASAFI_DB_NAME"`
	LegacySSLMode  string `envconfig:"AQUASAFI_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"AQUASAFI_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"AQUASAFI_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"AQUASAFI_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"AQUASAFI_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"AQUASAFI_REDIS_URL" required:"true"`
	Address      string        `envconfig:"AQUASAFI_REDIS_ADDR"`
	Password     string        `envconfig:"AQUASAFI_REDIS_PASSWORD"`
	DB           int           `envconfig:"AQUASAFI_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"AQUASAFI_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"AQUASAFI_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"AQUASAFI_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"AQUASAFI_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"AQUASAFI_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"AQUASAFI_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"AQUASAFI_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"AQUASAFI_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"AQUASAFI_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"AQUASAFI_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"AQUASAFI_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"AQUASAFI_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"AQUASAFI_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"AQUASAFI_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"AQUASAFI_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"AQUASAFI_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"AQUASAFI_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"AQUASAFI_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"AQUASAFI_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"AQUASAFI_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

// QualityConfig centralizes the water-quality scoring policy. Defaults match
// the operational thresholds the scoring has always used.
type QualityConfig struct {
	PHMin            float64 `envconfig:"AQUASAFI_QUALITY_PH_MIN" default:"6.5"`
	PHMax            float64 `envconfig:"AQUASAFI_QUALITY_PH_MAX" default:"8.5"`
	PHPenalty        int     `envconfig:"AQUASAFI_QUALITY_PH_PENALTY" default:"20"`
	TurbidityMax     float64 `envconfig:"AQUASAFI_QUALITY_TURBIDITY_MAX" default:"5"`
	TurbidityPenalty int     `envconfig:"AQUASAFI_QUALITY_TURBIDITY_PENALTY" default:"15"`
	ChlorineMin      float64 `envconfig:"AQUASAFI_QUALITY_CHLORINE_MIN" default:"0.2"`
	ChlorineMax      float64 `envconfig:"AQUASAFI_QUALITY_CHLORINE_MAX" default:"4.0"`
	ChlorinePenalty  int     `envconfig:"AQUASAFI_QUALITY_CHLORINE_PENALTY" default:"10"`
	EColiPenalty     int     `envconfig:"AQUASAFI_QUALITY_ECOLI_PENALTY" default:"30"`
	SafeThreshold    int     `envconfig:"AQUASAFI_QUALITY_SAFE_THRESHOLD" default:"70"`
}

// HealthConfig centralizes the system health blend weights and penalties.
type HealthConfig struct {
	AvailabilityWeight float64 `envconfig:"AQUASAFI_HEALTH_AVAILABILITY_WEIGHT" default:"0.3"`
	QualityWeight      float64 `envconfig:"AQUASAFI_HEALTH_QUALITY_WEIGHT" default:"0.3"`
	MaintenanceWeight  float64 `envconfig:"AQUASAFI_HEALTH_MAINTENANCE_WEIGHT" default:"0.2"`
	AlertWeight        float64 `envconfig:"AQUASAFI_HEALTH_ALERT_WEIGHT" default:"0.2"`
	OverduePenalty     int     `envconfig:"AQUASAFI_HEALTH_OVERDUE_PENALTY" default:"10"`
	CriticalPenalty    int     `envconfig:"AQUASAFI_HEALTH_CRITICAL_PENALTY" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"AQUASAFI_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}

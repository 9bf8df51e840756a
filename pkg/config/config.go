package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	CORS          CORSConfig
	FeatureFlags  FeatureFlagsConfig
	Demo          DemoConfig
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
	Env          string `envconfig:"FUELTRIPS_APP_ENV" required:"true"`
	Port         string `envconfig:"FUELTRIPS_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"FUELTRIPS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FUELTRIPS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FUELTRIPS_DB_DSN"`
	Driver string `envconfig:"FUELTRIPS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FUELTRIPS_DB_HOST"`
	LegacyPort     int    `envconfig:"FUELTRIPS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FUELTRIPS_DB_USER"`
	LegacyPassword string `envconfig:"FUELTRIPS_DB_PASSWORD"`
	LegacyName     string `envconfig:"FUELTRIPS_DB_NAME"`
	LegacySSLMode  string `envconfig:"FUELTRIPS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FUELTRIPS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FUELTRIPS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FUELTRIPS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FUELTRIPS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the local sqlite driver was selected.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DriverSQLite)
}

// RedisConfig is optional; an empty URL and address disables redis-backed features.
type RedisConfig struct {
	URL          string        `envconfig:"FUELTRIPS_REDIS_URL"`
	Address      string        `envconfig:"FUELTRIPS_REDIS_ADDR"`
	Password     string        `envconfig:"FUELTRIPS_REDIS_PASSWORD"`
	DB           int           `envconfig:"FUELTRIPS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FUELTRIPS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FUELTRIPS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FUELTRIPS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FUELTRIPS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FUELTRIPS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"FUELTRIPS_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"FUELTRIPS_JWT_ISSUER" default:"fueltrips"`
	ExpirationMinutes int    `envconfig:"FUELTRIPS_JWT_EXPIRATION_MINUTES" default:"1440"`
}

// TTL returns the access token lifetime.
func (j JWTConfig) TTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FUELTRIPS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FUELTRIPS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FUELTRIPS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FUELTRIPS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FUELTRIPS_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"FUELTRIPS_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"FUELTRIPS_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"FUELTRIPS_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"FUELTRIPS_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"FUELTRIPS_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"FUELTRIPS_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"FUELTRIPS_CORS_ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"FUELTRIPS_AUTO_MIGRATE" default:"false"`
}

// DemoConfig seeds the demo administrator used by the dashboard walkthrough.
type DemoConfig struct {
	Email    string `envconfig:"FUELTRIPS_DEMO_EMAIL" default:"admin@fleetlogix.com"`
	Password string `envconfig:"FUELTRIPS_DEMO_PASSWORD" default:"admin123"`
	Name     string `envconfig:"FUELTRIPS_DEMO_NAME" default:"Administrador"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		db.DSN = "file:fueltrips.db?cache=shared"
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

package config

import (
	"time"
)

type DB struct {
	Url             string        `envconfig:"URL" default:"sqlite://bank.db"`
	MaxOpenConns    int           `envconfig:"MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int           `envconfig:"MAX_IDLE_CONNS" default:"25"`
	ConnMaxLifetime time.Duration `envconfig:"CONN_MAX_LIFETIME" default:"1h"`
	Migrate         bool          `envconfig:"MIGRATE" default:"true"`
}

type Jwt struct {
	Secret string        `envconfig:"SECRET"`
	Expiry time.Duration `envconfig:"EXPIRY" default:"24h"`
}

// Auth configures the operator allowed to call mutating endpoints.
// PasswordHash is a bcrypt hash and wins over Password when both are set.
type Auth struct {
	Strategy     string `envconfig:"STRATEGY" default:"basic"`
	Username     string `envconfig:"USERNAME" default:"api"`
	Password     string `envconfig:"PASSWORD" default:"secret"`
	PasswordHash string `envconfig:"PASSWORD_HASH"`
	Jwt          *Jwt   `envconfig:"JWT"`
}

type EventBus struct {
	Driver          string        `envconfig:"DRIVER" default:"memory"`
	BreakerFailures uint32        `envconfig:"BREAKER_FAILURES" default:"5"`
	BreakerTimeout  time.Duration `envconfig:"BREAKER_TIMEOUT" default:"30s"`
}

type Redis struct {
	URL          string        `envconfig:"URL"`
	KeyPrefix    string        `envconfig:"KEY_PREFIX" default:"bank:"`
	Stream       string        `envconfig:"STREAM" default:"bank.events"`
	Group        string        `envconfig:"GROUP" default:"bank"`
	PoolSize     int           `envconfig:"POOL_SIZE" default:"10"`
	DialTimeout  time.Duration `envconfig:"DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"3s"`
}

type Kafka struct {
	Brokers       []string `envconfig:"BROKERS"`
	TopicPrefix   string   `envconfig:"TOPIC_PREFIX" default:"bank.events"`
	GroupID       string   `envconfig:"GROUP_ID" default:"bank"`
	SASLUsername  string   `envconfig:"SASL_USERNAME"`
	SASLPassword  string   `envconfig:"SASL_PASSWORD"`
	TLSEnabled    bool     `envconfig:"TLS_ENABLED" default:"false"`
	TLSCAFile     string   `envconfig:"TLS_CA_FILE"`
	TLSCertFile   string   `envconfig:"TLS_CERT_FILE"`
	TLSKeyFile    string   `envconfig:"TLS_KEY_FILE"`
	TLSSkipVerify bool     `envconfig:"TLS_SKIP_VERIFY" default:"false"`
}

type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
	Storage     string        `envconfig:"STORAGE" default:"memory"`
}

type Metrics struct {
	Enabled   bool   `envconfig:"ENABLED" default:"true"`
	Path      string `envconfig:"ENDPOINT" default:"/metrics"`
	Namespace string `envconfig:"NAMESPACE" default:"bank"`
}

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"text"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[bank]"`
}

type Server struct {
	Scheme          string        `envconfig:"SCHEME" default:"http"`
	Host            string        `envconfig:"HOST" default:"localhost"`
	Port            int           `envconfig:"PORT" default:"3000"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

type App struct {
	Env       string     `envconfig:"APP_ENV" default:"development"`
	Server    *Server    `envconfig:"SERVER"`
	Log       *Log       `envconfig:"LOG"`
	DB        *DB        `envconfig:"DATABASE"`
	Auth      *Auth      `envconfig:"AUTH"`
	EventBus  *EventBus  `envconfig:"EVENT_BUS"`
	Redis     *Redis     `envconfig:"REDIS"`
	Kafka     *Kafka     `envconfig:"KAFKA"`
	RateLimit *RateLimit `envconfig:"RATE_LIMIT"`
	Metrics   *Metrics   `envconfig:"METRICS"`
}

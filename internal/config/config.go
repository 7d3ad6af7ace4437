package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App      App
	Postgres Postgres
	Fragment Fragment
	Ingest   Ingest
	HTTP     HTTP
	Probe    Probe
	Metrics  Metrics
	Redis    Redis
	Memcache Memcache
	Bot      Bot
}

type App struct {
	Name      string `env:"APP_NAME" envDefault:"gift_parser"`
	Version   string `env:"APP_VERSION" envDefault:"dev"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

type Fragment struct {
	BaseURL      string        `env:"FRAGMENT_BASE_URL" envDefault:"https://fragment.com"`
	UserAgent    string        `env:"FRAGMENT_USER_AGENT"`
	Timeout      time.Duration `env:"FRAGMENT_TIMEOUT" envDefault:"10s"`
	BlockTime    time.Duration `env:"FRAGMENT_BLOCK_TIME" envDefault:"60s"`
	MaxBodyBytes int64         `env:"FRAGMENT_MAX_BODY_BYTES" envDefault:"5242880"`
	LogBodyMax   int           `env:"FRAGMENT_LOG_BODY_MAX" envDefault:"0"`
}

type Ingest struct {
	MinDelay      time.Duration `env:"INGEST_MIN_DELAY" envDefault:"100ms"`
	MaxDelay      time.Duration `env:"INGEST_MAX_DELAY" envDefault:"5s"`
	JobsRetention time.Duration `env:"JOBS_RETENTION" envDefault:"24h"`
}

type HTTP struct {
	ListenAddress   string        `env:"HTTP_LISTEN" envDefault:":8000"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
}

type Probe struct {
	ListenAddress string `env:"PROBE_LISTEN" envDefault:":8081"`
}

type Metrics struct {
	ListenAddress string `env:"METRICS_LISTEN" envDefault:":9090"`
}

// Redis необязателен: без адреса прогресс задач хранится в памяти процесса.
type Redis struct {
	Address        string `env:"REDIS_ADDR"`
	Username       string `env:"REDIS_USERNAME"`
	Password       string `env:"REDIS_PASSWORD" json:"-"`
	DatabaseNumber int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize       int    `env:"REDIS_POOL_SIZE" envDefault:"10"`
}

// Memcache необязателен: без адреса блокировка после 429 действует только в этом процессе.
type Memcache struct {
	Address      string        `env:"MEMCACHE_ADDR"`
	Timeout      time.Duration `env:"MEMCACHE_TIMEOUT" envDefault:"500ms"`
	MaxIdleConns int           `env:"MEMCACHE_MAX_IDLE_CONNS" envDefault:"4"`
}

// Bot необязателен: без токена бот и уведомления о задачах не запускаются.
type Bot struct {
	Token        string  `env:"BOT_TOKEN" json:"-"`
	AdminIDs     []int64 `env:"BOT_ADMIN_IDS" envSeparator:","`
	NotifyChatID int64   `env:"BOT_NOTIFY_CHAT_ID"`
	PageSize     int     `env:"BOT_PAGE_SIZE" envDefault:"10"`
}

func (b Bot) Enabled() bool {
	return strings.TrimSpace(b.Token) != ""
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	config.Postgres.DSN = correctNewlines(config.Postgres.DSN)

	return config, nil
}

func correctNewlines(s string) string {
	return strings.NewReplacer(`"`, "", `\n`, "\n").Replace(s)
}

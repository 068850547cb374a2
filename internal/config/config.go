package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort  string
	LogLevel string

	// Ledger node
	LedgerRPCURL         string
	LedgerConnectTimeout time.Duration
	FanoutLimit          int

	// Lending platform
	LoanTokenAddress string

	// Snapshot store (MySQL)
	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	// Idempotency cache
	RedisAddr        string
	RedisDB          int
	RedisPingTimeout time.Duration
	IdempTTLSecs     int
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getint(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func Load() *Config {
	// A missing .env is fine; env vars win either way.
	_ = godotenv.Load()

	return &Config{
		AppPort:  getenv("APP_PORT", "8080"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		LedgerRPCURL:         getenv("LEDGER_RPC_URL", "http://localhost:8547"),
		LedgerConnectTimeout: time.Duration(getint("LEDGER_CONNECT_TIMEOUT_SECONDS", 5)) * time.Second,
		FanoutLimit:          getint("FANOUT_LIMIT", 8),

		LoanTokenAddress: getenv("LOAN_TOKEN_ADDRESS", "0xDC9CFD00e9f6D066D9BcCd1A4aCCcEbc6EbCA71c"),

		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "brewlend"),
		MySQLUser: getenv("MYSQL_USER", "brewlend"),
		MySQLPass: getenv("MYSQL_PASS", "brewlend"),

		RedisAddr:        getenv("REDIS_ADDR", "redis:6379"),
		RedisDB:          getint("REDIS_DB", 0),
		RedisPingTimeout: time.Duration(getint("REDIS_PING_TIMEOUT_SECONDS", 5)) * time.Second,
		IdempTTLSecs:     getint("IDEMPOTENCY_TTL_SECONDS", 300),
	}
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	u, err := url.Parse(c.LedgerRPCURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid LEDGER_RPC_URL %q", c.LedgerRPCURL)
	}
	if c.LedgerConnectTimeout <= 0 {
		return errors.New("LEDGER_CONNECT_TIMEOUT_SECONDS must be positive")
	}
	if c.FanoutLimit <= 0 {
		return errors.New("FANOUT_LIMIT must be positive")
	}
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	// ensure port is valid
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}

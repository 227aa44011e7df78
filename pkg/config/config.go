package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type CredentialBackend string

const (
	BackendMemory   CredentialBackend = "memory"
	BackendFile     CredentialBackend = "file"
	BackendPostgres CredentialBackend = "postgres"
)

type Config struct {
	API        APIConfig
	Console    ConsoleConfig
	Credential CredentialConfig
	DB         DBConfig
	Workflow   WorkflowConfig
	LogDir     string
}

type APIConfig struct {
	Origin    string
	Namespace string
	Timeout   time.Duration
}

type ConsoleConfig struct {
	Addr string
}

type CredentialConfig struct {
	Backend CredentialBackend
	File    string
	Profile string
}

type DBConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	MaxOpenConns int
	MaxIdleConns int
}

type WorkflowConfig struct {
	PreviewDebounce time.Duration
	PageSize        int
}

// Load reads config.env when present; the process environment wins over it.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	timeout, err := durationEnv("LEDGER_HTTP_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}

	debounce, err := durationEnv("FX_PREVIEW_DEBOUNCE", 500*time.Millisecond)
	if err != nil {
		return nil, err
	}

	pageSize, err := intEnv("TRANSACTIONS_PAGE_SIZE", 10)
	if err != nil {
		return nil, err
	}
	if pageSize <= 0 {
		return nil, fmt.Errorf("invalid TRANSACTIONS_PAGE_SIZE: %d", pageSize)
	}

	cfg := &Config{
		API: APIConfig{
			Origin:    strings.TrimRight(getEnv("LEDGER_API_ORIGIN", "http://localhost:8080"), "/"),
			Namespace: getEnv("LEDGER_API_NAMESPACE", "/api"),
			Timeout:   timeout,
		},
		Console: ConsoleConfig{
			Addr: getEnv("CONSOLE_ADDR", ":8090"),
		},
		Credential: CredentialConfig{
			Backend: CredentialBackend(getEnv("CREDENTIAL_BACKEND", string(BackendFile))),
			File:    getEnv("CREDENTIAL_FILE", ".ledgerconsole/credentials.json"),
			Profile: getEnv("CREDENTIAL_PROFILE", "default"),
		},
		Workflow: WorkflowConfig{
			PreviewDebounce: debounce,
			PageSize:        pageSize,
		},
		LogDir: getEnv("LOG_DIR", "logs"),
	}

	switch cfg.Credential.Backend {
	case BackendMemory, BackendFile:
	case BackendPostgres:
		db, err := LoadConfigDB()
		if err != nil {
			return nil, err
		}
		cfg.DB = *db
	default:
		return nil, fmt.Errorf("invalid CREDENTIAL_BACKEND: %q", cfg.Credential.Backend)
	}

	return cfg, nil
}

func LoadConfigDB() (*DBConfig, error) {
	port, err := strconv.Atoi(os.Getenv("DB_PORT"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	maxOpen, err := intEnv("DB_MAX_OPEN_CONNS", 5)
	if err != nil {
		return nil, err
	}

	maxIdle, err := intEnv("DB_MAX_IDLE_CONNS", 2)
	if err != nil {
		return nil, err
	}

	return &DBConfig{
		Host:         os.Getenv("DB_HOST"),
		Port:         port,
		User:         os.Getenv("DB_USER"),
		Password:     os.Getenv("DB_PASSWORD"),
		Name:         os.Getenv("DB_NAME"),
		MaxOpenConns: maxOpen,
		MaxIdleConns: maxIdle,
	}, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

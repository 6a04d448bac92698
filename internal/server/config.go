package server

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/caarlos0/env/v11"

	domainerrors "taskmanager/internal/domain/errors"
)

type Config struct {
	Addr        string        `json:"addr"`
	Port        int           `json:"port"`
	DBStr       string        `json:"dbstr"`
	MigratePath string        `json:"migratepath"`
	JWTSecret   string        `json:"jwtsecret"`
	TokenTTL    time.Duration `json:"-"`
}

const (
	defaultAddr        = "0.0.0.0"
	defaultPort        = 8080
	defaultDBStr       = "postgresql://shouldbeinVaultuser:shouldbeinVaultpassword@db:5432/tasks?sslmode=disable"
	defaultMigratePath = "migrations"
	defaultTokenTTL    = 24 * time.Hour
)

var (
	addr        = flag.String("addr", defaultAddr, "server listen address")
	port        = flag.Int("port", defaultPort, "server listen port")
	dbstr       = flag.String("dbstr", defaultDBStr, "database connection string")
	dbDsn       = flag.String("dbdsn", "", "database DSN (takes precedence over -dbstr)")
	migratePath = flag.String("migratepath", defaultMigratePath, "path to the migrations directory")
	jwtSecret   = flag.String("jwtsecret", "", "secret used to sign identity tokens")
	configFile  = flag.String("c", "", "path to a JSON configuration file")
	parsed      = false
)

// envOverrides is the environment layer, parsed by caarlos0/env. The DB_*
// pieces assemble a DSN when no full connection string is given.
type envOverrides struct {
	Addr        string        `env:"ADDR"`
	Port        int           `env:"PORT"`
	DBStr       string        `env:"DB_STR"`
	MigratePath string        `env:"MIGRATE_PATH"`
	JWTSecret   string        `env:"JWT_SECRET"`
	TokenTTL    time.Duration `env:"TOKEN_TTL"`

	DBUser     string `env:"DB_USER"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME"`
	DBHost     string `env:"DB_HOST"`
	DBPort     string `env:"DB_PORT"`
}

// ReadConfig layers defaults, the optional JSON file, environment variables
// and command-line flags, in that order of increasing precedence.
func ReadConfig() *Config {
	if !parsed {
		flag.Parse()
		parsed = true
	}

	cfg := &Config{
		Addr:        defaultAddr,
		Port:        defaultPort,
		DBStr:       defaultDBStr,
		MigratePath: defaultMigratePath,
		TokenTTL:    defaultTokenTTL,
	}

	if jsonConfig := loadJSONConfig(); jsonConfig != nil {
		jsonConfig.TokenTTL = cfg.TokenTTL
		cfg = jsonConfig
	}

	cfg = applyEnvOverrides(cfg)
	cfg = applyFlagOverrides(cfg)

	if cfg.Port < 1 || cfg.Port > 65535 {
		log.Printf("[WARN] %s: port %d out of range, using %d", domainerrors.ErrConfigInvalidFormat, cfg.Port, defaultPort)
		cfg.Port = defaultPort
	}
	return cfg
}

func loadJSONConfig() *Config {
	configPath := *configFile
	if configPath == "" {
		configPath = os.Getenv("CONFIG")
	}
	if configPath == "" {
		return nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		log.Printf("[WARN] %s %s: %v", domainerrors.ErrConfigFileReadFailed, configPath, err)
		return nil
	}

	var jsonConfig Config
	if err := json.Unmarshal(data, &jsonConfig); err != nil {
		log.Printf("[WARN] %s: %v", domainerrors.ErrConfigParseFailed, err)
		return nil
	}

	log.Println("[SUCCESS] JSON configuration loaded from:", configPath)
	return &jsonConfig
}

func applyEnvOverrides(cfg *Config) *Config {
	var overrides envOverrides
	if err := env.Parse(&overrides); err != nil {
		log.Printf("[WARN] %s: %v", domainerrors.ErrConfigInvalidFormat, err)
		return cfg
	}

	if overrides.Addr != "" {
		cfg.Addr = overrides.Addr
	}
	if overrides.Port != 0 {
		cfg.Port = overrides.Port
	}
	if overrides.DBStr != "" {
		cfg.DBStr = overrides.DBStr
	}
	if overrides.MigratePath != "" {
		cfg.MigratePath = overrides.MigratePath
	}
	if overrides.JWTSecret != "" {
		cfg.JWTSecret = overrides.JWTSecret
	}
	if overrides.TokenTTL > 0 {
		cfg.TokenTTL = overrides.TokenTTL
	}

	if cfg.DBStr == defaultDBStr &&
		overrides.DBUser != "" && overrides.DBPassword != "" && overrides.DBName != "" &&
		overrides.DBHost != "" && overrides.DBPort != "" {
		cfg.DBStr = fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=disable",
			overrides.DBUser, overrides.DBPassword, overrides.DBHost, overrides.DBPort, overrides.DBName)
	}
	return cfg
}

func applyFlagOverrides(cfg *Config) *Config {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Addr = *addr
		case "port":
			cfg.Port = *port
		case "dbstr":
			cfg.DBStr = *dbstr
		case "dbdsn":
			cfg.DBStr = *dbDsn
		case "migratepath":
			cfg.MigratePath = *migratePath
		case "jwtsecret":
			cfg.JWTSecret = *jwtSecret
		}
	})
	return cfg
}

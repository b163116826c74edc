// config.go
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DriverMongo  = "mongo"
	DriverMySQL  = "mysql"
	DriverMemory = "memory"
)

type Config struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	GinMode         string        `env:"GIN_MODE" envDefault:"debug"`
	StorageDriver   string        `env:"STORAGE_DRIVER" envDefault:"mongo"`
	MongoURI        string        `env:"MONGO_URI" envDefault:"mongodb://host.docker.internal:27017"`
	MongoDBName     string        `env:"MONGO_DB_NAME" envDefault:"grocery_admin"`
	MySQLDSN        string        `env:"MYSQL_DSN"`
	RabbitURL       string        `env:"RABBIT_URL"`
	JWTSecret       string        `env:"JWT_SECRET"`
	JWTTTL          time.Duration `env:"JWT_TTL" envDefault:"24h"`
	DefaultPerPage  int           `env:"DEFAULT_PER_PAGE" envDefault:"15"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	Seed Seed `envPrefix:"SEED_"`
}

// Seed controls the demo data written by cmd/seeder.
type Seed struct {
	AdminName     string `env:"ADMIN_NAME" envDefault:"Administrator"`
	AdminEmail    string `env:"ADMIN_EMAIL" envDefault:"admin@grocery.local"`
	AdminPassword string `env:"ADMIN_PASSWORD" envDefault:"password123"`
	Buyers        int    `env:"BUYERS" envDefault:"20"`
	Orders        int    `env:"ORDERS" envDefault:"60"`
	RandSeed      int64  `env:"RAND_SEED" envDefault:"42"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[Config] .env tidak dapat dibaca: %v", err)
	}
	return parse(env.Options{})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageDriver {
	case DriverMongo, DriverMemory:
	case DriverMySQL:
		if c.MySQLDSN == "" {
			return fmt.Errorf("MYSQL_DSN must be set when STORAGE_DRIVER=%s", DriverMySQL)
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}
	if c.DefaultPerPage <= 0 {
		return fmt.Errorf("DEFAULT_PER_PAGE must be positive")
	}
	return nil
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

package config

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server   Server
	Database Database
	Redis    Redis
	Lock     Lock
	Security Security
	Log      Log
}

type Server struct {
	Port    string
	GinMode string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// Redis is optional. An empty Addr keeps per-key locks in process.
type Redis struct {
	Addr     string
	Password string
	DB       int
}

type Lock struct {
	TTL  time.Duration
	Wait time.Duration
}

type Security struct {
	BcryptCost int
}

type Log struct {
	Level string
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("GIN_MODE", "debug")
	viper.SetDefault("DATABASE_HOST", "localhost")
	viper.SetDefault("DATABASE_PORT", "5432")
	viper.SetDefault("DATABASE_SSLMODE", "disable")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("LOCK_TTL_SECONDS", 10)
	viper.SetDefault("LOCK_WAIT_SECONDS", 5)
	viper.SetDefault("BCRYPT_COST", 10)
	viper.SetDefault("LOG_LEVEL", "info")

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Server.GinMode = viper.GetString("GIN_MODE")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")
	config.Database.SSLMode = viper.GetString("DATABASE_SSLMODE")

	config.Redis.Addr = viper.GetString("REDIS_ADDR")
	config.Redis.Password = viper.GetString("REDIS_PASSWORD")
	config.Redis.DB = viper.GetInt("REDIS_DB")

	config.Lock.TTL = time.Duration(viper.GetInt("LOCK_TTL_SECONDS")) * time.Second
	config.Lock.Wait = time.Duration(viper.GetInt("LOCK_WAIT_SECONDS")) * time.Second

	config.Security.BcryptCost = viper.GetInt("BCRYPT_COST")
	config.Log.Level = viper.GetString("LOG_LEVEL")

	log.Info().
		Str("port", config.Server.Port).
		Str("gin_mode", config.Server.GinMode).
		Str("db_host", config.Database.Host).
		Str("db_name", config.Database.Name).
		Bool("redis_locks", config.Redis.Addr != "").
		Msg("Config loaded")
	return &config, nil
}

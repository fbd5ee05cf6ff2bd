package core

import (
	"log"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Env          string // DEV (local; default), TEST, QA, PROD
		Debug        bool
		TestMode     bool
		AppName      string
		Build        string
		SecretKey    string
		RollbarToken string

		JWTExpirationDelta time.Duration

		Server   ServerConfig
		Database DatabaseConfig
		Redis    RedisConfig
		Demo     DemoConfig
	}

	ServerConfig struct {
		Host            string
		Address         string
		DebugHost       string
		StaticDir       string
		AllowOrigins    []string
		ShutdownTimeout time.Duration
	}

	DatabaseConfig struct {
		Engine     string // empty: in-memory storage
		Host       string
		Port       int
		User       string
		Password   string
		Name       string
		DisableTLS bool
	}

	RedisConfig struct {
		Addr     string // empty: reports are kept with the database
		Password string
		DB       int
		TTL      time.Duration
	}

	// DemoConfig is the account seeded into in-memory storage on start up.
	DemoConfig struct {
		Username string
		Password string
		Dept     string
	}
)

func (db DatabaseConfig) Address() string {
	return net.JoinHostPort(db.Host, strconv.Itoa(db.Port))
}

// NewConfig loads the configuration for the current ENV.
// Values are read from SRS_* environment variables (e.g. SRS_SERVER_ADDRESS),
// optionally seeded from config/.env.<env> at the project root.
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Report Card")
	v.SetDefault("build", "develop")
	v.SetDefault("secretKey", "x7!k2$pq9-wer)enb$+57=dz&uoxh2(h!x)#*c2(#yg4h^$cegm2e")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("jwtExpirationDelta", 24*time.Hour)
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.address", ":4567")
	v.SetDefault("server.debugHost", "")
	v.SetDefault("server.staticDir", "")
	v.SetDefault("server.allowOrigins", []string{"*"})
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("database.engine", "")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "reportcard")
	v.SetDefault("database.disableTLS", true)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", time.Duration(0))
	v.SetDefault("demo.username", "admin")
	v.SetDefault("demo.password", "1234")
	v.SetDefault("demo.dept", "CSE")

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(ProjectRoot(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}

	v.SetEnvPrefix("SRS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Config{
		Env:                env,
		Debug:              v.GetBool("debug"),
		TestMode:           v.GetBool("testMode"),
		AppName:            v.GetString("appName"),
		Build:              v.GetString("build"),
		SecretKey:          v.GetString("secretKey"),
		RollbarToken:       v.GetString("rollbarToken"),
		JWTExpirationDelta: v.GetDuration("jwtExpirationDelta"),
		Server: ServerConfig{
			Host:            v.GetString("server.host"),
			Address:         v.GetString("server.address"),
			DebugHost:       v.GetString("server.debugHost"),
			StaticDir:       v.GetString("server.staticDir"),
			AllowOrigins:    v.GetStringSlice("server.allowOrigins"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
		},
		Database: DatabaseConfig{
			Engine:     v.GetString("database.engine"),
			Host:       v.GetString("database.host"),
			Port:       v.GetInt("database.port"),
			User:       v.GetString("database.user"),
			Password:   v.GetString("database.password"),
			Name:       v.GetString("database.name"),
			DisableTLS: v.GetBool("database.disableTLS"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
			TTL:      v.GetDuration("redis.ttl"),
		},
		Demo: DemoConfig{
			Username: v.GetString("demo.username"),
			Password: v.GetString("demo.password"),
			Dept:     v.GetString("demo.dept"),
		},
	}
}

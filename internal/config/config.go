package config

import (
	"log"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTP  HTTPConfig  `mapstructure:"http"`
	Mongo MongoConfig `mapstructure:"mongo"`
	Redis RedisConfig `mapstructure:"redis"`
	NATS  NATSConfig  `mapstructure:"nats"`
	MinIO MinIOConfig `mapstructure:"minio"`
	SMTP  SMTPConfig  `mapstructure:"smtp"`
	JWT   JWTConfig   `mapstructure:"jwt"`
	App   AppConfig   `mapstructure:"app"`
}

type HTTPConfig struct {
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type MongoConfig struct {
	URI            string        `mapstructure:"uri"`
	Username       string        `mapstructure:"username"`
	Password       string        `mapstructure:"password"`
	Database       string        `mapstructure:"database"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	MinPoolSize    uint64        `mapstructure:"min_pool_size"`
	MaxPoolSize    uint64        `mapstructure:"max_pool_size"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type NATSConfig struct {
	URL            string        `mapstructure:"url"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

type MinIOConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

type SMTPConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	SenderEmail     string `mapstructure:"sender_email"`
	ModerationEmail string `mapstructure:"moderation_email"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

// AppConfig feeds the static about endpoint.
type AppConfig struct {
	Name         string `mapstructure:"name"`
	Description  string `mapstructure:"description"`
	ContactEmail string `mapstructure:"contact_email"`
	Whatsapp     string `mapstructure:"whatsapp"`
}

func LoadConfig(path string) (*Config, error) {
	viper.SetDefault("http.port", "8080")
	viper.SetDefault("http.read_timeout", "15s")
	viper.SetDefault("http.write_timeout", "15s")
	viper.SetDefault("http.shutdown_timeout", "10s")

	viper.SetDefault("mongo.uri", "mongodb://localhost:27017")
	viper.SetDefault("mongo.database", "layatofk")
	viper.SetDefault("mongo.connect_timeout", "10s")
	viper.SetDefault("mongo.min_pool_size", 0)
	viper.SetDefault("mongo.max_pool_size", 100)

	viper.SetDefault("redis.address", "localhost:6379")
	viper.SetDefault("redis.db", 0)

	viper.SetDefault("nats.url", "nats://localhost:4222")
	viper.SetDefault("nats.connect_timeout", "5s")

	viper.SetDefault("minio.endpoint", "localhost:9000")
	viper.SetDefault("minio.bucket", "listing-previews")
	viper.SetDefault("minio.use_ssl", false)

	viper.SetDefault("smtp.port", 587)

	viper.SetDefault("app.name", "Layatofk")
	viper.SetDefault("app.description", "Classifieds marketplace for Kuwait")

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		if fi, _ := os.Stat(path); !fi.IsDir() {
			viper.SetConfigFile(path)
		} else {
			viper.AddConfigPath(path)
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("LAYATOFK")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Config file not found; using defaults and environment variables.")
		} else {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

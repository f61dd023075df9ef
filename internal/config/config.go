package config

import (
	"time"

	"github.com/andreybutenko/formalwear-server/internal/cache"
	pkgconfig "github.com/andreybutenko/formalwear-server/pkg/config"
	"github.com/andreybutenko/formalwear-server/pkg/database"
	"github.com/andreybutenko/formalwear-server/pkg/log"
	"github.com/andreybutenko/formalwear-server/pkg/pubsub"
	"github.com/andreybutenko/formalwear-server/pkg/storage"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Storage  StorageConfig
	Search   SearchConfig
	PubSub   pubsub.Config `mapstructure:"pubsub"`
	Facebook FacebookConfig
	JWT      JWTConfig `mapstructure:"jwt"`
	Log      log.Config
}

type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	FilePath        string `mapstructure:"file_path"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

type CacheConfig struct {
	Driver string            `mapstructure:"driver"` // "redis", "none"
	Prefix string            `mapstructure:"prefix"`
	TTL    time.Duration     `mapstructure:"ttl"`
	Redis  cache.RedisConfig `mapstructure:"redis"`
}

type StorageConfig struct {
	Driver string              `mapstructure:"driver"` // "local", "s3"
	Local  storage.LocalConfig `mapstructure:"local"`
	S3     storage.S3Config    `mapstructure:"s3"`
}

type SearchConfig struct {
	Driver     string   `mapstructure:"driver"` // "database", "elasticsearch"
	Addresses  []string `mapstructure:"addresses"`
	IndexUsers string   `mapstructure:"index_users"`
	IndexPosts string   `mapstructure:"index_posts"`
	Limit      int      `mapstructure:"limit"`
}

type FacebookConfig struct {
	GraphURL string `mapstructure:"graph_url"`
}

type JWTConfig struct {
	Secret   string        `mapstructure:"secret"`
	Validity time.Duration `mapstructure:"validity"`
	Issuer   string        `mapstructure:"issuer"`
}

// ToDatabaseConfig converts to the pkg/database connection config.
func (c DatabaseConfig) ToDatabaseConfig() *database.Config {
	return &database.Config{
		Driver:          c.Driver,
		Host:            c.Host,
		Port:            c.Port,
		User:            c.User,
		Password:        c.Password,
		DBName:          c.DBName,
		SSLMode:         c.SSLMode,
		FilePath:        c.FilePath,
		MaxIdleConns:    c.MaxIdleConns,
		MaxOpenConns:    c.MaxOpenConns,
		ConnMaxLifetime: c.ConnMaxLifetime,
	}
}

func Load() (*Config, error) {
	v, err := pkgconfig.Load("./config", "config")
	if err != nil {
		return nil, err
	}

	// Set defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "formalwear")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "formalwear")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.file_path", "./formalwear.db")
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.conn_max_lifetime", 30)
	v.SetDefault("cache.driver", "none")
	v.SetDefault("cache.prefix", "session")
	v.SetDefault("cache.ttl", "5m")
	v.SetDefault("cache.redis.address", "localhost:6379")
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.local.base_path", "./images")
	v.SetDefault("storage.s3.region", "us-east-1")
	v.SetDefault("storage.s3.bucket", "formalwear-images")
	v.SetDefault("search.driver", "database")
	v.SetDefault("search.addresses", []string{"http://localhost:9200"})
	v.SetDefault("search.index_users", "formalwear-users")
	v.SetDefault("search.index_posts", "formalwear-posts")
	v.SetDefault("search.limit", 50)
	v.SetDefault("pubsub.driver", "none")
	v.SetDefault("pubsub.redis.address", "localhost:6379")
	v.SetDefault("pubsub.redis.password", "")
	v.SetDefault("pubsub.redis.db", 0)
	v.SetDefault("facebook.graph_url", "")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.validity", "8760h") // 365 days
	v.SetDefault("jwt.issuer", "formalwear")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("log.service_name", "formalwear")

	// Bind environment variables
	v.BindEnv("server.port", "PORT")
	v.BindEnv("database.driver", "DB_DRIVER")
	v.BindEnv("database.host", "DB_HOST")
	v.BindEnv("database.port", "DB_PORT")
	v.BindEnv("database.user", "DB_USER")
	v.BindEnv("database.password", "DB_PASSWORD")
	v.BindEnv("database.dbname", "DB_NAME")
	v.BindEnv("database.file_path", "DB_FILE_PATH")
	v.BindEnv("cache.driver", "CACHE_DRIVER")
	v.BindEnv("cache.redis.address", "REDIS_ADDRESS")
	v.BindEnv("cache.redis.password", "REDIS_PASSWORD")
	v.BindEnv("storage.driver", "STORAGE_DRIVER")
	v.BindEnv("storage.local.base_path", "STORAGE_PATH")
	v.BindEnv("storage.s3.endpoint", "S3_ENDPOINT")
	v.BindEnv("storage.s3.bucket", "S3_BUCKET")
	v.BindEnv("storage.s3.access_key_id", "S3_ACCESS_KEY_ID")
	v.BindEnv("storage.s3.secret_access_key", "S3_SECRET_ACCESS_KEY")
	v.BindEnv("search.driver", "SEARCH_DRIVER")
	v.BindEnv("search.addresses", "ES_ADDRESSES")
	v.BindEnv("pubsub.driver", "PUBSUB_DRIVER")
	v.BindEnv("pubsub.redis.address", "PUBSUB_REDIS_ADDRESS")
	v.BindEnv("facebook.graph_url", "FACEBOOK_GRAPH_URL")
	v.BindEnv("jwt.secret", "JWT_SECRET")
	v.BindEnv("log.level", "LOG_LEVEL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

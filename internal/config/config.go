package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	App struct {
		Port      string `mapstructure:"port"`
		Env       string `mapstructure:"env"`
		PublicURL string `mapstructure:"public_url"`
	} `mapstructure:"app"`
	DB struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"db"`
	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`
	Kafka struct {
		Brokers []string `mapstructure:"brokers"`
		GroupID string   `mapstructure:"group_id"`
	} `mapstructure:"kafka"`
	Auth struct {
		JWTSecret     string        `mapstructure:"jwt_secret"`
		TokenLifespan time.Duration `mapstructure:"token_lifespan"`
	} `mapstructure:"auth"`
	OAuth struct {
		ClientID     string   `mapstructure:"client_id"`
		ClientSecret string   `mapstructure:"client_secret"`
		RedirectURL  string   `mapstructure:"redirect_url"`
		AuthURL      string   `mapstructure:"auth_url"`
		TokenURL     string   `mapstructure:"token_url"`
		UserInfoURL  string   `mapstructure:"userinfo_url"`
		Scopes       []string `mapstructure:"scopes"`
	} `mapstructure:"oauth"`
	Cloudinary struct {
		CloudName string `mapstructure:"cloud_name"`
		ApiKey    string `mapstructure:"api_key"`
		ApiSecret string `mapstructure:"api_secret"`
	} `mapstructure:"cloudinary"`
	Tracing struct {
		OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	} `mapstructure:"tracing"`
	Storage struct {
		Driver         string        `mapstructure:"driver"`
		VolatileTTL    time.Duration `mapstructure:"volatile_ttl"`
		OpTimeout      time.Duration `mapstructure:"op_timeout"`
		MaxRetries     uint          `mapstructure:"max_retries"`
		InitialBackoff time.Duration `mapstructure:"initial_backoff"`
		MaxBackoff     time.Duration `mapstructure:"max_backoff"`
	} `mapstructure:"storage"`
	Editor struct {
		SessionIdleTTL time.Duration `mapstructure:"session_idle_ttl"`
		SweepInterval  time.Duration `mapstructure:"sweep_interval"`
	} `mapstructure:"editor"`
	CORS struct {
		AllowedOrigins []string `mapstructure:"allowed_origins"`
	} `mapstructure:"cors"`
	Owner struct {
		Email    string `mapstructure:"email"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"owner"`
}

// OAuthEnabled reports whether an external identity provider is configured.
func (c Config) OAuthEnabled() bool {
	return c.OAuth.ClientID != "" && c.OAuth.AuthURL != "" && c.OAuth.TokenURL != ""
}

func (c Config) CloudinaryEnabled() bool {
	return c.Cloudinary.CloudName != ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.public_url", "http://localhost:3000")
	v.SetDefault("redis.db", 0)
	v.SetDefault("kafka.group_id", "portfolio-snapshot-group")
	v.SetDefault("auth.token_lifespan", 24*time.Hour)
	v.SetDefault("oauth.scopes", []string{"openid", "profile"})
	v.SetDefault("storage.driver", StorageDriverPostgres)
	v.SetDefault("storage.volatile_ttl", 365*24*time.Hour)
	v.SetDefault("storage.op_timeout", 5*time.Second)
	v.SetDefault("storage.max_retries", 3)
	v.SetDefault("storage.initial_backoff", 100*time.Millisecond)
	v.SetDefault("storage.max_backoff", 2*time.Second)
	v.SetDefault("editor.session_idle_ttl", 30*time.Minute)
	v.SetDefault("editor.sweep_interval", 5*time.Minute)
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})
}

// LoadConfig reads .env, then config.yaml from the given search paths (the
// working directory when none are given), then the environment.
func LoadConfig(paths ...string) (cfg Config, err error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	if err := godotenv.Load(); err != nil {
		log.Println("warning: .env file not found, use default.")
	}

	v := viper.New()
	setDefaults(v)

	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		log.Printf("note: config.yaml not found, read env only. Error: %v", err)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.BindEnv("app.port", "APP_PORT")
	v.BindEnv("app.env", "APP_ENV")
	v.BindEnv("app.public_url", "APP_PUBLIC_URL")
	v.BindEnv("db.dsn", "DB_DSN")
	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("kafka.brokers", "KAFKA_BROKERS")
	v.BindEnv("auth.jwt_secret", "JWT_SECRET")
	v.BindEnv("auth.token_lifespan", "TOKEN_LIFESPAN")

	v.BindEnv("oauth.client_id", "OAUTH_CLIENT_ID")
	v.BindEnv("oauth.client_secret", "OAUTH_CLIENT_SECRET")
	v.BindEnv("oauth.redirect_url", "OAUTH_REDIRECT_URL")
	v.BindEnv("oauth.auth_url", "OAUTH_AUTH_URL")
	v.BindEnv("oauth.token_url", "OAUTH_TOKEN_URL")
	v.BindEnv("oauth.userinfo_url", "OAUTH_USERINFO_URL")

	v.BindEnv("cloudinary.cloud_name", "CLOUDINARY_CLOUD_NAME")
	v.BindEnv("cloudinary.api_key", "CLOUDINARY_API_KEY")
	v.BindEnv("cloudinary.api_secret", "CLOUDINARY_API_SECRET")

	v.BindEnv("tracing.otlp_endpoint", "OTEL_EXPORTER_OTLP_ENDPOINT")
	v.BindEnv("storage.driver", "STORAGE_DRIVER")
	v.BindEnv("editor.session_idle_ttl", "EDITOR_SESSION_IDLE_TTL")

	v.BindEnv("owner.email", "OWNER_EMAIL")
	v.BindEnv("owner.password", "OWNER_PASSWORD")
	v.BindEnv("owner.name", "OWNER_NAME")

	err = v.Unmarshal(&cfg)
	return
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Drivers de armazenamento suportados
const (
	StorageDriverFile     = "file"
	StorageDriverPostgres = "postgres"
	StorageDriverRedis    = "redis"
)

type Config struct {
	App         App         `mapstructure:",squash"`
	Server      Server      `mapstructure:",squash"`
	Storage     Storage     `mapstructure:",squash"`
	Database    Database    `mapstructure:",squash"`
	Redis       Redis       `mapstructure:",squash"`
	Auth        Auth        `mapstructure:",squash"`
	Cors        Cors        `mapstructure:",squash"`
	StoreBackup StoreBackup `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
	Env      string `mapstructure:"app_env"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Storage struct {
	Driver   string `mapstructure:"storage_driver"`
	DataFile string `mapstructure:"data_file"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type Redis struct {
	URL    string `mapstructure:"redis_url"`
	Prefix string `mapstructure:"redis_prefix"`
}

type Auth struct {
	Enabled      bool          `mapstructure:"auth_enabled"`
	Secret       string        `mapstructure:"auth_secret"`
	Email        string        `mapstructure:"auth_email"`
	PasswordHash string        `mapstructure:"auth_password_hash"`
	TokenTTL     time.Duration `mapstructure:"auth_token_ttl"`
}

type Cors struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type StoreBackup struct {
	CronSchedule string `mapstructure:"store_backup_cron"`
	Enabled      bool   `mapstructure:"store_backup_enabled"`
	Dir          string `mapstructure:"store_backup_dir"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "debug")

	v.SetDefault("HOST", "localhost")
	v.SetDefault("PORT", 8000)

	v.SetDefault("STORAGE_DRIVER", StorageDriverFile)
	v.SetDefault("DATA_FILE", "data/clients.json")

	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("DATABASE_URL", "localhost:5432/clients?sslmode=disable")
	v.SetDefault("DATABASE_USER", "postgres")
	v.SetDefault("DATABASE_PASSWORD", "root")

	v.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	v.SetDefault("REDIS_PREFIX", "crm")

	v.SetDefault("AUTH_ENABLED", true)
	v.SetDefault("AUTH_SECRET", "your_secret_key")
	v.SetDefault("AUTH_EMAIL", "admin@example.com")
	v.SetDefault("AUTH_PASSWORD_HASH", "") // hash bcrypt; vazio bloqueia o login
	v.SetDefault("AUTH_TOKEN_TTL", "24h")

	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")

	v.SetDefault("STORE_BACKUP_CRON", "0 2 * * *") // Todos os dias às 2h da manhã
	v.SetDefault("STORE_BACKUP_ENABLED", false)
	v.SetDefault("STORE_BACKUP_DIR", "data/backups")
}

func NewConfig() (*Config, error) {
	loadEnvFile() // ONLY LOCAL

	v := viper.New()
	setDefaults(v)

	v.SetConfigType("env")
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		logrus.Debug("Usando variáveis de ambiente (viper não conseguiu ler .env): ", err)
	}

	config := &Config{}
	err := v.Unmarshal(config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case StorageDriverFile, StorageDriverPostgres, StorageDriverRedis:
	default:
		return fmt.Errorf("driver de armazenamento inválido: %q", c.Storage.Driver)
	}

	if c.Storage.Driver == StorageDriverFile && c.Storage.DataFile == "" {
		return fmt.Errorf("DATA_FILE é obrigatório para o driver %q", StorageDriverFile)
	}

	if c.Auth.Enabled && c.Auth.Secret == "" {
		return fmt.Errorf("AUTH_SECRET é obrigatório quando a autenticação está habilitada")
	}

	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("AUTH_TOKEN_TTL deve ser positivo")
	}

	return nil
}

// loadEnvFile carrega o primeiro .env encontrado no diretório atual ou acima
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(cwd, "../.env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado de:", location)
			return
		}
	}

	logrus.Debug("Nenhum arquivo .env encontrado; usando apenas variáveis de ambiente")
}

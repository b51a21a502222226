package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App          App          `mapstructure:",squash"`
	Server       Server       `mapstructure:",squash"`
	Database     Database     `mapstructure:",squash"`
	Meta         Meta         `mapstructure:",squash"`
	Auth         Auth         `mapstructure:",squash"`
	AlertSync    AlertSync    `mapstructure:",squash"`
	SnapshotSync SnapshotSync `mapstructure:",squash"`
	CronSecret   string       `mapstructure:"cron_secret"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type Meta struct {
	BaseURL string `mapstructure:"meta_base_url"`
	URL     string `mapstructure:"meta_url"`
	Version string `mapstructure:"meta_version"`
}

type App struct {
	LogLevel        string `mapstructure:"log_level"`
	DefaultTimezone string `mapstructure:"default_timezone"`
}

type Auth struct {
	Secret   string `mapstructure:"auth_secret"`
	TokenKey string `mapstructure:"token_encryption_key"` // chave AES-256 (hex) dos tokens de integração
}

type AlertSync struct {
	CronSchedule        string `mapstructure:"alert_sync_cron"`
	Enabled             bool   `mapstructure:"alert_sync_enabled"`
	MaxDetailCalls      int    `mapstructure:"alert_sync_max_detail_calls"`
	LookbackDays        int    `mapstructure:"alert_sync_lookback_days"`
	StaleSyncAfterHours int    `mapstructure:"alert_sync_stale_after_hours"`
}

type SnapshotSync struct {
	CronSchedule string `mapstructure:"snapshot_sync_cron"`
	Enabled      bool   `mapstructure:"snapshot_sync_enabled"`
	LookbackDays int    `mapstructure:"snapshot_sync_lookback_days"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/leadmanager")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("META_BASE_URL", "https://graph.facebook.com")
	viper.SetDefault("META_VERSION", "v22.0")

	viper.SetDefault("AUTH_SECRET", "your_auth_secret")
	viper.SetDefault("TOKEN_ENCRYPTION_KEY", "")
	viper.SetDefault("CRON_SECRET", "your_cron_secret")

	// Defaults do motor de alertas
	viper.SetDefault("ALERT_SYNC_CRON", "0 */6 * * *")   // A cada 6 horas
	viper.SetDefault("ALERT_SYNC_ENABLED", false)        // Habilitar sincronização agendada de alertas
	viper.SetDefault("ALERT_SYNC_MAX_DETAIL_CALLS", 15)  // Limite de chamadas de detalhe por execução
	viper.SetDefault("ALERT_SYNC_LOOKBACK_DAYS", 14)     // Janela de snapshots lida por execução
	viper.SetDefault("ALERT_SYNC_STALE_AFTER_HOURS", 12) // Idade máxima da última sincronização

	// Defaults da carga diária de snapshots
	viper.SetDefault("SNAPSHOT_SYNC_CRON", "0 3 * * *") // Todos os dias às 3h da manhã
	viper.SetDefault("SNAPSHOT_SYNC_ENABLED", false)
	viper.SetDefault("SNAPSHOT_SYNC_LOOKBACK_DAYS", 3)

	viper.SetDefault("LOG_LEVEL", "debug")
	viper.SetDefault("DEFAULT_TIMEZONE", "America/Sao_Paulo")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	// Configurar valores padrão
	SetDefaults()

	// Configurar o Viper
	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv() // Isso permite que o Viper leia variáveis de ambiente

	// Tentar ler o arquivo .env com o Viper (opcional, já que usamos godotenv)
	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Meta.URL = fmt.Sprintf("%s/%s", config.Meta.BaseURL, config.Meta.Version)

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	// Tentar várias localizações possíveis para o arquivo .env
	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}

package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"student-admin-backend/internal/logger"
)

// Config is loaded once at startup and handed to each component explicitly.
type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"dev"`
	HTTPServer `yaml:"http_server"`
	Database   Database `yaml:"database"`
	CORS       CORS     `yaml:"cors"`
	Images     Images   `yaml:"images"`
	MinIO      MinIO    `yaml:"minio"`
	Files      Files    `yaml:"files"`
	Import     Import   `yaml:"import"`
	Log        Log      `yaml:"log"`
}

type HTTPServer struct {
	Addr         string        `yaml:"address" env:"HTTP_SERVER_ADDR" env-default:":8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"15s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

type Database struct {
	// Driver is either "postgres" or "sqlite".
	Driver     string `yaml:"driver" env:"DB_DRIVER" env-default:"postgres"`
	Host       string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port       string `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User       string `yaml:"user" env:"DB_USER"`
	Password   string `yaml:"password" env:"DB_PASSWORD"`
	Name       string `yaml:"name" env:"DB_NAME" env-default:"studentadmin"`
	SSLMode    string `yaml:"sslmode" env:"DB_SSLMODE" env-default:"disable"`
	SQLitePath string `yaml:"sqlite_path" env:"DB_SQLITE_PATH" env-default:"studentadmin.db"`
}

type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:4200"`
}

type Images struct {
	// Backend is either "local" or "minio".
	Backend           string   `yaml:"backend" env:"IMAGES_BACKEND" env-default:"local"`
	Dir               string   `yaml:"dir" env:"IMAGES_DIR" env-default:"Resources/Images"`
	BaseURL           string   `yaml:"base_url" env:"IMAGES_BASE_URL"`
	AllowedExtensions []string `yaml:"allowed_extensions" env:"IMAGES_ALLOWED_EXTENSIONS" env-separator:"," env-default:".jpeg,.png,.gif,.jpg"`
	MaxUploadSize     int64    `yaml:"max_upload_size" env:"IMAGES_MAX_UPLOAD_SIZE" env-default:"10485760"`
}

type MinIO struct {
	Endpoint  string `yaml:"endpoint" env:"MINIO_ENDPOINT" env-default:"localhost:9000"`
	AccessKey string `yaml:"access_key" env:"MINIO_ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" env:"MINIO_SECRET_KEY"`
	Bucket    string `yaml:"bucket" env:"MINIO_BUCKET" env-default:"student-images"`
	UseSSL    bool   `yaml:"use_ssl" env:"MINIO_USE_SSL" env-default:"false"`
}

type Files struct {
	MaxUploadSize int64 `yaml:"max_upload_size" env:"FILES_MAX_UPLOAD_SIZE" env-default:"20971520"`
}

type Import struct {
	UploadDir     string `yaml:"upload_dir" env:"IMPORT_UPLOAD_DIR" env-default:"uploads"`
	MaxUploadSize int64  `yaml:"max_upload_size" env:"IMPORT_MAX_UPLOAD_SIZE" env-default:"104857600"`
	BatchSize     int    `yaml:"batch_size" env:"IMPORT_BATCH_SIZE" env-default:"500"`
}

type Log struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Pretty bool   `yaml:"pretty" env:"LOG_PRETTY" env-default:"true"`
}

// Load reads the YAML file at path (when non-empty) and applies environment
// overrides. An optional .env file in the working directory is loaded first.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	var cfg Config
	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("read env config: %w", err)
		}
	} else {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MustLoad resolves the config path from CONFIG_PATH or the --config flag
// and exits the process when the configuration cannot be loaded.
func MustLoad() *Config {
	configPath, err := configPathFromEnv()
	if err != nil {
		logger.Fatal().Err(err).Msg("Cannot load config")
	}
	if configPath == "" {
		flags := flag.String("config", "", "path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	cfg, err := Load(configPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", configPath).Msg("Cannot load config")
	}
	return cfg
}

// configPathFromEnv reads CONFIG_PATH after .env is applied, so the path may
// come from either.
func configPathFromEnv() (string, error) {
	if err := loadDotEnv(); err != nil {
		return "", err
	}
	return os.Getenv("CONFIG_PATH"), nil
}

// loadDotEnv applies ./.env when present. Variables already set win.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	switch c.Images.Backend {
	case "local", "minio":
	default:
		return fmt.Errorf("unsupported images backend %q", c.Images.Backend)
	}
	if len(c.Images.AllowedExtensions) == 0 {
		return errors.New("images.allowed_extensions must not be empty")
	}
	return nil
}

// PostgresDSN builds the key/value connection string used by the postgres driver.
func (d Database) PostgresDSN() string {
	return "host=" + d.Host + " user=" + d.User + " password=" + d.Password + " dbname=" + d.Name + " port=" + d.Port + " sslmode=" + d.SSLMode
}

package config

import (
	"flag"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StorageModeDisk     = "disk"
	StorageModeMemory   = "memory"
	StorageModeRedis    = "redis"
	StorageModePostgres = "postgres"

	MediaBackendLocal = "local"
	MediaBackendMinio = "minio"
)

type Config struct {
	Env         string            `yaml:"env" env:"ENV" env-default:"local"`
	HTTP        HTTPConfig        `yaml:"http"`
	Storage     StorageConfig     `yaml:"storage"`
	FileStorage FileStorageConfig `yaml:"file_storage"`
	Media       MediaConfig       `yaml:"media"`
	Minio       MinioConfig       `yaml:"minio"`
	Redis       RedisConf         `yaml:"redis"`
	Postgres    PostgresConfig    `yaml:"postgres"`
	Songs       SongsConfig       `yaml:"songs"`
	Sweeper     SweeperConfig     `yaml:"sweeper"`
	Session     SessionConfig     `yaml:"session"`
	Log         LogConfig         `yaml:"log"`
}

type HTTPConfig struct {
	Host         string        `yaml:"host"`
	Port         string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	BaseURL      string        `yaml:"base_url" env:"HTTP_BASE_URL"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env-default:"15s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env-default:"30s"`
	BodyLimit    string        `yaml:"body_limit" env-default:"64M"`
}

type StorageConfig struct {
	Mode      string `yaml:"mode" env:"STORAGE_MODE" env-default:"disk"`
	IndexFile string `yaml:"index_file" env-default:"creations.json"`
	IDScheme  string `yaml:"id_scheme" env-default:"uuid"`
}

type FileStorageConfig struct {
	BaseDir string `yaml:"base_dir" env-default:"./static"`
	BaseURL string `yaml:"base_url" env-default:"/static"`
}

type MediaConfig struct {
	Backend string `yaml:"backend" env-default:"local"`
}

type MinioConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key" env:"MINIO_ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" env:"MINIO_SECRET_KEY"`
	Bucket    string `yaml:"bucket" env-default:"slideshow"`
	Region    string `yaml:"region" env-default:"us-east-1"`
	UseSSL    bool   `yaml:"use_ssl"`
	PublicURL string `yaml:"public_url"`
}

type RedisConf struct {
	RedisAddr     string `yaml:"redis_addr" env-default:"127.0.0.1:6379"`
	RedisPassword string `yaml:"redispassword" env:"REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db"`
}

type PostgresConfig struct {
	DSN string `yaml:"dsn" env:"POSTGRES_DSN"`
}

type SongsConfig struct {
	Dir      string        `yaml:"dir" env-default:"./static/songs"`
	BaseURL  string        `yaml:"base_url" env-default:"/static/songs"`
	CacheTTL time.Duration `yaml:"cache_ttl" env-default:"1m"`
	Watch    bool          `yaml:"watch" env-default:"true"`
}

type SweeperConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Schedule string        `yaml:"schedule" env-default:"0 0 * * * *"`
	MinAge   time.Duration `yaml:"min_age" env-default:"1h"`
}

type SessionConfig struct {
	Secret string `yaml:"secret" env:"SESSION_SECRET" env-default:"change-me"`
}

type LogConfig struct {
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" env-default:"50"`
	MaxBackups int    `yaml:"max_backups" env-default:"3"`
}

func MustLoad() *Config {
	path := fetchConfigPath()
	if path == "" {
		panic("config path is empty")
	}

	return MustLoadPath(path)
}

func MustLoadPath(configPath string) *Config {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("cannot read config: " + err.Error())
	}

	return &cfg
}

func fetchConfigPath() string {
	var res string

	// --config="path/to/config.yaml"
	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}

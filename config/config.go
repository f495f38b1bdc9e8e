package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	OCR      OCRConfig      `yaml:"ocr"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Export   ExportConfig   `yaml:"export"`
	Storage  StorageConfig  `yaml:"storage"`
	Files    FilesConfig    `yaml:"files"`
}

type ServerConfig struct {
	Port        string `yaml:"port"`
	MaxUploadMB int64  `yaml:"max_upload_mb"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type OCRConfig struct {
	// Backend is one of gemini, paddle, tesseract.
	Backend string `yaml:"backend"`
	// Timeout bounds a single OCR call. Zero means no limit.
	Timeout   time.Duration   `yaml:"timeout"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	Paddle    PaddleConfig    `yaml:"paddle"`
	Tesseract TesseractConfig `yaml:"tesseract"`
}

type GeminiConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	Prompt  string `yaml:"prompt"`
}

type PaddleConfig struct {
	APIURL string `yaml:"api_url"`
}

type TesseractConfig struct {
	DataPath string `yaml:"data_path"`
	Language string `yaml:"language"`
}

type PipelineConfig struct {
	Enhance      bool `yaml:"enhance"`
	ScanQR       bool `yaml:"scan_qr"`
	MaxPerUpload int  `yaml:"max_per_upload"`
}

type ExportConfig struct {
	Mode            string `yaml:"mode"`
	HistoryCapacity int    `yaml:"history_capacity"`
}

type StorageConfig struct {
	// Backend is one of memory, sqlite, redis.
	Backend    string      `yaml:"backend"`
	SQLitePath string      `yaml:"sqlite_path"`
	Redis      RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

type FilesConfig struct {
	// Backend is one of local, minio.
	Backend string      `yaml:"backend"`
	Dir     string      `yaml:"dir"`
	Minio   MinioConfig `yaml:"minio"`
}

type MinioConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

const DefaultPrompt = "Extract all text from this image exactly as it appears. Return only the text, with no commentary."

// LoadConfig reads an optional YAML file, then .env and process environment
// overrides, then fills in defaults. An empty path skips the file.
func LoadConfig(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Server.Port, "SERVER_PORT")
	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Log.Format, "LOG_FORMAT")
	setString(&cfg.OCR.Backend, "OCR_BACKEND")
	setString(&cfg.OCR.Gemini.APIKey, "GEMINI_API_KEY")
	setString(&cfg.OCR.Gemini.Model, "GEMINI_MODEL")
	setString(&cfg.OCR.Paddle.APIURL, "PADDLEOCR_API_URL")
	setString(&cfg.OCR.Tesseract.DataPath, "TESSDATA_PREFIX")
	setString(&cfg.Storage.Backend, "STORAGE_BACKEND")
	setString(&cfg.Storage.SQLitePath, "SQLITE_PATH")
	setString(&cfg.Storage.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Storage.Redis.Password, "REDIS_PASSWORD")
	setString(&cfg.Files.Backend, "FILES_BACKEND")
	setString(&cfg.Files.Dir, "EXPORT_DIR")
	setString(&cfg.Files.Minio.Endpoint, "MINIO_ENDPOINT")
	setString(&cfg.Files.Minio.AccessKey, "MINIO_ACCESS_KEY")
	setString(&cfg.Files.Minio.SecretKey, "MINIO_SECRET_KEY")
	setString(&cfg.Files.Minio.Bucket, "MINIO_BUCKET")

	if v := os.Getenv("HISTORY_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Export.HistoryCapacity = n
		}
	}
	if v := os.Getenv("OCR_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.OCR.Timeout = d
		}
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Server.MaxUploadMB == 0 {
		cfg.Server.MaxUploadMB = 32
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	if cfg.OCR.Backend == "" {
		cfg.OCR.Backend = "gemini"
	}
	if cfg.OCR.Gemini.BaseURL == "" {
		cfg.OCR.Gemini.BaseURL = "https://generativelanguage.googleapis.com"
	}
	if cfg.OCR.Gemini.Model == "" {
		cfg.OCR.Gemini.Model = "gemini-2.0-flash"
	}
	if cfg.OCR.Gemini.Prompt == "" {
		cfg.OCR.Gemini.Prompt = DefaultPrompt
	}
	if cfg.OCR.Paddle.APIURL == "" {
		cfg.OCR.Paddle.APIURL = "http://paddleocr:8866/predict/ocr_system"
	}
	if cfg.OCR.Tesseract.DataPath == "" {
		cfg.OCR.Tesseract.DataPath = "/usr/share/tesseract-ocr/5/tessdata/"
	}
	if cfg.OCR.Tesseract.Language == "" {
		cfg.OCR.Tesseract.Language = "eng"
	}
	if cfg.Pipeline.MaxPerUpload <= 0 {
		cfg.Pipeline.MaxPerUpload = 20
	}
	if cfg.Export.Mode == "" {
		cfg.Export.Mode = "standard"
	}
	if cfg.Export.HistoryCapacity <= 0 {
		cfg.Export.HistoryCapacity = 10
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "sqlite"
	}
	if cfg.Storage.SQLitePath == "" {
		cfg.Storage.SQLitePath = "data/phone-extractor.db"
	}
	if cfg.Storage.Redis.Addr == "" {
		cfg.Storage.Redis.Addr = "localhost:6379"
	}
	if cfg.Storage.Redis.Prefix == "" {
		cfg.Storage.Redis.Prefix = "phonex:"
	}
	if cfg.Files.Backend == "" {
		cfg.Files.Backend = "local"
	}
	if cfg.Files.Dir == "" {
		cfg.Files.Dir = "exports"
	}
	if cfg.Files.Minio.Bucket == "" {
		cfg.Files.Minio.Bucket = "phone-exports"
	}
}

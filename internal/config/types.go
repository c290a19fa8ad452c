package config

import "time"

// Config represents the main configuration structure
type Config struct {
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Storage    StorageConfig    `yaml:"storage" mapstructure:"storage"`
	Extraction ExtractionConfig `yaml:"extraction" mapstructure:"extraction"`
	Detection  DetectionConfig  `yaml:"detection" mapstructure:"detection"`
	Pipeline   PipelineConfig   `yaml:"pipeline" mapstructure:"pipeline"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit" mapstructure:"rate_limit"`
	Logging    LoggingConfig    `yaml:"logging" mapstructure:"logging"`
	WebSocket  WebSocketConfig  `yaml:"websocket" mapstructure:"websocket"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port         int           `yaml:"port" mapstructure:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
}

// StorageConfig contains artifact storage configuration
type StorageConfig struct {
	UploadDir string `yaml:"upload_dir" mapstructure:"upload_dir"`
}

// ExtractionConfig contains text extraction configuration
type ExtractionConfig struct {
	Engine    string        `yaml:"engine" mapstructure:"engine"` // tesseract or stub
	Languages []string      `yaml:"languages" mapstructure:"languages"`
	Timeout   time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// DetectionConfig contains PII detection configuration
type DetectionConfig struct {
	Detectors []string `yaml:"detectors" mapstructure:"detectors"`
}

// PipelineConfig contains orchestration configuration
type PipelineConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitConfig contains upload rate limiting configuration
type RateLimitConfig struct {
	Enabled        bool    `yaml:"enabled" mapstructure:"enabled"`
	RequestsPerMin float64 `yaml:"requests_per_min" mapstructure:"requests_per_min"`
	Burst          int     `yaml:"burst" mapstructure:"burst"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // json or console
	File   struct {
		Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
		Path    string `yaml:"path" mapstructure:"path"`
	} `yaml:"file" mapstructure:"file"`
}

// WebSocketConfig contains WebSocket configuration
type WebSocketConfig struct {
	Enabled           bool          `yaml:"enabled" mapstructure:"enabled"`
	Path              string        `yaml:"path" mapstructure:"path"`
	ReadBufferSize    int           `yaml:"read_buffer_size" mapstructure:"read_buffer_size"`
	WriteBufferSize   int           `yaml:"write_buffer_size" mapstructure:"write_buffer_size"`
	PingInterval      time.Duration `yaml:"ping_interval" mapstructure:"ping_interval"`
	PongTimeout       time.Duration `yaml:"pong_timeout" mapstructure:"pong_timeout"`
	WriteTimeout      time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	AllowedOrigins    []string      `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	BroadcastProgress bool          `yaml:"broadcast_progress" mapstructure:"broadcast_progress"`
}

// GetDefaults returns a configuration with sensible defaults
func GetDefaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Storage: StorageConfig{
			UploadDir: "uploads",
		},
		Extraction: ExtractionConfig{
			Engine:    "tesseract",
			Languages: []string{"eng"},
			Timeout:   2 * time.Minute,
		},
		Detection: DetectionConfig{
			Detectors: []string{"all"},
		},
		Pipeline: PipelineConfig{
			Workers: 4,
		},
		RateLimit: RateLimitConfig{
			Enabled:        true,
			RequestsPerMin: 30,
			Burst:          10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		WebSocket: WebSocketConfig{
			Enabled:           true,
			Path:              "/ws",
			ReadBufferSize:    1024,
			WriteBufferSize:   1024,
			PingInterval:      54 * time.Second,
			PongTimeout:       60 * time.Second,
			WriteTimeout:      10 * time.Second,
			AllowedOrigins:    []string{"*"},
			BroadcastProgress: true,
		},
	}
}

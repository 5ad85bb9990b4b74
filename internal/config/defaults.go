package config

import "time"

const (
	DefaultModel        = "gemini-2.5-flash"
	DefaultAPIKeyEnv    = "GEMINI_API_KEY"
	DefaultPace         = time.Second
	DefaultStorageDir   = "output"
	DefaultDatabasePath = "output/slide2script.db"
	DefaultSettle       = 500 * time.Millisecond
	DefaultHost         = "localhost"
	DefaultPort         = 8080
)

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = DefaultModel
	}
	if cfg.Gemini.APIKeyEnv == "" {
		cfg.Gemini.APIKeyEnv = DefaultAPIKeyEnv
	}
	if cfg.Script.Pace == 0 {
		cfg.Script.Pace = DefaultPace
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "file"
	}
	if cfg.Storage.Dir == "" {
		cfg.Storage.Dir = DefaultStorageDir
	}
	if cfg.Storage.Format == "" {
		cfg.Storage.Format = "json"
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = DefaultDatabasePath
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Watch.Extensions == nil {
		cfg.Watch.Extensions = []string{".pptx", ".ppt", ".pdf"}
	}
	if cfg.Watch.Settle == 0 {
		cfg.Watch.Settle = DefaultSettle
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
}

package structures

import "time"

type InputConfig struct {
	BaseDir     string   `yaml:"baseDir" validate:"required"`
	Directories []string `yaml:"directories"`
}

type OutputConfig struct {
	Dir           string `yaml:"dir" validate:"required"`
	ComparisonCSV string `yaml:"comparisonCsv" validate:"required"`
	CountsFile    string `yaml:"countsFile" validate:"required"`
	FileMode      uint32 `yaml:"fileMode" validate:"required|uint"`
}

type MatchConfig struct {
	MinDelay time.Duration `yaml:"minDelay" validate:"required|min:1"`
	MaxDelay time.Duration `yaml:"maxDelay" validate:"required|min:1"`
}

type CompareConfig struct {
	Field string `yaml:"field" validate:"required"`
}

type LoaderConfig struct {
	ValidateSchema bool `yaml:"validateSchema"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
}

type MetricsConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Textfile string `yaml:"textfile"`
}

type Persistence struct {
	ManifestPath string `yaml:"manifestPath"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	Input       InputConfig   `yaml:"input"`
	Output      OutputConfig  `yaml:"output"`
	Match       MatchConfig   `yaml:"match"`
	Compare     CompareConfig `yaml:"compare"`
	Loader      LoaderConfig  `yaml:"loader"`
	Logger      LoggerConfig  `yaml:"logger"`
	Cache       CacheConfig   `yaml:"cache"`
	Metrics     MetricsConfig `yaml:"metrics"`
	Persistence Persistence   `yaml:"persistence"`
}

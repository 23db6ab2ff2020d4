package providers

import (
	"fmt"
	"github.com/spf13/viper"
	"logmerge/internal/structures"
	"path/filepath"
	"strings"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.SetDefault("output.fileMode", 0644)
	v.SetDefault("match.minDelay", "1m")
	v.SetDefault("match.maxDelay", "2m")
	v.SetDefault("compare.field", "comments")
	v.SetDefault("loader.validateSchema", true)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.mode", 0644)

	v.BindEnv("logger.level", "LOGMERGE_LOG_LEVEL")
	v.BindEnv("input.baseDir", "LOGMERGE_BASE_DIR")
	v.BindEnv("output.dir", "LOGMERGE_OUTPUT_DIR")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	if len(flags.Directories) > 0 {
		conf.Input.Directories = flags.Directories
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "LogMerge"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}

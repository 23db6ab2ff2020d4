package providers

import (
	"fmt"
	"io"
	"logmerge/internal/structures"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

type TypeEnum int

const (
	TypeApp = iota
	TypeScan
	TypeMatch
	TypeResolve
	TypeReport
)

var typeNames = map[TypeEnum]string{
	TypeApp:     "app",
	TypeScan:    "scan",
	TypeMatch:   "match",
	TypeResolve: "resolve",
	TypeReport:  "report",
}

func (t TypeEnum) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

const logFileName = "logmerge.log"

type Logger interface {
	Errorf(t TypeEnum, format string, args ...interface{})
	Warnf(t TypeEnum, format string, args ...interface{})
	Debugf(t TypeEnum, format string, args ...interface{})
	Infof(t TypeEnum, format string, args ...interface{})
	Fatalf(t TypeEnum, format string, args ...interface{})
	Close()
}

type LogProvider struct {
	log  zerolog.Logger
	file *os.File
}

func NewLogProvider(conf *structures.Config) (Logger, error) {
	level, err := zerolog.ParseLevel(conf.Logger.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", conf.Logger.Level, err)
	}

	path := filepath.Join(conf.Logger.Dir, logFileName)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, os.FileMode(conf.Logger.Mode))
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	var out io.Writer = file
	if conf.Debug {
		level = zerolog.DebugLevel
		out = zerolog.MultiLevelWriter(file, zerolog.ConsoleWriter{Out: os.Stderr})
	}

	return &LogProvider{
		log:  zerolog.New(out).Level(level).With().Timestamp().Logger(),
		file: file,
	}, nil
}

func (l *LogProvider) Errorf(t TypeEnum, format string, args ...interface{}) {
	l.log.Error().Str("type", t.String()).Msgf(format, args...)
}

func (l *LogProvider) Warnf(t TypeEnum, format string, args ...interface{}) {
	l.log.Warn().Str("type", t.String()).Msgf(format, args...)
}

func (l *LogProvider) Debugf(t TypeEnum, format string, args ...interface{}) {
	l.log.Debug().Str("type", t.String()).Msgf(format, args...)
}

func (l *LogProvider) Infof(t TypeEnum, format string, args ...interface{}) {
	l.log.Info().Str("type", t.String()).Msgf(format, args...)
}

func (l *LogProvider) Fatalf(t TypeEnum, format string, args ...interface{}) {
	l.log.Fatal().Str("type", t.String()).Msgf(format, args...)
}

func (l *LogProvider) Close() {
	if l.file != nil {
		_ = l.file.Close()
	}
}

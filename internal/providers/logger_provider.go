package providers

import (
	"dashcfg/internal/structures"
	"fmt"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

type TypeEnum string

const (
	TypeApp     TypeEnum = "app"
	TypeGet     TypeEnum = "get"
	TypePost    TypeEnum = "post"
	TypeCommand TypeEnum = "command"
)

var logTypes = []TypeEnum{TypeApp, TypeGet, TypePost, TypeCommand}

type Logger interface {
	Errorf(t TypeEnum, format string, args ...interface{})
	Warnf(t TypeEnum, format string, args ...interface{})
	Debugf(t TypeEnum, format string, args ...interface{})
	Infof(t TypeEnum, format string, args ...interface{})
	Fatalf(t TypeEnum, format string, args ...interface{})
	Close()
}

type LogProvider struct {
	loggers map[TypeEnum]zerolog.Logger
	files   []*lumberjack.Logger
}

func GetLogTypeByRequestType(method string) TypeEnum {
	if method == http.MethodPost {
		return TypePost
	}
	return TypeGet
}

func (lp *LogProvider) get(t TypeEnum) *zerolog.Logger {
	l, ok := lp.loggers[t]
	if !ok {
		l = lp.loggers[TypeApp]
	}
	return &l
}

func (lp *LogProvider) Errorf(t TypeEnum, format string, args ...interface{}) {
	lp.get(t).Error().Msgf(format, args...)
}

func (lp *LogProvider) Warnf(t TypeEnum, format string, args ...interface{}) {
	lp.get(t).Warn().Msgf(format, args...)
}

func (lp *LogProvider) Debugf(t TypeEnum, format string, args ...interface{}) {
	lp.get(t).Debug().Msgf(format, args...)
}

func (lp *LogProvider) Infof(t TypeEnum, format string, args ...interface{}) {
	lp.get(t).Info().Msgf(format, args...)
}

func (lp *LogProvider) Fatalf(t TypeEnum, format string, args ...interface{}) {
	lp.get(t).Fatal().Msgf(format, args...)
}

func (lp *LogProvider) Close() {
	for _, f := range lp.files {
		_ = f.Close()
	}
}

// NewLogProvider opens one rotating log file per log type inside
// conf.Logger.Dir, creating the directory on a fresh board.
func NewLogProvider(conf *structures.Config) (Logger, error) {
	if err := os.MkdirAll(conf.Logger.Dir, 0755); err != nil {
		return nil, fmt.Errorf("log dir: %w", err)
	}
	info, err := os.Stat(conf.Logger.Dir)
	if err != nil {
		return nil, fmt.Errorf("log dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("log dir %s is not a directory", conf.Logger.Dir)
	}

	level, err := zerolog.ParseLevel(conf.Logger.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	if conf.Debug {
		level = zerolog.DebugLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339

	lp := &LogProvider{loggers: make(map[TypeEnum]zerolog.Logger, len(logTypes))}

	for _, t := range logTypes {
		path := filepath.Join(conf.Logger.Dir, string(t)+".log")

		// lumberjack keeps the mode of an existing file, so create it with ours first.
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, os.FileMode(conf.Logger.Mode))
		if err != nil {
			lp.Close()
			return nil, err
		}
		f.Close()

		rotating := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    conf.Logger.MaxSizeMB,
			MaxBackups: conf.Logger.MaxBackups,
			MaxAge:     conf.Logger.MaxAgeDays,
			Compress:   true,
		}
		lp.files = append(lp.files, rotating)

		var out io.Writer = rotating
		if conf.Debug {
			out = zerolog.MultiLevelWriter(rotating, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
		}

		lp.loggers[t] = zerolog.New(out).Level(level).With().Timestamp().Str("type", string(t)).Logger()
	}

	return lp, nil
}

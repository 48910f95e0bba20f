// Package logger is a thin encapsulation of go.uber.org/zap for the
// formclass command. It also routes the go-log loggers of the library
// packages into the same core.
package logger

import (
	"fmt"
	"os"
	"strings"

	logging "github.com/ipfs/go-log/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config selects the level and destination of log output.
type Config struct {
	Level      string `mapstructure:"level"`
	FileName   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"maxsize"`
	MaxAge     int    `mapstructure:"maxage"`
	MaxBackups int    `mapstructure:"maxbackups"`
	Compress   bool   `mapstructure:"compress"`
}

// DefaultConfig logs warnings and above to stderr.
func DefaultConfig() *Config {
	return &Config{
		Level:      "WARN",
		MaxSize:    100,
		MaxAge:     30,
		MaxBackups: 5,
		Compress:   true,
	}
}

// Logger log writer
var Logger = zap.NewNop()

// SugarLogger simple logger
var SugarLogger = Logger.Sugar()

// InitLogger initializes Logger and SugarLogger from cfg and sets the level
// of all go-log loggers to match. An empty FileName logs to stderr.
func InitLogger(cfg *Config) error {
	level := new(zapcore.Level)
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return fmt.Errorf("log level %q: %w", cfg.Level, err)
	}
	lvl, err := logging.LevelFromString(strings.ToLower(cfg.Level))
	if err != nil {
		return fmt.Errorf("log level %q: %w", cfg.Level, err)
	}

	core := zapcore.NewCore(getEncoder(), getLogWriter(cfg), level)
	Logger = zap.New(core, zap.AddCaller())
	SugarLogger = Logger.Sugar()

	logging.SetPrimaryCore(core)
	logging.SetAllLoggers(lvl)
	return nil
}

func getEncoder() zapcore.Encoder {
	encodeConfig := zap.NewProductionEncoderConfig()
	encodeConfig.TimeKey = "time"
	encodeConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encodeConfig.EncodeDuration = zapcore.SecondsDurationEncoder
	encodeConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encodeConfig.EncodeCaller = zapcore.ShortCallerEncoder
	return zapcore.NewJSONEncoder(encodeConfig)
}

func getLogWriter(cfg *Config) zapcore.WriteSyncer {
	if cfg.FileName == "" {
		return zapcore.Lock(os.Stderr)
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.FileName,
		MaxAge:     cfg.MaxAge,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		Compress:   cfg.Compress,
	})
}

// Sync flushes buffered log entries.
func Sync() error {
	return Logger.Sync()
}

package log

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	Logger  *zap.Logger
	String  = zap.String
	Any     = zap.Any
	Int     = zap.Int
	Bool    = zap.Bool
	Float64 = zap.Float64
	Error   = zap.Error
)

func init() {
	// replaced by InitLogger at startup; keeps early callers from a nil logger
	Logger = zap.NewNop()
}

// InitLogger sets up the package-level logger.
// logpath is the rotated log file path, loglevel one of debug/info/warn/error.
func InitLogger(logpath string, loglevel string) {
	if logpath == "" {
		logpath = "./logs/electricity-stats.log"
	}
	hook := lumberjack.Logger{
		Filename:   logpath,
		MaxSize:    10, // MB per file
		MaxBackups: 30,
		MaxAge:     30, // days
		Compress:   true,
	}

	var level zapcore.Level
	switch loglevel {
	case "debug":
		level = zap.DebugLevel
	case "warn":
		level = zap.WarnLevel
	case "error":
		level = zap.ErrorLevel
	default:
		level = zap.InfoLevel
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000"),
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	writes := []zapcore.WriteSyncer{zapcore.AddSync(&hook)}
	// debug level also mirrors to the console for local runs
	if level == zap.DebugLevel {
		writes = append(writes, zapcore.AddSync(os.Stdout))
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.NewMultiWriteSyncer(writes...),
		level,
	)

	Logger = zap.New(core, zap.AddCaller(), zap.Development())
	Logger.Info("Logger init success")
}

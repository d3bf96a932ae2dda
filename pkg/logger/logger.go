package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewNamed builds a service-scoped logger. Development gets a console logger;
// everything else logs JSON to stdout and a size-rotated file.
func NewNamed(env, name string) (*zap.Logger, error) {
	if env == "development" {
		log, err := zap.NewDevelopment()
		if err != nil {
			return nil, err
		}
		return log.Named(name), nil
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	encoder := zapcore.NewJSONEncoder(encoderConfig)

	logDir := "logs"
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, err
	}
	fileWriter := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(logDir, name+".log"),
		MaxSize:    10, // MB
		MaxBackups: 7,
		MaxAge:     28, // days
		Compress:   true,
	})

	core := zapcore.NewTee(
		zapcore.NewCore(encoder, fileWriter, zap.InfoLevel),
		zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), zap.InfoLevel),
	)

	return zap.New(core, zap.AddCaller()).Named(name), nil
}

package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	level = zap.NewAtomicLevelAt(zap.InfoLevel)
	sugar *zap.SugaredLogger
)

func init() {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeTime = zapcore.TimeEncoderOfLayout("2006/01/02 15:04:05")

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(enc),
		zapcore.Lock(os.Stderr),
		level,
	)
	sugar = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).Named("tcpscan").Sugar()
}

// SetLevel accepts zap level names: debug, info, warn, error.
func SetLevel(name string) error {
	return level.UnmarshalText([]byte(name))
}

func Debugf(format string, v ...interface{}) {
	sugar.Debugf(format, v...)
}

func Infof(format string, v ...interface{}) {
	sugar.Infof(format, v...)
}

func Errorf(format string, v ...interface{}) {
	sugar.Errorf(format, v...)
}

func Fatalf(format string, v ...interface{}) {
	sugar.Fatalf(format, v...)
}

func Sync() {
	_ = sugar.Sync()
}

package logsvc

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/trezcool/findtutor/core"
)

// ZapLogger is the structured dev logger; prod reports to rollbar instead.
type ZapLogger struct {
	sugar   *zap.SugaredLogger
	enabled bool
}

var _ core.Logger = (*ZapLogger)(nil)

func NewZapLogger(conf *core.Config) *ZapLogger {
	var config zap.Config
	if conf.Debug {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config = zap.NewProductionConfig()
	}
	config.OutputPaths = []string{"stdout"}

	logger, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	return &ZapLogger{sugar: logger.Sugar(), enabled: true}
}

func (l *ZapLogger) Enable(enabled bool) { l.enabled = enabled }

func (l *ZapLogger) Debug(msg string, args ...interface{}) {
	if l.enabled {
		l.sugar.Debugw(msg, zap.Any("args", args))
	}
}

func (l *ZapLogger) Info(msg string, args ...interface{}) {
	if l.enabled {
		l.sugar.Infow(msg, zap.Any("args", args))
	}
}

func (l *ZapLogger) Warn(msg string, args ...interface{}) {
	if l.enabled {
		l.sugar.Warnw(msg, zap.Any("args", args))
	}
}

func (l *ZapLogger) Error(msg string, args ...interface{}) {
	if l.enabled {
		l.sugar.Errorw(msg, zap.Any("args", args))
	}
}

func (l *ZapLogger) Fatal(msg string, args ...interface{}) {
	l.sugar.Fatalw(msg, zap.Any("args", args))
}

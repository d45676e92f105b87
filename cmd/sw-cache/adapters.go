package main

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// redisLogger routes go-redis internal messages into zap
type redisLogger struct {
	logger *zap.Logger
}

func (l *redisLogger) Printf(ctx context.Context, format string, v ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, v...))
}

func setRedisLogger(logger *zap.Logger) {
	redis.SetLogger(&redisLogger{logger: logger.Named("redis")})
}

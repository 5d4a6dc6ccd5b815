package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"resume-parser-go/internal/config"
)

// Storage 存储管理器，聚合所有存储相关依赖
type Storage struct {
	// 对象存储
	MinIO *MinIO

	// 消息队列
	RabbitMQ *RabbitMQ

	// 关系型数据库
	MySQL *MySQL

	// 键值存储
	Redis *Redis
}

// NewStorage 创建存储管理器。
// MySQL和MinIO是硬依赖，初始化失败直接返回错误；
// RabbitMQ和Redis按配置可选，缺失时对应字段为nil，调用方需判空降级。
func NewStorage(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Storage, error) {
	if cfg == nil {
		return nil, fmt.Errorf("配置不能为空")
	}

	s := &Storage{}
	var err error
	var initErrors []string

	s.MinIO, err = NewMinIO(&cfg.MinIO, logger)
	if err != nil {
		return nil, fmt.Errorf("初始化MinIO失败: %w", err)
	}

	s.MySQL, err = NewMySQL(&cfg.MySQL)
	if err != nil {
		return nil, fmt.Errorf("初始化MySQL失败: %w", err)
	}
	logger.Info().Msg("MySQL连接初始化成功")

	if cfg.RabbitMQ.URL != "" {
		s.RabbitMQ, err = NewRabbitMQ(&cfg.RabbitMQ, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("初始化RabbitMQ失败")
			initErrors = append(initErrors, fmt.Sprintf("RabbitMQ: %v", err))
		}
	}

	if cfg.Redis.Address != "" {
		s.Redis, err = NewRedisAdapter(&cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("初始化Redis失败")
			initErrors = append(initErrors, fmt.Sprintf("Redis: %v", err))
		}
	}

	if len(initErrors) > 0 {
		logger.Warn().Str("components", strings.Join(initErrors, "; ")).Msg("部分存储组件初始化失败，以降级模式运行")
	}
	return s, nil
}

// InitializeMessaging 声明上传事件的exchange、队列和绑定
func (s *Storage) InitializeMessaging(cfg *config.RabbitMQConfig) error {
	if s.RabbitMQ == nil {
		return fmt.Errorf("RabbitMQ未初始化")
	}

	if err := s.RabbitMQ.EnsureExchange(cfg.ResumeEventsExchange, "direct", true); err != nil {
		return err
	}
	if err := s.RabbitMQ.EnsureQueue(cfg.RawResumeQueue, true); err != nil {
		return err
	}
	return s.RabbitMQ.BindQueue(cfg.RawResumeQueue, cfg.ResumeEventsExchange, cfg.UploadedRoutingKey)
}

// Close 依次关闭全部存储连接
func (s *Storage) Close() {
	if s.RabbitMQ != nil {
		s.RabbitMQ.Close()
	}
	if s.Redis != nil {
		s.Redis.Close()
	}
	if s.MySQL != nil {
		s.MySQL.Close()
	}
}

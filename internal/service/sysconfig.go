package service

import (
	"context"
	"errors"
	"strconv"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"homophone_dict/internal/models"
	"homophone_dict/internal/repository"
	"homophone_dict/internal/utils"
)

type SystemConfigService struct {
	configRepo           repository.SystemConfigRepository
	logger               *logrus.Logger
	defaultDeadlineHours int
}

func NewSystemConfigService(configRepo repository.SystemConfigRepository, logger *logrus.Logger, defaultDeadlineHours int) *SystemConfigService {
	return &SystemConfigService{
		configRepo:           configRepo,
		logger:               logger,
		defaultDeadlineHours: defaultDeadlineHours,
	}
}

func (s *SystemConfigService) Get(ctx context.Context, actor *Actor, key string) (*models.SystemConfig, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	cfg, err := s.configRepo.Get(ctx, key)
	if err != nil {
		return nil, storeError(err, "配置不存在", "讀取配置失敗")
	}
	return cfg, nil
}

func (s *SystemConfigService) Set(ctx context.Context, actor *Actor, key, value, description string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	key = utils.SanitizeInput(key, 0)
	if key == "" || len(key) > 100 {
		return validationError("配置鍵不能為空且不能超過 100 個字元")
	}
	cfg := &models.SystemConfig{
		ConfigKey:   key,
		ConfigValue: value,
		Description: description,
	}
	if err := s.configRepo.Set(ctx, cfg); err != nil {
		return internalError("儲存配置失敗", err)
	}
	return nil
}

// DeadlineHours 讀取審核時效，未設定或設定無效時使用預設值
func (s *SystemConfigService) DeadlineHours(ctx context.Context) int {
	cfg, err := s.configRepo.Get(ctx, models.ConfigKeyAuditDeadlineHours)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.WithError(err).Warn("讀取審核時效配置失敗，使用預設值")
		}
		return s.defaultDeadlineHours
	}
	hours, err := strconv.Atoi(cfg.ConfigValue)
	if err != nil || hours <= 0 {
		s.logger.WithField("value", cfg.ConfigValue).Warn("審核時效配置無效，使用預設值")
		return s.defaultDeadlineHours
	}
	return hours
}

package service

import (
	"context"
	"errors"

	"dualshot/internal/model"
	"dualshot/internal/repository"
	"dualshot/pkg/apperr"
	"dualshot/pkg/logger"
	"dualshot/pkg/sanitize"

	"go.uber.org/zap"
)

const maxPromptLen = 200

// PromptService 全局唯一的每日提示
type PromptService struct {
	meta          *repository.MetaRepository
	cache         PromptCache
	defaultPrompt string
}

func NewPromptService(meta *repository.MetaRepository, cache PromptCache, defaultPrompt string) *PromptService {
	return &PromptService{meta: meta, cache: cache, defaultPrompt: defaultPrompt}
}

// Get 读取每日提示，没有记录时返回默认值
func (s *PromptService) Get(ctx context.Context) (string, error) {
	if s.cache != nil {
		if v, ok, err := s.cache.GetPrompt(ctx); err == nil && ok {
			return v, nil
		} else if err != nil {
			logger.Warn("读取每日提示缓存失败", zap.Error(err))
		}
	}

	prompt, err := s.meta.Get(ctx, model.MetaKeyDailyPrompt)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		prompt = s.defaultPrompt
	case err != nil:
		return "", apperr.Storage(err)
	}

	if s.cache != nil {
		if err := s.cache.SetPrompt(ctx, prompt); err != nil {
			logger.Warn("写入每日提示缓存失败", zap.Error(err))
		}
	}
	return prompt, nil
}

// Set 覆盖每日提示
func (s *PromptService) Set(ctx context.Context, prompt string) (string, error) {
	prompt = sanitize.Text(prompt, maxPromptLen)
	if prompt == "" {
		return "", apperr.BadRequest("Prompt required")
	}
	if err := s.meta.Set(ctx, model.MetaKeyDailyPrompt, prompt); err != nil {
		return "", apperr.Storage(err)
	}
	if s.cache != nil {
		if err := s.cache.InvalidatePrompt(ctx); err != nil {
			logger.Warn("删除每日提示缓存失败", zap.Error(err))
		}
	}
	logger.Info("每日提示已更新", zap.String("prompt", prompt))
	return prompt, nil
}

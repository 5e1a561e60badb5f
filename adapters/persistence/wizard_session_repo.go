package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/khoahotran/personal-card/internal/domain/wizard"
	"github.com/khoahotran/personal-card/pkg/apperror"
	"github.com/khoahotran/personal-card/pkg/logger"
)

const wizardSessionKeyPrefix = "wizard:session:"

type redisWizardSessionRepo struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

// NewRedisWizardSessionRepo stores sessions as JSON. Every save renews the TTL, so a session
// expires after ttl of inactivity.
func NewRedisWizardSessionRepo(rdb *redis.Client, ttl time.Duration, logger logger.Logger) wizard.Repository {
	return &redisWizardSessionRepo{rdb: rdb, ttl: ttl, logger: logger}
}

func wizardSessionKey(id uuid.UUID) string {
	return wizardSessionKeyPrefix + id.String()
}

func (r *redisWizardSessionRepo) Save(ctx context.Context, s *wizard.Session) error {
	b, err := json.Marshal(s)
	if err != nil {
		return apperror.NewInternal("failed to marshal wizard session", err)
	}
	if err := r.rdb.Set(ctx, wizardSessionKey(s.ID), b, r.ttl).Err(); err != nil {
		return apperror.NewInternal("failed to save wizard session", err)
	}
	return nil
}

func (r *redisWizardSessionRepo) FindByID(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*wizard.Session, error) {
	b, err := r.rdb.Get(ctx, wizardSessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, wizard.ErrSessionNotFound
		}
		return nil, apperror.NewInternal("failed to load wizard session", err)
	}

	s := &wizard.Session{}
	if err := json.Unmarshal(b, s); err != nil {
		// an unreadable session is as good as an expired one
		r.logger.Warn("Failed to unmarshal wizard session", zap.String("session_id", id.String()), zap.Error(err))
		return nil, wizard.ErrSessionNotFound
	}
	if s.OwnerID != ownerID {
		return nil, wizard.ErrSessionNotFound
	}
	s.Normalize()
	return s, nil
}

func (r *redisWizardSessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.rdb.Del(ctx, wizardSessionKey(id)).Err(); err != nil {
		return fmt.Errorf("delete wizard session: %w", err)
	}
	return nil
}

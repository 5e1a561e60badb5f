package auth

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/personal-card/pkg/apperror"
	"github.com/khoahotran/personal-card/pkg/auth"
	"github.com/khoahotran/personal-card/pkg/logger"
)

// LogoutUseCase signs the caller out by revoking the token they used.
type LogoutUseCase struct {
	denylist auth.Denylist
	logger   logger.Logger
}

func NewLogoutUseCase(denylist auth.Denylist, log logger.Logger) *LogoutUseCase {
	return &LogoutUseCase{denylist: denylist, logger: log}
}

func (uc *LogoutUseCase) Execute(ctx context.Context, identity auth.Identity) error {
	ctx, span := tracer.Start(ctx, "Logout")
	defer span.End()

	if identity.IsZero() || identity.TokenID == "" {
		return apperror.NewUnauthorized("no active session", nil)
	}
	until := identity.ExpiresAt
	if until.IsZero() {
		until = time.Now().Add(24 * time.Hour)
	}
	if err := uc.denylist.Revoke(ctx, identity.TokenID, until); err != nil {
		span.RecordError(err)
		return apperror.NewInternal("failed to revoke token", err)
	}
	uc.logger.Info("User signed out", zap.String("user_id", identity.UserID.String()))
	return nil
}

// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/waffle/config"
	userstore "github.com/sprinthub/sprinthub/internal/app/store/users"
	"github.com/sprinthub/sprinthub/internal/domain/models"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after the store is
// connected but before the HTTP handler is built. SprintHub uses it to
// promote the configured superadmin, since role sync never touches
// admins and someone has to be first.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.SuperAdminEmail == "" {
		return nil
	}

	users := userstore.New(deps.KV)
	u, err := users.FindByEmail(ctx, appCfg.SuperAdminEmail)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			logger.Warn("superadmin email not found in user directory",
				zap.String("email", appCfg.SuperAdminEmail))
			return nil
		}
		return err
	}
	if u.Role == models.SystemRoleAdmin {
		return nil
	}

	u.Role = models.SystemRoleAdmin
	u.Touch(time.Now())
	if err := users.Put(ctx, u); err != nil {
		return err
	}
	logger.Info("promoted superadmin",
		zap.String("user_id", u.ID),
		zap.String("email", appCfg.SuperAdminEmail))
	return nil
}

package logger

import (
	"go.uber.org/zap"

	"github.com/aliskhannn/finpath/internal/config"
)

// New builds a production logger for the production environment and a
// development logger everywhere else.
func New(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}

	return zap.NewDevelopment()
}

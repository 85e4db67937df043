package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/otpgate/internal/auth"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.auth.enabled") {
		closer, err := auth.New(auth.Dependency{
			DBConn:     a.dbConn,
			CacheConn:  a.cacheConn,
			Goroutine:  a.goroutine,
			Router:     a.router,
			Messaging:  a.messaging,
			SMS:        a.sms,
			Config:     a.config,
			Instrument: a.ins,
			UID:        a.uid,
			Bcrypt:     a.bcrypt,
			Clock:      a.clock,
			Validator:  a.validator,
			JWT:        a.jwt,
		})
		if err != nil {
			slog.Error("failed to init module auth", "error", err)
			os.Exit(1)
		}
		a.moduleClosers = append(a.moduleClosers, closer)
	}
}

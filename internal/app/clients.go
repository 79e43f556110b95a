package app

import (
	"github.com/yungbote/artprompt-backend/internal/clients/unsplash"
	"github.com/yungbote/artprompt-backend/internal/config"
	"github.com/yungbote/artprompt-backend/internal/platform/logger"
)

type Clients struct {
	Unsplash *unsplash.Client
}

func wireClients(log *logger.Logger, cfg *config.Config) Clients {
	log.Info("Wiring clients...")
	c := Clients{Unsplash: unsplash.New(cfg.Unsplash)}
	if !c.Unsplash.Configured() {
		log.Warn("UNSPLASH_ACCESS_KEY not set; prompts will be returned without photos and gallery search is unavailable")
	}
	return c
}

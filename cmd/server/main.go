package main

import (
	"net/http"

	"github.com/shabelski89/pushups/internal/config"
	"github.com/shabelski89/pushups/internal/db"
	"github.com/shabelski89/pushups/internal/handlers"
	"github.com/shabelski89/pushups/internal/httpserver"
	"github.com/shabelski89/pushups/internal/logging"
	"github.com/shabelski89/pushups/internal/scheduler"
	"github.com/shabelski89/pushups/internal/store"
	"github.com/shabelski89/pushups/internal/telegram"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel, cfg.LogJSON)

	d, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		logrus.Fatal(err)
	}

	st := store.New(d)
	bot := &telegram.Bot{Token: cfg.TelegramToken}

	// scheduler
	s := &scheduler.Service{
		Store: st,
		Bot:   bot,
		Cfg:   cfg,
	}
	c := s.Start()
	defer c.Stop()

	h := httpserver.New(&handlers.BotHandler{
		Store: st,
		Cfg:   cfg,
		Bot:   bot,
	})

	logrus.Infof("listening on :%s", cfg.Port)
	logrus.Fatal(http.ListenAndServe(":"+cfg.Port, h))
}

package httpserver

import (
	"net/http"

	"github.com/shabelski89/pushups/internal/handlers"
	"github.com/shabelski89/pushups/internal/middleware"

	"github.com/julienschmidt/httprouter"
)

func New(bot *handlers.BotHandler) http.Handler {
	r := httprouter.New()

	// Telegram webhook (public)
	r.POST("/telegram/webhook", bot.Webhook)

	r.GET("/healthz", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return middleware.LogRequest(r)
}

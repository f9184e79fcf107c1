package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shabelski89/pushups/internal/config"
	"github.com/shabelski89/pushups/internal/exercise"
	"github.com/shabelski89/pushups/internal/messages"
	"github.com/shabelski89/pushups/internal/models"
	"github.com/shabelski89/pushups/internal/scheduler"
	"github.com/shabelski89/pushups/internal/store"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
)

// BotHandler turns Telegram webhook updates into store operations and
// rendered replies. Delivery of the reply is best effort; send failures are
// logged and never fail the webhook.
type BotHandler struct {
	Store *store.Store
	Cfg   *config.Config
	Bot   interface {
		SendMessage(int64, string) error
	}
	// Now is swappable in tests; nil means time.Now.
	Now func() time.Time
}

type incomingMessage struct {
	Text string `json:"text"`
	Chat struct {
		ID int64 `json:"id"`
	} `json:"chat"`
	From *struct {
		ID        int64  `json:"id"`
		Username  string `json:"username"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	} `json:"from"`
}

func (h *BotHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// === WEBHOOK ===
func (h *BotHandler) Webhook(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var update struct {
		Message       *incomingMessage `json:"message"`
		EditedMessage *incomingMessage `json:"edited_message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		return
	}
	msg, isEdit := update.Message, false
	if msg == nil {
		msg, isEdit = update.EditedMessage, true
	}
	if msg == nil || msg.From == nil {
		return
	}

	ctx := r.Context()
	user := models.User{
		ID:        msg.From.ID,
		Username:  msg.From.Username,
		FirstName: msg.From.FirstName,
		LastName:  msg.From.LastName,
	}
	// upsert on every inbound event, so display fields stay fresh
	if err := h.Store.RegisterUser(ctx, user); err != nil {
		logrus.Errorf("webhook: register user %d: %s", user.ID, err)
		h.reply(msg.Chat.ID, "Something went wrong, please try again later.")
		return
	}

	day := models.Day(h.now(), h.Cfg.Location)
	text := strings.TrimSpace(msg.Text)

	switch {
	case text == "/start" || strings.HasPrefix(text, "/start "):
		h.reply(msg.Chat.ID, messages.Greeting(msg.From.FirstName, msg.Chat.ID, h.Cfg.Goals))
	case text == "/report" || strings.HasPrefix(text, "/report@"):
		report, err := scheduler.BuildReport(ctx, h.Store, h.Cfg, day)
		if err != nil {
			logrus.Errorf("webhook: build report: %s", err)
			h.reply(msg.Chat.ID, "Something went wrong, please try again later.")
			return
		}
		h.reply(msg.Chat.ID, report)
	case strings.HasPrefix(text, "/"):
		h.reply(msg.Chat.ID, "I know /start and /report. To log a workout, just send a number.")
	default:
		h.handleEntry(ctx, msg, day, isEdit)
	}
}

// handleEntry logs one workout value. An edited message replaces the most
// recent entry for the same user/exercise/day instead of adding a new one.
func (h *BotHandler) handleEntry(ctx context.Context, msg *incomingMessage, day string, isEdit bool) {
	kind, raw := splitKind(msg.Text)
	goal, ok := h.Cfg.Goal(kind)
	if !ok {
		h.reply(msg.Chat.ID, fmt.Sprintf("I don't track %s.", exercise.Title(kind)))
		return
	}

	value, err := exercise.Parse(kind, raw)
	if err != nil {
		h.reply(msg.Chat.ID, fmt.Sprintf("I didn't get that. Send a number, like «%s».", exercise.Hint(kind)))
		return
	}

	userID := msg.From.ID
	if isEdit {
		err = h.Store.ReplaceLastEntry(ctx, userID, kind, day, value)
	} else {
		err = h.Store.RecordEntry(ctx, userID, kind, day, value)
	}
	if err != nil {
		if errors.Is(err, exercise.ErrInvalidValue) {
			h.reply(msg.Chat.ID, fmt.Sprintf("I didn't get that. Send a number, like «%s».", exercise.Hint(kind)))
			return
		}
		logrus.Errorf("webhook: save entry for user %d: %s", userID, err)
		h.reply(msg.Chat.ID, "Something went wrong, please try again later.")
		return
	}

	total, err := h.Store.SumForDay(ctx, userID, kind, day)
	if err != nil {
		logrus.Errorf("webhook: sum for user %d: %s", userID, err)
		h.reply(msg.Chat.ID, "Something went wrong, please try again later.")
		return
	}
	h.reply(msg.Chat.ID, messages.Progress(kind, value, total, goal))
}

// splitKind peels an exercise name off the front of the text; bare input
// defaults to push-ups, the way the original bot worked.
func splitKind(text string) (exercise.Kind, string) {
	fields := strings.Fields(text)
	if len(fields) > 0 {
		if k, ok := exercise.KindByName(fields[0]); ok {
			return k, strings.Join(fields[1:], " ")
		}
	}
	return exercise.Pushups, text
}

func (h *BotHandler) reply(chatID int64, text string) {
	if err := h.Bot.SendMessage(chatID, text); err != nil {
		logrus.Warnf("reply to chat %d: %s", chatID, err)
	}
}

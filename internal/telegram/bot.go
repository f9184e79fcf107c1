package telegram

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrForbidden means the recipient blocked the bot (or the bot was kicked
// from the chat). Callers skip the recipient and move on.
var ErrForbidden = errors.New("telegram: forbidden by recipient")

type Bot struct {
	Token string
}

func (b *Bot) apiURL(method string) string {
	return fmt.Sprintf("https://api.telegram.org/bot%s/%s", b.Token, method)
}

func (b *Bot) SendMessage(chatID int64, text string) error {
	body := map[string]any{
		"chat_id": chatID,
		"text":    text,
	}
	buf, _ := json.Marshal(body)
	resp, err := http.Post(b.apiURL("sendMessage"), "application/json", bytes.NewReader(buf))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%w: chat %d", ErrForbidden, chatID)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("telegram error: %s", resp.Status)
	}
	return nil
}

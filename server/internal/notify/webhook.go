package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// deliver sends ev to all configured webhooks. Errors are logged but do not
// affect the caller.
func (n *Notifier) deliver(ev *Event) {
	for _, wh := range n.webhooks {
		url := wh.URL()
		if url == "" {
			continue
		}

		var err error
		switch wh.Type {
		case "slack":
			err = n.sendSlack(url, ev)
		case "teams":
			err = n.sendTeams(url, ev)
		case "http":
			err = n.sendHTTP(url, ev)
		default:
			slog.Warn("notify: unknown webhook type, skipping", "type", wh.Type)
			continue
		}

		if err != nil {
			slog.Error("notify: webhook delivery failed",
				"type", wh.Type,
				"game_id", ev.GameID,
				"err", err,
			)
		} else {
			slog.Debug("notify: webhook delivered",
				"type", wh.Type,
				"game_id", ev.GameID,
			)
		}
	}
}

func (n *Notifier) sendSlack(url string, ev *Event) error {
	body, _ := json.Marshal(map[string]string{
		"text": fmt.Sprintf("*Lane* %s", ev.Message),
	})
	return n.post(url, body)
}

func (n *Notifier) sendTeams(url string, ev *Event) error {
	payload := map[string]interface{}{
		"@type":      "MessageCard",
		"@context":   "http://schema.org/extensions",
		"themeColor": themeColor(ev.Score),
		"summary":    ev.Kind,
		"title":      "Tenpin: game complete",
		"text":       ev.Message,
	}
	body, _ := json.Marshal(payload)
	return n.post(url, body)
}

func (n *Notifier) sendHTTP(url string, ev *Event) error {
	body, _ := json.Marshal(map[string]interface{}{"event": ev})
	return n.post(url, body)
}

func (n *Notifier) post(url string, body []byte) error {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("http post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned HTTP %d", resp.StatusCode)
	}
	return nil
}

func themeColor(score int) string {
	switch {
	case score == perfectScore:
		return "FFD700"
	case score >= 200:
		return "00C853"
	default:
		return "00D4FF"
	}
}

package alerts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// deliver sends webhook notifications for n to all configured targets.
// Errors are logged but do not affect the caller.
func (e *Engine) deliver(n *Notification) {
	for _, wh := range e.webhooks {
		url := wh.URL()
		if url == "" {
			continue
		}

		var err error
		switch wh.Type {
		case "slack":
			err = e.sendSlack(url, n)
		case "teams":
			err = e.sendTeams(url, n)
		case "http":
			err = e.sendHTTP(url, n)
		default:
			slog.Warn("alerts: unknown webhook type — skipping", "type", wh.Type)
			continue
		}

		if err != nil {
			slog.Error("alerts: webhook delivery failed",
				"type", wh.Type,
				"rule", n.RuleName,
				"err", err,
			)
		} else {
			slog.Debug("alerts: webhook delivered",
				"type", wh.Type,
				"rule", n.RuleName,
			)
		}
	}
}

func (e *Engine) sendSlack(url string, n *Notification) error {
	body, _ := json.Marshal(map[string]string{
		"text": fmt.Sprintf("*%s* %s", severityLabel(n.Severity), n.Message),
	})
	return e.post(url, body)
}

func (e *Engine) sendTeams(url string, n *Notification) error {
	payload := map[string]interface{}{
		"@type":      "MessageCard",
		"@context":   "http://schema.org/extensions",
		"themeColor": severityColor(n.Severity),
		"summary":    n.RuleName,
		"title":      fmt.Sprintf("Stresswatch Alert: %s", n.RuleName),
		"text":       n.Message,
	}
	body, _ := json.Marshal(payload)
	return e.post(url, body)
}

func (e *Engine) sendHTTP(url string, n *Notification) error {
	body, _ := json.Marshal(map[string]interface{}{"alert": n})
	return e.post(url, body)
}

func (e *Engine) post(url string, body []byte) error {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

func severityLabel(sev string) string {
	switch sev {
	case "critical":
		return "CRITICAL"
	case "info":
		return "INFO"
	default:
		return "WARNING"
	}
}

func severityColor(sev string) string {
	switch sev {
	case "critical":
		return "d63333"
	case "info":
		return "3399d6"
	default:
		return "d6a933"
	}
}

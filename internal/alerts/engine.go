package alerts

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/czaloom/mental-health-iot-example/internal/config"
	"github.com/czaloom/mental-health-iot-example/pkg/types"
)

const (
	defaultCooldown = 15 * time.Minute
	maxHistoryLen   = 200
)

// Notification is a single rule firing produced by the engine.
type Notification struct {
	ID         string    `json:"id"`
	RuleName   string    `json:"rule_name"`
	RecordID   string    `json:"record_id"`
	LocationID int       `json:"location_id"`
	Severity   string    `json:"severity"`
	Message    string    `json:"message"`
	Value      float64   `json:"value"`
	FiredAt    time.Time `json:"fired_at"`
}

// Engine evaluates notification rules against newly stored high-stress
// records and delivers webhook notifications when rules fire.
//
// Engine is safe for concurrent use.
type Engine struct {
	mu       sync.Mutex
	rules    []config.AlertRule
	webhooks []config.WebhookConfig
	lastFire map[string]time.Time // last fire time per "rule:location" key
	history  []*Notification
	client   *http.Client
	now      func() time.Time // injectable for deterministic tests
}

// NewEngine creates an Engine from the alert configuration.
// An Engine with empty rules is valid — Evaluate becomes a no-op.
func NewEngine(cfg config.AlertsConfig) *Engine {
	return &Engine{
		rules:    cfg.Rules,
		webhooks: cfg.Webhooks,
		lastFire: make(map[string]time.Time),
		client:   &http.Client{Timeout: 10 * time.Second},
		now:      time.Now,
	}
}

// SetRules replaces the rule set, e.g. after a config hot-reload.
func (e *Engine) SetRules(rules []config.AlertRule) {
	e.mu.Lock()
	e.rules = rules
	e.mu.Unlock()
}

// Evaluate tests all configured rules against rec. Notifications that fire
// are recorded and webhook delivery is triggered asynchronously. A rule in
// cooldown for the record's location stays silent.
func (e *Engine) Evaluate(rec *types.StressRecord) {
	e.mu.Lock()
	rules := e.rules
	e.mu.Unlock()
	if len(rules) == 0 {
		return
	}

	now := e.now()
	for _, rule := range rules {
		fires, value := evalCondition(rule.Condition, rec)
		if !fires {
			continue
		}

		key := rule.Name + ":" + strconv.Itoa(rec.LocationID)
		cooldown := rule.Cooldown
		if cooldown <= 0 {
			cooldown = defaultCooldown
		}

		e.mu.Lock()
		if now.Sub(e.lastFire[key]) <= cooldown && !e.lastFire[key].IsZero() {
			e.mu.Unlock()
			continue
		}
		e.lastFire[key] = now

		sev := rule.Severity
		if sev == "" {
			sev = "warning"
		}
		n := &Notification{
			ID:         fmt.Sprintf("%s:%d:%d", rule.Name, rec.LocationID, now.UnixNano()),
			RuleName:   rule.Name,
			RecordID:   rec.RecordID,
			LocationID: rec.LocationID,
			Severity:   sev,
			Value:      value,
			Message: fmt.Sprintf("[%s] %s fired at location %d — %s = %.2f",
				sev, rule.Name, rec.LocationID, rule.Condition, value),
			FiredAt: now,
		}
		e.history = append(e.history, n)
		if len(e.history) > maxHistoryLen {
			e.history = e.history[len(e.history)-maxHistoryLen:]
		}
		notification := *n
		e.mu.Unlock()

		slog.Warn("alert rule fired",
			"rule", rule.Name,
			"record_id", rec.RecordID,
			"location_id", rec.LocationID,
			"value", value,
			"severity", sev,
		)
		go e.deliver(&notification)
	}
}

// Recent returns up to n notifications, most recent first.
func (e *Engine) Recent(n int) []*Notification {
	e.mu.Lock()
	defer e.mu.Unlock()

	if n <= 0 || n > len(e.history) {
		n = len(e.history)
	}
	out := make([]*Notification, 0, n)
	for i := len(e.history) - 1; i >= len(e.history)-n; i-- {
		out = append(out, e.history[i])
	}
	return out
}

package catalog

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/askbar/askbar/internal/domain/chat"
)

// configFromValues maps key/value configuration rows onto the widget config.
// Unknown keys are ignored so dashboard-side additions do not break reads.
func configFromValues(values map[string]string) chat.WidgetConfig {
	cfg := chat.WidgetConfig{
		BrandName:        values["brand_name"],
		WelcomeMessage:   values["welcome_message"],
		FallbackMessage:  values["fallback_message"],
		ContactCTALabel:  values["contact_cta_label"],
		ContactCTAURL:    values["contact_cta_url"],
		OperatorCTALabel: values["operator_cta_label"],
		OperatorCTAURL:   values["operator_cta_url"],
	}
	if raw := values["contact_ctas"]; raw != "" {
		var choices []chat.CTAChoice
		if err := json.Unmarshal([]byte(raw), &choices); err == nil {
			cfg.ContactCTAs = choices
		}
	}
	if raw := values["theme"]; raw != "" {
		var theme map[string]string
		if err := json.Unmarshal([]byte(raw), &theme); err == nil {
			cfg.Theme = theme
		}
	}
	cfg.QuickButtonsLimit = parseIntValue(values["quick_buttons_limit"], 0)
	cfg.RequireEmailToChat = parseBoolValue(values["require_email_to_chat"])
	return cfg
}

func parseIntValue(raw string, fallback int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseBoolValue(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

package chat

// resolveCTAs assembles at most two call-to-action buttons: a primary from
// the FAQ or brand config, and the fixed operator contact as secondary unless
// the primary already points at the same destination. An empty slice comes
// back only when nothing at all is configured; the caller then substitutes a
// generic button.
func resolveCTAs(faq *FAQ, cfg WidgetConfig) []CTAItem {
	primary, configured := resolvePrimaryCTA(faq, cfg)
	secondary, hasSecondary := operatorCTA(cfg)

	if !configured && !hasSecondary {
		return nil
	}
	if !hasSecondary {
		return []CTAItem{primary}
	}
	if primary.URL == secondary.URL {
		return []CTAItem{primary}
	}
	return []CTAItem{primary, secondary}
}

// resolvePrimaryCTA walks the override chain: FAQ multi-CTA list, FAQ single
// CTA, config contact list, config single contact, hard default. The second
// return value reports whether anything beyond the hard default was found.
func resolvePrimaryCTA(faq *FAQ, cfg WidgetConfig) (CTAItem, bool) {
	if faq != nil {
		if len(faq.CTAs) > 0 {
			return normalizeCTA(faq.CTAs[0], "Learn More"), true
		}
		if faq.CTALabel != "" {
			return makeCTA(faq.CTALabel, faq.CTAURL), true
		}
	}
	if len(cfg.ContactCTAs) > 0 {
		return normalizeCTA(cfg.ContactCTAs[0], "Contact"), true
	}
	if cfg.ContactCTALabel != "" {
		return makeCTA(cfg.ContactCTALabel, cfg.ContactCTAURL), true
	}
	return CTAItem{Label: "Contact", Action: ActionLeadCapture}, false
}

func operatorCTA(cfg WidgetConfig) (CTAItem, bool) {
	if cfg.OperatorCTALabel == "" {
		return CTAItem{}, false
	}
	return makeCTA(cfg.OperatorCTALabel, cfg.OperatorCTAURL), true
}

func normalizeCTA(choice CTAChoice, fallbackLabel string) CTAItem {
	label := choice.Label
	if label == "" {
		label = fallbackLabel
	}
	return makeCTA(label, choice.URL)
}

// makeCTA derives the action from the presence of a destination.
func makeCTA(label, url string) CTAItem {
	action := ActionLeadCapture
	if url != "" {
		action = ActionExternalLink
	}
	return CTAItem{Label: label, URL: url, Action: action}
}

// normalizeCTAList converts configured choices for the bootstrap payload.
func normalizeCTAList(choices []CTAChoice, fallbackLabel string) []CTAItem {
	if len(choices) == 0 {
		return nil
	}
	out := make([]CTAItem, 0, len(choices))
	for _, c := range choices {
		out = append(out, normalizeCTA(c, fallbackLabel))
	}
	return out
}

package chat

import "time"

// Source identifies which side of the pipeline produced an answer.
type Source string

const (
	// SourceFAQMatch means a curated FAQ served the answer.
	SourceFAQMatch Source = "faq_match"
	// SourceNoMatch means the generic fallback served the answer.
	SourceNoMatch Source = "no_match"
)

// Status marks FAQ eligibility.
type Status string

const (
	StatusLive  Status = "LIVE"
	StatusDraft Status = "DRAFT"
)

// CTAAction distinguishes lead-capture prompts from external links.
type CTAAction string

const (
	ActionLeadCapture  CTAAction = "lead_capture"
	ActionExternalLink CTAAction = "external_link"
)

// CTAChoice is a raw label/url pair as configured upstream.
type CTAChoice struct {
	Label string `json:"label"`
	URL   string `json:"url,omitempty"`
}

// CTAItem is a normalized call-to-action button.
type CTAItem struct {
	Label  string    `json:"label"`
	URL    string    `json:"url,omitempty"`
	Action CTAAction `json:"action"`
}

// FAQ is one curated question/answer pair. Snapshots are immutable for the
// duration of a resolution call.
type FAQ struct {
	ID             string
	Question       string
	Category       string
	ShortAnswer    string
	LongAnswer     string
	Keywords       string
	Status         Status
	Priority       int
	CTALabel       string
	CTAURL         string
	CTAs           []CTAChoice
	Embedding      Embedding
	ViewCount      int
	ForceSynthesis bool
}

// WidgetConfig carries brand-level settings, externally edited and read-mostly.
type WidgetConfig struct {
	BrandName          string
	WelcomeMessage     string
	FallbackMessage    string
	ContactCTALabel    string
	ContactCTAURL      string
	ContactCTAs        []CTAChoice
	OperatorCTALabel   string
	OperatorCTAURL     string
	QuickButtonsLimit  int
	RequireEmailToChat bool
	Theme              map[string]string
}

// Query is one trimmed, ephemeral resolution request.
type Query struct {
	Message          string
	SessionID        string
	PreviousCategory string
	UserAgent        string
	Referrer         string
}

// Answer is the resolved payload returned to the widget.
type Answer struct {
	Answer     string    `json:"answer"`
	Category   string    `json:"category,omitempty"`
	FAQID      string    `json:"faq_id,omitempty"`
	CTA        *CTAItem  `json:"cta,omitempty"`
	CTAs       []CTAItem `json:"ctas,omitempty"`
	Confidence float64   `json:"confidence"`
	Source     Source    `json:"source"`
}

// QuickButton is a UI-exposed category shortcut.
type QuickButton struct {
	Label    string `json:"label"`
	Category string `json:"category"`
	Question string `json:"question"`
}

// BootConfig is the widget bootstrap payload.
type BootConfig struct {
	BrandName          string            `json:"brand_name"`
	WelcomeMessage     string            `json:"welcome_message"`
	QuickButtons       []QuickButton     `json:"quick_buttons"`
	Theme              map[string]string `json:"theme,omitempty"`
	FallbackMessage    string            `json:"fallback_message"`
	ContactCTALabel    string            `json:"contact_cta_label"`
	ContactCTAURL      string            `json:"contact_cta_url,omitempty"`
	ContactCTAs        []CTAItem         `json:"contact_ctas,omitempty"`
	RequireEmailToChat bool              `json:"require_email_to_chat"`
}

// SyncReport summarizes an embedding backfill run.
type SyncReport struct {
	Updated int `json:"updated"`
	Total   int `json:"total"`
}

// Widget event names accepted by the audit sink.
const (
	EventWidgetOpen    = "widget_open"
	EventButtonClick   = "button_click"
	EventQuestionAsked = "question_asked"
	EventAnswerServed  = "answer_served"
	EventLeadCaptured  = "lead_captured"
	EventCTAClicked    = "cta_clicked"
)

// KnownEvent reports whether name is one of the widget event names.
func KnownEvent(name string) bool {
	switch name {
	case EventWidgetOpen, EventButtonClick, EventQuestionAsked,
		EventAnswerServed, EventLeadCaptured, EventCTAClicked:
		return true
	}
	return false
}

// AuditEvent is one fire-and-forget telemetry record.
type AuditEvent struct {
	Name      string
	SessionID string
	Payload   map[string]any
	UserAgent string
	Referrer  string
	CreatedAt time.Time
}

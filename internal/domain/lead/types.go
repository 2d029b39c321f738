package lead

import (
	"time"

	"github.com/google/uuid"
)

// Lead is a captured visitor contact.
type Lead struct {
	ID               uuid.UUID
	Email            string
	Zip              string
	Name             string
	Tags             []string
	Source           string
	SourceCategory   string
	SourceQuestionID string
	SessionID        string
	CreatedAt        time.Time
}

// CaptureRequest is the inbound lead payload.
type CaptureRequest struct {
	Email            string   `json:"email"`
	Zip              string   `json:"zip,omitempty"`
	Name             string   `json:"name,omitempty"`
	Tags             []string `json:"tags,omitempty"`
	SessionID        string   `json:"session_id"`
	SourceCategory   string   `json:"source_category,omitempty"`
	SourceQuestionID string   `json:"source_question_id,omitempty"`
	UserAgent        string   `json:"-"`
	Referrer         string   `json:"-"`
}

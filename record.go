package aiagent

import (
	"encoding/json"
	"time"
)

// ConversationRecord is the persisted form of one conversation turn.
// Exactly one of Text and Payload is set.
type ConversationRecord struct {
	Role      Role            `json:"role"`
	Timestamp time.Time       `json:"timestamp"`
	Text      string          `json:"text,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// NewTextRecord creates a record holding inline text.
func NewTextRecord(role Role, text string, at time.Time) ConversationRecord {
	return ConversationRecord{Role: role, Timestamp: at, Text: text}
}

// NewPayloadRecord creates a record holding an arbitrary serializable payload.
func NewPayloadRecord(role Role, payload any, at time.Time) (ConversationRecord, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return ConversationRecord{}, &ValidationError{Field: "payload", Reason: err.Error()}
	}
	return ConversationRecord{Role: role, Timestamp: at, Payload: raw}, nil
}

// Validate checks the role and the text/payload exclusivity.
func (r ConversationRecord) Validate() error {
	if !r.Role.IsConversational() {
		return &ValidationError{Field: "role", Reason: "must be user or assistant, got " + string(r.Role)}
	}
	hasText := r.Text != ""
	hasPayload := len(r.Payload) > 0 && string(r.Payload) != "null"
	switch {
	case hasText && hasPayload:
		return &ValidationError{Field: "record", Reason: "text and payload are mutually exclusive"}
	case !hasText && !hasPayload:
		return &ValidationError{Field: "record", Reason: "one of text or payload is required"}
	}
	return nil
}

// Message converts a text record into a message with a single text part.
// Payload records have no message form and report false.
func (r ConversationRecord) Message() (Message, bool) {
	if r.Text == "" || !r.Role.IsConversational() {
		return Message{}, false
	}
	return Message{Role: r.Role, Parts: []ContentPart{NewTextPart(r.Text)}}, true
}

// UserIdentity identifies the owner of a session.
type UserIdentity struct {
	Name     string `json:"name,omitempty"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// Key returns the first non-empty field in the order name, username, email, phone.
func (u UserIdentity) Key() string {
	for _, v := range []string{u.Name, u.Username, u.Email, u.Phone} {
		if v != "" {
			return v
		}
	}
	return ""
}

// IsZero reports whether no identity field is set.
func (u UserIdentity) IsZero() bool {
	return u.Key() == ""
}

// Matches reports whether both identities share any non-empty field.
func (u UserIdentity) Matches(other UserIdentity) bool {
	eq := func(a, b string) bool { return a != "" && a == b }
	return eq(u.Name, other.Name) || eq(u.Username, other.Username) ||
		eq(u.Email, other.Email) || eq(u.Phone, other.Phone)
}

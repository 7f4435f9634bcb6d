package api

import (
	"fmt"
	"strings"
)

// EmailKind selects the aliasing strategy used to generate an address.
type EmailKind string

// Supported email kinds. The values are the labels the service expects.
const (
	EmailKindDomain     EmailKind = "domain"
	EmailKindPlusGmail  EmailKind = "plusGmail"
	EmailKindDotGmail   EmailKind = "dotGmail"
	EmailKindGoogleMail EmailKind = "googleMail"
)

var emailKinds = []EmailKind{
	EmailKindDomain,
	EmailKindPlusGmail,
	EmailKindDotGmail,
	EmailKindGoogleMail,
}

// EmailKinds returns every supported kind in declaration order.
func EmailKinds() []EmailKind {
	out := make([]EmailKind, len(emailKinds))
	copy(out, emailKinds)
	return out
}

// ParseEmailKind matches s against the supported labels, ignoring case.
func ParseEmailKind(s string) (EmailKind, error) {
	for _, k := range emailKinds {
		if strings.EqualFold(s, string(k)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown email kind %q", s)
}

// Valid reports whether k is a supported kind.
func (k EmailKind) Valid() bool {
	for _, known := range emailKinds {
		if k == known {
			return true
		}
	}
	return false
}

func (k EmailKind) String() string {
	return string(k)
}

// MarshalText implements encoding.TextMarshaler. Unknown kinds fail to
// serialize rather than being sent to the service.
func (k EmailKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("unknown email kind %q", string(k))
	}
	return []byte(k), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *EmailKind) UnmarshalText(text []byte) error {
	parsed, err := ParseEmailKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// MailHeader is one entry of the /message-list response.
type MailHeader struct {
	ID      string `json:"messageID"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	Time    string `json:"time,omitempty"`
}

type generateEmailRequest struct {
	Email   []EmailKind `json:"email"`
	EmailNo uint        `json:"emailNo"`
}

type generateEmailResponse struct {
	Email []string `json:"email"`
}

type messageListRequest struct {
	Email string `json:"email"`
}

type messageListResponse struct {
	MessageData []MailHeader `json:"messageData"`
}

type messageRequest struct {
	Email     string `json:"email"`
	MessageID string `json:"messageID"`
}

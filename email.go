package emailnator

import "github.com/emailnator/client-go/internal/api"

// EmailKind selects how the service builds a generated address.
type EmailKind = api.EmailKind

// Email kinds accepted by CreateEmails.
const (
	// Domain generates an address on one of the service's own domains.
	Domain = api.EmailKindDomain
	// PlusGmail generates a Gmail address with a +suffix alias.
	PlusGmail = api.EmailKindPlusGmail
	// DotGmail generates a Gmail address with dots inserted in the local part.
	DotGmail = api.EmailKindDotGmail
	// GoogleMail generates a googlemail.com alias.
	GoogleMail = api.EmailKindGoogleMail
)

// AllEmailKinds returns every supported kind.
func AllEmailKinds() []EmailKind {
	return api.EmailKinds()
}

// ParseEmailKind parses a kind label such as "plusGmail", ignoring case.
func ParseEmailKind(s string) (EmailKind, error) {
	return api.ParseEmailKind(s)
}

// adMessageID identifies the promotional entry the service places in every
// inbox listing.
const adMessageID = "ADSVPN"

// MailHeader describes one message in an inbox.
// From is the sender as displayed by the service and is not validated.
type MailHeader struct {
	ID      string `json:"id"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	// Time is the service's relative timestamp ("Just Now"), when provided.
	Time string `json:"time,omitempty"`
}

// IsAd reports whether h is the service's advertisement entry rather than a
// delivered message.
func (h *MailHeader) IsAd() bool {
	return h.ID == adMessageID
}

// Inbox is a snapshot of a mailbox at request time. Messages are in the order
// returned by the service.
type Inbox struct {
	Messages []MailHeader `json:"messages"`
}

// Delivered returns the messages excluding the advertisement entry.
func (i *Inbox) Delivered() []MailHeader {
	out := make([]MailHeader, 0, len(i.Messages))
	for _, m := range i.Messages {
		if !m.IsAd() {
			out = append(out, m)
		}
	}
	return out
}

func inboxFromAPI(headers []api.MailHeader) *Inbox {
	inbox := &Inbox{Messages: make([]MailHeader, len(headers))}
	for i, h := range headers {
		inbox.Messages[i] = MailHeader{
			ID:      h.ID,
			From:    h.From,
			Subject: h.Subject,
			Time:    h.Time,
		}
	}
	return inbox
}

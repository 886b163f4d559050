// Package mail delivers rendered application emails through a pluggable
// provider (SMTP relay, Amazon SES, or the log for local development).
package mail

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// Credentials authenticate the sender against the relay.
type Credentials struct {
	Username string
	Password string
}

// Address is a display name plus mailbox.
type Address struct {
	Name  string
	Email string
}

type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Message is a single outbound email. All recipients share one To header
// and one delivery transaction.
type Message struct {
	From        Address
	To          []string
	Subject     string
	HTML        string
	Attachments []Attachment
}

// Provider is a mail transport. Verify performs a round trip that proves the
// relay is reachable and accepts the credentials; Send opens its own session
// and returns the Message-ID of the accepted message.
type Provider interface {
	Name() string
	Verify(ctx context.Context, creds Credentials) error
	Send(ctx context.Context, creds Credentials, msg *Message) (string, error)
}

// NewMessageID returns "<uuid@domain>" using the domain of the sender.
func NewMessageID(from string) string {
	domain := "localhost"
	if at := strings.LastIndex(from, "@"); at >= 0 && at < len(from)-1 {
		domain = from[at+1:]
	}
	return "<" + uuid.NewString() + "@" + domain + ">"
}

// withSender returns a copy of m sent from email. m is left untouched.
func (m *Message) withSender(email string) *Message {
	c := *m
	c.From.Email = email
	return &c
}

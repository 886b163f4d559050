package mail

import (
	"context"
	"time"

	"careers-api/internal/common/config"
	"careers-api/internal/common/logger"
)

// LogProvider writes message metadata to the log instead of delivering it.
// Used for local development.
type LogProvider struct {
	logger logger.Logger
	now    func() time.Time
}

func NewLogProvider(log logger.Logger) *LogProvider {
	return &LogProvider{logger: log, now: time.Now}
}

func (p *LogProvider) Name() string {
	return config.MailProviderLog
}

func (p *LogProvider) Verify(ctx context.Context, _ Credentials) error {
	return ctx.Err()
}

func (p *LogProvider) Send(ctx context.Context, creds Credentials, msg *Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", Classify(err)
	}
	if len(msg.To) == 0 {
		return "", Classify(ErrNoRecipients)
	}
	if msg.From.Email == "" {
		msg = msg.withSender(creds.Username)
	}

	messageID := NewMessageID(msg.From.Email)
	raw, err := BuildRaw(msg, messageID, p.now())
	if err != nil {
		return "", Classify(err)
	}

	attachments := make([]string, 0, len(msg.Attachments))
	for _, a := range msg.Attachments {
		attachments = append(attachments, a.Filename)
	}

	p.logger.Info("Email captured by log provider", map[string]interface{}{
		"messageId":   messageID,
		"from":        FormatAddress(msg.From),
		"to":          msg.To,
		"subject":     msg.Subject,
		"attachments": attachments,
		"size":        len(raw),
	})
	return messageID, nil
}

package mail

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"careers-api/internal/common/config"
	"careers-api/internal/common/logger"
)

// SESAPI is the subset of the SES client used for delivery.
type SESAPI interface {
	SendRawEmail(ctx context.Context, params *ses.SendRawEmailInput, optFns ...func(*ses.Options)) (*ses.SendRawEmailOutput, error)
	GetSendQuota(ctx context.Context, params *ses.GetSendQuotaInput, optFns ...func(*ses.Options)) (*ses.GetSendQuotaOutput, error)
}

// SESProvider delivers through Amazon SES. The AWS identity comes from the
// SDK credential chain; Credentials.Username is used as the sender when no
// verified from address is configured.
type SESProvider struct {
	client    SESAPI
	fromEmail string
	logger    logger.Logger
	now       func() time.Time
}

func NewSESProvider(client SESAPI, fromEmail string, log logger.Logger) *SESProvider {
	return &SESProvider{
		client:    client,
		fromEmail: fromEmail,
		logger:    log,
		now:       time.Now,
	}
}

func (p *SESProvider) Name() string {
	return config.MailProviderSES
}

// Verify reads the account send quota, which fails when the identity or
// region is unusable.
func (p *SESProvider) Verify(ctx context.Context, _ Credentials) error {
	out, err := p.client.GetSendQuota(ctx, &ses.GetSendQuotaInput{})
	if err != nil {
		return fmt.Errorf("SES quota check failed: %w", err)
	}
	if out.Max24HourSend > 0 && out.SentLast24Hours >= out.Max24HourSend {
		return errors.New("SES daily sending quota exhausted")
	}
	return nil
}

func (p *SESProvider) Send(ctx context.Context, creds Credentials, msg *Message) (string, error) {
	if len(msg.To) == 0 {
		return "", Classify(ErrNoRecipients)
	}

	if p.fromEmail != "" {
		msg = msg.withSender(p.fromEmail)
	} else if msg.From.Email == "" {
		msg = msg.withSender(creds.Username)
	}

	messageID := NewMessageID(msg.From.Email)
	raw, err := BuildRaw(msg, messageID, p.now())
	if err != nil {
		return "", Classify(err)
	}

	out, err := p.client.SendRawEmail(ctx, &ses.SendRawEmailInput{
		RawMessage:   &types.RawMessage{Data: raw},
		Destinations: msg.To,
		Source:       aws.String(msg.From.Email),
	})
	if err != nil {
		return "", Classify(err)
	}

	p.logger.Info("Email sent via SES", map[string]interface{}{
		"messageId":    messageID,
		"sesMessageId": aws.ToString(out.MessageId),
		"recipients":   len(msg.To),
	})
	return messageID, nil
}

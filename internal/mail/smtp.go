package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"time"

	"careers-api/internal/common/config"
	"careers-api/internal/common/logger"
)

const defaultSMTPTimeout = 30 * time.Second

// DialFunc opens the raw TCP connection to the relay.
type DialFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// SMTPProvider delivers through an SMTP relay using PLAIN auth over TLS,
// either implicit (port 465) or upgraded with STARTTLS.
type SMTPProvider struct {
	config    config.SMTPConfig
	tlsConfig *tls.Config
	dial      DialFunc
	logger    logger.Logger
	now       func() time.Time
}

type SMTPOption func(*SMTPProvider)

// WithDialer replaces the network dialer.
func WithDialer(dial DialFunc) SMTPOption {
	return func(p *SMTPProvider) { p.dial = dial }
}

// WithTLSConfig replaces the TLS client configuration.
func WithTLSConfig(cfg *tls.Config) SMTPOption {
	return func(p *SMTPProvider) { p.tlsConfig = cfg }
}

func NewSMTPProvider(cfg config.SMTPConfig, log logger.Logger, opts ...SMTPOption) *SMTPProvider {
	dialer := &net.Dialer{}
	p := &SMTPProvider{
		config: cfg,
		tlsConfig: &tls.Config{
			ServerName: cfg.Host,
			MinVersion: tls.VersionTLS12,
		},
		dial:   dialer.DialContext,
		logger: log,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *SMTPProvider) Name() string {
	return config.MailProviderSMTP
}

// Verify connects, upgrades to TLS, authenticates and quits.
func (p *SMTPProvider) Verify(ctx context.Context, creds Credentials) error {
	client, err := p.open(ctx, creds)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Quit(); err != nil {
		return fmt.Errorf("failed to close SMTP session: %w", err)
	}
	return nil
}

// Send delivers msg in a single transaction with one RCPT per recipient.
func (p *SMTPProvider) Send(ctx context.Context, creds Credentials, msg *Message) (string, error) {
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

	client, err := p.open(ctx, creds)
	if err != nil {
		return "", Classify(err)
	}
	defer client.Close()

	if err := client.Mail(msg.From.Email); err != nil {
		return "", Classify(fmt.Errorf("failed to set sender: %w", err))
	}
	for _, addr := range msg.To {
		if err := client.Rcpt(addr); err != nil {
			return "", Classify(fmt.Errorf("failed to set recipient %s: %w", addr, err))
		}
	}

	w, err := client.Data()
	if err != nil {
		return "", Classify(fmt.Errorf("failed to open data writer: %w", err))
	}
	if _, err := w.Write(raw); err != nil {
		return "", Classify(fmt.Errorf("failed to write message: %w", err))
	}
	if err := w.Close(); err != nil {
		return "", Classify(fmt.Errorf("failed to close data writer: %w", err))
	}

	// The relay has accepted the message at this point.
	if err := client.Quit(); err != nil {
		p.logger.Warn("SMTP quit failed after delivery", map[string]interface{}{
			"messageId": messageID,
			"error":     err.Error(),
		})
	}

	p.logger.Info("Email sent via SMTP", map[string]interface{}{
		"messageId":  messageID,
		"recipients": len(msg.To),
		"size":       len(raw),
	})
	return messageID, nil
}

func (p *SMTPProvider) timeout() time.Duration {
	if p.config.Timeout > 0 {
		return config.GetDuration(p.config.Timeout)
	}
	return defaultSMTPTimeout
}

// open returns an authenticated session. The connection deadline is the
// earlier of the context deadline and the configured timeout.
func (p *SMTPProvider) open(ctx context.Context, creds Credentials) (*smtp.Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled before connecting: %w", err)
	}

	deadline := time.Now().Add(p.timeout())
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	dialCtx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	addr := p.config.Address()
	conn, err := p.dial(dialCtx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	if err := conn.SetDeadline(deadline); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to set connection deadline: %w", err)
	}

	if p.config.ImplicitTLS {
		tlsConn := tls.Client(conn, p.tlsConfig)
		if err := tlsConn.HandshakeContext(dialCtx); err != nil {
			conn.Close()
			return nil, fmt.Errorf("TLS handshake failed: %w", err)
		}
		conn = tlsConn
	}

	client, err := smtp.NewClient(conn, p.config.Host)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to start SMTP session: %w", err)
	}

	if !p.config.ImplicitTLS {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(p.tlsConfig); err != nil {
				client.Close()
				return nil, fmt.Errorf("failed to start TLS: %w", err)
			}
		}
	}

	if creds.Username != "" {
		auth := smtp.PlainAuth("", creds.Username, creds.Password, p.config.Host)
		if err := client.Auth(auth); err != nil {
			client.Close()
			return nil, fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	return client, nil
}

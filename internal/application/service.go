package application

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	apperrors "careers-api/internal/common/errors"
	"careers-api/internal/common/logger"
	"careers-api/internal/common/metrics"
	"careers-api/internal/common/observability"
	"careers-api/internal/mail"
	"careers-api/internal/notify"
)

// Notifier is told about every accepted submission. Its failures are logged
// and never change the response.
type Notifier interface {
	NotifySubmission(ctx context.Context, alert notify.Alert) error
}

type ServiceDependencies struct {
	Provider      mail.Provider
	Notifier      Notifier
	Observability *observability.Observability
	Logger        logger.Logger
	Now           func() time.Time
}

type Service struct {
	config   *Config
	provider mail.Provider
	notifier Notifier
	renderer *Renderer
	obs      *observability.Observability
	logger   logger.Logger
	now      func() time.Time
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		config:   config,
		provider: deps.Provider,
		notifier: deps.Notifier,
		renderer: NewRenderer(now),
		obs:      deps.Observability,
		logger:   deps.Logger.WithFields(map[string]interface{}{"component": "application"}),
		now:      now,
	}
}

// Submit runs the pipeline for one request. Exactly one message is sent per
// successful call; nothing is retried.
func (s *Service) Submit(ctx context.Context, req *Request) (result *Result, err error) {
	ctx, span := s.obs.StartSpan(ctx, "application.submit",
		attribute.Int("recipients", len(req.RecipientList)),
		attribute.String("provider", s.provider.Name()),
	)
	defer func() {
		outcome := OutcomeSuccess
		if err != nil {
			outcome = apperrors.GetErrorCategory(apperrors.Normalize(err).Code)
			span.SetStatus(codes.Error, outcome)
		}
		metrics.ApplicationsSubmitted.WithLabelValues(outcome).Inc()
		s.obs.RecordSubmission(ctx, outcome)
		span.End()
	}()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	creds, err := loadCredentials(s.config.Username, s.config.Password)
	if err != nil {
		s.logger.Error("email credentials not configured", nil)
		return nil, apperrors.NewCredentialsNotConfiguredError()
	}

	html, err := s.renderer.Render(req.Job, req.Answers, req.File)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	attachment, err := DecodeAttachment(req.File)
	if err != nil {
		return nil, apperrors.NewAttachmentDecodeFailedError(err)
	}

	msg := &mail.Message{
		From:        mail.Address{Name: s.config.FromName, Email: creds.Username},
		To:          req.RecipientList,
		Subject:     Subject(req.Job),
		HTML:        html,
		Attachments: []mail.Attachment{attachment},
	}

	dispatchCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	if err := s.verify(dispatchCtx, creds); err != nil {
		return nil, apperrors.NewEmailServerConnectionFailedError(err)
	}

	messageID, err := s.send(dispatchCtx, creds, msg)
	if err != nil {
		return nil, sendFailure(err)
	}

	s.logger.Info("application submitted", map[string]interface{}{
		"messageId":  messageID,
		"jobTitle":   req.Job.Title,
		"recipients": len(req.RecipientList),
		"attachment": attachment.Filename,
		"size":       len(attachment.Content),
	})

	s.notify(ctx, req, messageID, attachment.Filename)

	return &Result{MessageID: messageID}, nil
}

func (s *Service) verify(ctx context.Context, creds mail.Credentials) error {
	ctx, span := s.obs.StartSpan(ctx, "mail.verify")
	defer span.End()

	start := time.Now()
	err := s.provider.Verify(ctx, creds)
	s.observeDispatch(ctx, time.Since(start), "verify")
	if err != nil {
		span.RecordError(err)
		s.logger.Error("email server verification failed", map[string]interface{}{
			"provider": s.provider.Name(),
			"error":    err.Error(),
		})
	}
	return err
}

func (s *Service) send(ctx context.Context, creds mail.Credentials, msg *mail.Message) (string, error) {
	ctx, span := s.obs.StartSpan(ctx, "mail.send")
	defer span.End()

	start := time.Now()
	id, err := s.provider.Send(ctx, creds, msg)
	s.observeDispatch(ctx, time.Since(start), "send")
	if err != nil {
		span.RecordError(err)
	}
	return id, err
}

func (s *Service) observeDispatch(ctx context.Context, d time.Duration, stage string) {
	metrics.EmailDispatchDuration.WithLabelValues(s.provider.Name(), stage).Observe(d.Seconds())
	s.obs.RecordDispatchDuration(ctx, d, s.provider.Name(), stage)
}

func (s *Service) notify(ctx context.Context, req *Request, messageID, attachment string) {
	if s.notifier == nil {
		return
	}

	alert := notify.Alert{
		MessageID:      messageID,
		JobTitle:       req.Job.Title,
		EmploymentType: req.Job.EmploymentType,
		Recipients:     req.RecipientList,
		Attachment:     attachment,
		SubmittedAt:    s.now().UTC(),
	}
	if len(req.Answers) > 0 {
		alert.CandidateName = req.Answers[0]
	}
	if len(req.Answers) > 1 {
		alert.CandidateEmail = req.Answers[1]
	}

	if err := s.notifier.NotifySubmission(ctx, alert); err != nil {
		s.logger.Warn("recruiter alert failed", map[string]interface{}{
			"messageId": messageID,
			"error":     err.Error(),
		})
	}
}

// sendFailure maps a provider error to the response error by kind. Untyped
// errors are classified from their text.
func sendFailure(err error) error {
	sendErr := mail.Classify(err)
	switch sendErr.Kind {
	case mail.KindAuth:
		return apperrors.NewEmailAuthFailedError(sendErr)
	case mail.KindTimeout:
		return apperrors.NewEmailTimeoutError(sendErr)
	case mail.KindNetwork:
		return apperrors.NewEmailNetworkError(sendErr)
	default:
		return apperrors.NewEmailSendFailedError(sendErr)
	}
}

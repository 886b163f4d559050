// Package notify publishes recruiter alerts after an application email has
// been accepted by the relay.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"

	"careers-api/internal/common/logger"
)

const (
	EventApplicationSubmitted = "application_submitted"

	// SNS rejects subjects longer than 100 characters.
	maxSubjectLength = 100
)

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Alert describes one submitted application. Attachment contents are never
// included.
type Alert struct {
	MessageID      string    `json:"messageId"`
	JobTitle       string    `json:"jobTitle"`
	EmploymentType string    `json:"employmentType"`
	CandidateName  string    `json:"candidateName,omitempty"`
	CandidateEmail string    `json:"candidateEmail,omitempty"`
	Recipients     []string  `json:"recipients"`
	Attachment     string    `json:"attachment,omitempty"`
	SubmittedAt    time.Time `json:"submittedAt"`
}

type SNSNotifier struct {
	client   SNSService
	topicARN string
	logger   logger.Logger
}

func NewSNSNotifier(client SNSService, topicARN string, log logger.Logger) *SNSNotifier {
	return &SNSNotifier{
		client:   client,
		topicARN: topicARN,
		logger:   log.WithFields(map[string]interface{}{"component": "notify"}),
	}
}

// NotifySubmission publishes the alert as a JSON message on the topic.
func (n *SNSNotifier) NotifySubmission(ctx context.Context, alert Alert) error {
	body, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}

	out, err := n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topicARN),
		Subject:  aws.String(subjectFor(alert)),
		Message:  aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event": {
				DataType:    aws.String("String"),
				StringValue: aws.String(EventApplicationSubmitted),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("publish alert: %w", err)
	}

	n.logger.Info("recruiter alert published", map[string]interface{}{
		"messageId":    alert.MessageID,
		"snsMessageId": aws.ToString(out.MessageId),
	})
	return nil
}

func subjectFor(alert Alert) string {
	subject := "New application"
	if alert.JobTitle != "" {
		subject += ": " + alert.JobTitle
	}

	// subjects must be printable ASCII
	runes := make([]rune, 0, len(subject))
	for _, r := range subject {
		if r >= 0x20 && r < 0x7f {
			runes = append(runes, r)
		}
	}
	if len(runes) > maxSubjectLength {
		runes = runes[:maxSubjectLength]
	}
	return string(runes)
}

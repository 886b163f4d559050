package mail

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"careers-api/internal/common/logger"
)

type MockSESAPI struct {
	mock.Mock
}

func (m *MockSESAPI) SendRawEmail(ctx context.Context, params *ses.SendRawEmailInput, optFns ...func(*ses.Options)) (*ses.SendRawEmailOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ses.SendRawEmailOutput), args.Error(1)
}

func (m *MockSESAPI) GetSendQuota(ctx context.Context, params *ses.GetSendQuotaInput, optFns ...func(*ses.Options)) (*ses.GetSendQuotaOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ses.GetSendQuotaOutput), args.Error(1)
}

func TestSESProvider_Send(t *testing.T) {
	client := new(MockSESAPI)
	client.On("SendRawEmail", mock.Anything, mock.MatchedBy(func(in *ses.SendRawEmailInput) bool {
		return aws.ToString(in.Source) == "careers@verified.com" &&
			assert.ObjectsAreEqual([]string{"a@x.com", "b@y.com"}, in.Destinations) &&
			len(in.RawMessage.Data) > 0
	})).Return(&ses.SendRawEmailOutput{MessageId: aws.String("0100-ses")}, nil).Once()

	p := NewSESProvider(client, "careers@verified.com", logger.NewTestLogger(t))
	msg := testMessage()
	from := msg.From
	id, err := p.Send(context.Background(), Credentials{Username: "jobs@example.com"}, msg)

	require.NoError(t, err)
	assert.Contains(t, id, "@verified.com>")
	assert.Equal(t, from, msg.From)
	client.AssertExpectations(t)
}

func TestSESProvider_SendFallsBackToUsername(t *testing.T) {
	client := new(MockSESAPI)
	client.On("SendRawEmail", mock.Anything, mock.MatchedBy(func(in *ses.SendRawEmailInput) bool {
		return aws.ToString(in.Source) == "jobs@example.com"
	})).Return(&ses.SendRawEmailOutput{MessageId: aws.String("x")}, nil)

	msg := testMessage()
	msg.From.Email = ""
	_, err := NewSESProvider(client, "", logger.NewNoOpLogger()).Send(context.Background(), Credentials{Username: "jobs@example.com"}, msg)
	require.NoError(t, err)
	assert.Empty(t, msg.From.Email)
	client.AssertExpectations(t)
}

func TestSESProvider_SendClassifiesErrors(t *testing.T) {
	client := new(MockSESAPI)
	client.On("SendRawEmail", mock.Anything, mock.Anything).
		Return(nil, &smithy.GenericAPIError{Code: "InvalidClientTokenId", Message: "The security token included in the request is invalid"})

	_, err := NewSESProvider(client, "a@b.com", logger.NewNoOpLogger()).Send(context.Background(), Credentials{}, testMessage())

	var sendErr *SendError
	require.True(t, errors.As(err, &sendErr))
	assert.Equal(t, KindAuth, sendErr.Kind)
}

func TestSESProvider_Verify(t *testing.T) {
	t.Run("quota available", func(t *testing.T) {
		client := new(MockSESAPI)
		client.On("GetSendQuota", mock.Anything, mock.Anything).
			Return(&ses.GetSendQuotaOutput{Max24HourSend: 200, SentLast24Hours: 3}, nil)
		assert.NoError(t, NewSESProvider(client, "", logger.NewNoOpLogger()).Verify(context.Background(), Credentials{}))
	})

	t.Run("quota exhausted", func(t *testing.T) {
		client := new(MockSESAPI)
		client.On("GetSendQuota", mock.Anything, mock.Anything).
			Return(&ses.GetSendQuotaOutput{Max24HourSend: 200, SentLast24Hours: 200}, nil)
		assert.Error(t, NewSESProvider(client, "", logger.NewNoOpLogger()).Verify(context.Background(), Credentials{}))
	})

	t.Run("api error", func(t *testing.T) {
		client := new(MockSESAPI)
		client.On("GetSendQuota", mock.Anything, mock.Anything).Return(nil, errors.New("no credentials"))
		err := NewSESProvider(client, "", logger.NewNoOpLogger()).Verify(context.Background(), Credentials{})
		assert.ErrorContains(t, err, "SES quota check failed")
	})
}

func TestLogProvider(t *testing.T) {
	p := NewLogProvider(logger.NewTestLogger(t))
	assert.Equal(t, "log", p.Name())
	require.NoError(t, p.Verify(context.Background(), Credentials{}))

	msg := testMessage()
	msg.From.Email = ""
	id, err := p.Send(context.Background(), Credentials{Username: "jobs@example.com"}, msg)
	require.NoError(t, err)
	assert.Contains(t, id, "@example.com>")
	assert.Empty(t, msg.From.Email)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Send(ctx, Credentials{}, testMessage())
	assert.ErrorIs(t, err, context.Canceled)
}

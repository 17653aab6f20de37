package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	awsclient "realestate-marketplace/internal/common/aws"
	"realestate-marketplace/internal/common/logger"
	"realestate-marketplace/internal/common/metrics"
	"realestate-marketplace/internal/models"
)

// ==========================
// Mock Implementations
// ==========================

type MockSESService struct {
	SendEmailFunc func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

func (m *MockSESService) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	return m.SendEmailFunc(ctx, params, optFns...)
}

type MockSNSService struct {
	PublishFunc func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

func (m *MockSNSService) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	return m.PublishFunc(ctx, params, optFns...)
}

// ==========================
// Test Helper Functions
// ==========================

func createTestLogger(t *testing.T) logger.Logger {
	return logger.NewZapAdapter(zaptest.NewLogger(t))
}

func createTestConfig() Config {
	return Config{
		EmailEnabled: true,
		FromEmail:    "bookings@example.com",
		TopicEnabled: true,
		TopicARN:     "arn:aws:sns:eu-west-1:123456789012:maintenance",
	}
}

func testBooking() models.MaintenanceBooking {
	return models.MaintenanceBooking{
		ID:          "b-1",
		UserID:      "u-1",
		ServiceType: "Plumbing",
		BookingDate: "2025-06-01",
		BookingTime: "10:00",
		Status:      models.BookingStatusPending,
	}
}

func testUser() *models.User {
	return &models.User{ID: "u-1", Email: "mona@example.com", FullName: "Mona Adel"}
}

// ==========================
// BookingCreated
// ==========================

func TestBookingCreated(t *testing.T) {
	tests := []struct {
		name           string
		config         Config
		user           *models.User
		sesErr         error
		snsErr         error
		expectedResult Result
		validateOutput func(t *testing.T, email *ses.SendEmailInput, publish *sns.PublishInput)
	}{
		{
			name:           "both channels delivered",
			config:         createTestConfig(),
			user:           testUser(),
			expectedResult: Result{Email: StatusSent, Topic: StatusSent},
			validateOutput: func(t *testing.T, email *ses.SendEmailInput, publish *sns.PublishInput) {
				require.NotNil(t, email)
				assert.Equal(t, []string{"mona@example.com"}, email.Destination.ToAddresses)
				assert.Equal(t, "bookings@example.com", aws.ToString(email.Source))
				assert.Equal(t, "Your Plumbing booking is received", aws.ToString(email.Message.Subject.Data))
				assert.Contains(t, aws.ToString(email.Message.Body.Text.Data), "Hello Mona Adel")
				assert.Contains(t, aws.ToString(email.Message.Body.Text.Data), "Reference: b-1")

				require.NotNil(t, publish)
				assert.Equal(t, EventBookingCreated, aws.ToString(publish.MessageAttributes["event_type"].StringValue))
				var event models.MaintenanceBooking
				require.NoError(t, json.Unmarshal([]byte(aws.ToString(publish.Message)), &event))
				assert.Equal(t, "b-1", event.ID)
			},
		},
		{
			name:           "email failure is reported not returned",
			config:         createTestConfig(),
			user:           testUser(),
			sesErr:         errors.New("MessageRejected"),
			expectedResult: Result{Email: StatusFailed, Topic: StatusSent},
		},
		{
			name:           "topic failure is reported not returned",
			config:         createTestConfig(),
			user:           testUser(),
			snsErr:         errors.New("AuthorizationError"),
			expectedResult: Result{Email: StatusSent, Topic: StatusFailed},
		},
		{
			name:           "no recipient email",
			config:         createTestConfig(),
			user:           nil,
			expectedResult: Result{Email: StatusDisabled, Topic: StatusSent},
			validateOutput: func(t *testing.T, email *ses.SendEmailInput, publish *sns.PublishInput) {
				assert.Nil(t, email)
				assert.NotNil(t, publish)
			},
		},
		{
			name:           "channels disabled",
			config:         Config{},
			user:           testUser(),
			expectedResult: Result{Email: StatusDisabled, Topic: StatusDisabled},
			validateOutput: func(t *testing.T, email *ses.SendEmailInput, publish *sns.PublishInput) {
				assert.Nil(t, email)
				assert.Nil(t, publish)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sentEmail *ses.SendEmailInput
			var published *sns.PublishInput

			sesMock := &MockSESService{SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
				sentEmail = params
				if tt.sesErr != nil {
					return nil, tt.sesErr
				}
				return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
			}}
			snsMock := &MockSNSService{PublishFunc: func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
				published = params
				if tt.snsErr != nil {
					return nil, tt.snsErr
				}
				return &sns.PublishOutput{MessageId: aws.String("evt-1")}, nil
			}}

			n := NewBookingNotifier(tt.config,
				awsclient.NewSESClientWithAPI(sesMock),
				awsclient.NewSNSClientWithAPI(snsMock),
				createTestLogger(t))

			result := n.BookingCreated(context.Background(), testBooking(), tt.user)
			assert.Equal(t, tt.expectedResult, result)
			if tt.validateOutput != nil {
				tt.validateOutput(t, sentEmail, published)
			}
		})
	}
}

func TestBookingCreated_NilClients(t *testing.T) {
	n := NewBookingNotifier(createTestConfig(), nil, nil, createTestLogger(t))
	before := testutil.ToFloat64(metrics.NotificationsSent.WithLabelValues("email", "disabled"))

	result := n.BookingCreated(context.Background(), testBooking(), testUser())
	assert.Equal(t, Result{Email: StatusDisabled, Topic: StatusDisabled}, result)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.NotificationsSent.WithLabelValues("email", "disabled")))
}

func TestRenderTemplate(t *testing.T) {
	out := renderTemplate("Hi {{name}}, ref {{id}}{{unknown}}.", map[string]string{"name": "Omar", "id": "42"})
	assert.Equal(t, "Hi Omar, ref 42.", out)
}

package assessfraudrisk

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"marketplace-workers/internal/common/errors"
	"marketplace-workers/internal/common/logger"
	"marketplace-workers/internal/common/metrics"
	"marketplace-workers/internal/models"
)

// TopicPublisher is satisfied by *aws.SNSClient.
type TopicPublisher interface {
	PublishToTopic(ctx context.Context, topicARN, subject, message string, attrs map[string]string) (string, error)
}

// EmailSender is satisfied by *aws.SESClient.
type EmailSender interface {
	SendTextEmail(ctx context.Context, from, to, subject, body string) (string, error)
}

type AlerterConfig struct {
	TopicARN  string
	FromEmail string
	OpsEmail  string
}

// Alerter fans a risk alert out to SNS and SES. Either channel may be nil.
type Alerter struct {
	config    AlerterConfig
	publisher TopicPublisher
	email     EmailSender
	logger    logger.Logger
}

func NewAlerter(config AlerterConfig, publisher TopicPublisher, email EmailSender, log logger.Logger) *Alerter {
	return &Alerter{config: config, publisher: publisher, email: email, logger: log}
}

// Send reports whether at least one channel accepted the alert. Failures
// are logged and counted, never returned.
func (a *Alerter) Send(ctx context.Context, alert models.RiskAlert) bool {
	subject := fmt.Sprintf("[%s risk] service request %s scored %d", strings.ToUpper(alert.RiskLevel), alert.RequestID, alert.RiskScore)
	delivered := false

	if a.publisher != nil && a.config.TopicARN != "" {
		payload, err := json.Marshal(alert)
		if err == nil {
			_, err = a.publisher.PublishToTopic(ctx, a.config.TopicARN, subject, string(payload), map[string]string{
				"riskLevel": alert.RiskLevel,
			})
		}
		delivered = a.record("sns", alert, err) || delivered
	}

	if a.email != nil && a.config.OpsEmail != "" {
		_, err := a.email.SendTextEmail(ctx, a.config.FromEmail, a.config.OpsEmail, subject, alertBody(alert))
		delivered = a.record("ses", alert, err) || delivered
	}

	return delivered
}

func (a *Alerter) record(channel string, alert models.RiskAlert, err error) bool {
	if err != nil {
		sendErr := errors.NewNotificationSendFailedError(channel, err)
		metrics.FraudAlertsSent.WithLabelValues(channel, "failed").Inc()
		a.logger.Error("risk alert delivery failed", map[string]interface{}{
			"channel":      channel,
			"assessmentId": alert.AssessmentID,
			"errorCode":    string(sendErr.Code),
			"error":        sendErr,
		})
		return false
	}
	metrics.FraudAlertsSent.WithLabelValues(channel, "sent").Inc()
	return true
}

func alertBody(alert models.RiskAlert) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Assessment: %s\n", alert.AssessmentID)
	fmt.Fprintf(&b, "Service request: %s\n", alert.RequestID)
	fmt.Fprintf(&b, "User: %s\n", alert.UserID)
	fmt.Fprintf(&b, "Amount: %s\n", alert.Amount)
	fmt.Fprintf(&b, "Risk score: %d (%s)\n", alert.RiskScore, alert.RiskLevel)
	b.WriteString("Flags:\n")
	for _, f := range alert.Flags {
		fmt.Fprintf(&b, "  - %s\n", f)
	}
	fmt.Fprintf(&b, "Assessed at: %s\n", alert.AssessedAt)
	return b.String()
}

package aws

import (
	"context"
	"errors"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSES struct {
	input *ses.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: awssdk.String("ses-msg-1")}, nil
}

type fakeSNS struct {
	input *sns.PublishInput
	err   error
}

func (f *fakeSNS) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: awssdk.String("sns-msg-1")}, nil
}

func TestSESClient_SendTextEmail(t *testing.T) {
	fake := &fakeSES{}
	client := NewSESClientWithAPI(fake)

	id, err := client.SendTextEmail(context.Background(), "risk@example.com", "ops@example.com", "High risk", "score 75")
	require.NoError(t, err)
	assert.Equal(t, "ses-msg-1", id)
	assert.Equal(t, []string{"ops@example.com"}, fake.input.Destination.ToAddresses)
	assert.Equal(t, "risk@example.com", awssdk.ToString(fake.input.Source))
	assert.Equal(t, "score 75", awssdk.ToString(fake.input.Message.Body.Text.Data))
}

func TestSESClient_SendTextEmailError(t *testing.T) {
	client := NewSESClientWithAPI(&fakeSES{err: errors.New("throttled")})

	_, err := client.SendTextEmail(context.Background(), "a@example.com", "b@example.com", "s", "b")
	assert.EqualError(t, err, "throttled")
}

func TestSNSClient_PublishToTopic(t *testing.T) {
	fake := &fakeSNS{}
	client := NewSNSClientWithAPI(fake)

	id, err := client.PublishToTopic(context.Background(), "arn:aws:sns:eu-west-1:1:risk", "High risk", "{}", map[string]string{"riskLevel": "high"})
	require.NoError(t, err)
	assert.Equal(t, "sns-msg-1", id)
	assert.Equal(t, "arn:aws:sns:eu-west-1:1:risk", awssdk.ToString(fake.input.TopicArn))
	require.Contains(t, fake.input.MessageAttributes, "riskLevel")
	assert.Equal(t, "high", awssdk.ToString(fake.input.MessageAttributes["riskLevel"].StringValue))
}

package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/sethvargo/go-retry"
)

// sesAPI is the subset of the SESv2 client used here; a seam for tests.
type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESMailer sends emails through AWS SESv2, retrying transient failures
// with exponential backoff.
type SESMailer struct {
	client sesAPI
	sender string
}

// Options configures the SES client.
type Options struct {
	Region       string
	AccessKey    string
	SecretKey    string
	BaseEndpoint string // optional, for local stacks
	Sender       string
}

// NewSESMailer builds an SESv2-backed mailer.
func NewSESMailer(ctx context.Context, opts Options) (*SESMailer, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(opts.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKey,
			opts.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := sesv2.NewFromConfig(cfg, func(o *sesv2.Options) {
		if opts.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(opts.BaseEndpoint)
		}
	})

	return &SESMailer{client: client, sender: opts.Sender}, nil
}

// SendRecoveryCode emails the one-time recovery code.
func (m *SESMailer) SendRecoveryCode(ctx context.Context, to string, code string) error {
	subject := "Your recovery code"
	body := fmt.Sprintf("Use this code to recover your account: %s\n\nIt expires in a few minutes.", code)
	return m.send(ctx, to, subject, body)
}

// SendWelcome emails a greeting after signup.
func (m *SESMailer) SendWelcome(ctx context.Context, to string) error {
	subject := "Welcome to Gamix"
	body := "Your account is ready. See you in the app!"
	return m.send(ctx, to, subject, body)
}

func (m *SESMailer) send(ctx context.Context, to, subject, body string) error {
	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.sender),
		Destination:      &types.Destination{ToAddresses: []string{to}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body)},
				},
			},
		},
	}

	backoff := retry.WithMaxRetries(2, retry.NewExponential(200*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if _, err := m.client.SendEmail(ctx, input); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}

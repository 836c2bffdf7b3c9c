package summary

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	stderrors "intake-call-service/internal/common/errors"
	"intake-call-service/internal/common/logger"
)

// sesAPI is the subset of the SES client the dispatcher uses.
type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESDispatcher sends the summary through AWS SES.
type SESDispatcher struct {
	client    sesAPI
	from      string
	recipient string
	logger    logger.Logger
}

func NewSESDispatcher(ctx context.Context, region, from, recipient string, log logger.Logger) (*SESDispatcher, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return newSESDispatcher(ses.NewFromConfig(cfg), from, recipient, log), nil
}

func newSESDispatcher(client sesAPI, from, recipient string, log logger.Logger) *SESDispatcher {
	return &SESDispatcher{
		client:    client,
		from:      from,
		recipient: recipient,
		logger: log.With(map[string]interface{}{
			"component": "summary-dispatch",
			"provider":  "ses",
		}),
	}
}

func (d *SESDispatcher) Dispatch(ctx context.Context, record Record) error {
	if err := validateAddress(d.recipient); err != nil {
		return &stderrors.StandardError{
			Code:      stderrors.ErrCodeValidationFailed,
			Message:   "Recipient address invalid",
			Details:   err.Error(),
			Retryable: false,
			Timestamp: time.Now(),
		}
	}

	input := &ses.SendEmailInput{
		Source: aws.String(d.from),
		Destination: &types.Destination{
			ToAddresses: []string{d.recipient},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(record.Subject()),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data:    aws.String(record.Body()),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	}

	if _, err := d.client.SendEmail(ctx, input); err != nil {
		return stderrors.NewDispatchFailedError("ses", err)
	}

	d.logger.Info("summary dispatched", map[string]interface{}{
		"recipient": d.recipient,
		"caller":    record.CallerNumber,
	})
	return nil
}

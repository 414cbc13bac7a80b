package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsCfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	sestypes "github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/contenthub/contenthub/internal/config"
	"go.uber.org/zap"
)

type Message struct {
	To      string
	ToName  string
	Subject string
	Text    string
	HTML    string
}

// Mailer sends one transactional email.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type sesMailer struct {
	client *sesv2.Client
	from   string
}

func NewSES(ctx context.Context, cfg *config.Config) (Mailer, error) {
	if cfg.Email.FromAddress == "" {
		return nil, errors.New("email.fromAddress is required")
	}
	acfg, err := awsCfg.LoadDefaultConfig(ctx, awsCfg.WithRegion(cfg.Email.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	from := (&mail.Address{Name: cfg.Email.FromName, Address: cfg.Email.FromAddress}).String()
	return &sesMailer{client: sesv2.NewFromConfig(acfg), from: from}, nil
}

func (m *sesMailer) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return errors.New("recipient is empty")
	}
	to := (&mail.Address{Name: msg.ToName, Address: msg.To}).String()

	body := &sestypes.Body{}
	if msg.Text != "" {
		body.Text = &sestypes.Content{Data: aws.String(msg.Text), Charset: aws.String("UTF-8")}
	}
	if msg.HTML != "" {
		body.Html = &sestypes.Content{Data: aws.String(msg.HTML), Charset: aws.String("UTF-8")}
	}

	_, err := m.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.from),
		Destination:      &sestypes.Destination{ToAddresses: []string{to}},
		Content: &sestypes.EmailContent{
			Simple: &sestypes.Message{
				Subject: &sestypes.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
				Body:    body,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("ses send email: %w", err)
	}
	return nil
}

type logMailer struct{ log *zap.Logger }

// NewLog returns a Mailer that only logs, used when email is disabled.
func NewLog(log *zap.Logger) Mailer {
	return &logMailer{log: log}
}

func (m *logMailer) Send(_ context.Context, msg Message) error {
	m.log.Sugar().Infow("email suppressed", "to", msg.To, "subject", msg.Subject)
	return nil
}

package sns

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/kredopay/otp-api/internal/config"
)

// Sender delivers passcodes by SMS via AWS SNS. Used when the deployment is
// configured with NOTIFY_CHANNEL=sms and recipients are phone numbers.
type Sender struct {
	client *sns.Client
}

func NewSender(cfg *config.Config) (*Sender, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.SNSRegion),
	)
	if err != nil {
		return nil, err
	}
	return &Sender{client: sns.NewFromConfig(awsCfg)}, nil
}

func (s *Sender) Send(ctx context.Context, recipient, code string) error {
	message := fmt.Sprintf("Your verification code is %s", code)
	_, err := s.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber: &recipient,
		Message:     &message,
	})
	return err
}

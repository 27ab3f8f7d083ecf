package s3

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/kredopay/otp-api/internal/config"
	"github.com/kredopay/otp-api/internal/domain"
	"github.com/kredopay/otp-api/internal/pkg/id"
)

// Archiver writes batches of swept passcode records to S3 so the audit trail
// outlives the 1-hour table retention.
type Archiver struct {
	client *s3.Client
	bucket string
}

// NewArchiver builds an Archiver against cfg.AuditBucket. When
// cfg.AWSEndpointURL is set (LocalStack), the endpoint is overridden.
func NewArchiver(cfg *config.Config) (*Archiver, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSRegion),
	}
	if cfg.AWSAccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	clientOpts := []func(*s3.Options){}
	if cfg.AWSEndpointURL != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
			o.UsePathStyle = true
		})
	}

	return &Archiver{client: s3.NewFromConfig(awsCfg, clientOpts...), bucket: cfg.AuditBucket}, nil
}

// Archive stores the records as one JSON object under sweeps/. The ULID key
// keeps archive objects listable in sweep order.
func (a *Archiver) Archive(ctx context.Context, records []domain.Passcode) error {
	if len(records) == 0 {
		return nil
	}
	body, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal sweep batch: %w", err)
	}
	key := fmt.Sprintf("sweeps/%s.json", id.New())
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put sweep archive %s: %w", key, err)
	}
	return nil
}

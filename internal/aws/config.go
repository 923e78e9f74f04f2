package aws

import (
	"context"
	"fmt"
	"os"
	"strings"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// Config captures the object-storage and queue settings for the backend.
// The bucket lives on a Wasabi-compatible S3 endpoint, so both the legacy
// WASABI_KEY/WASABI_SECRET names and the AWS-style
// WASABI_ACCESS_KEY_ID/WASABI_SECRET_ACCESS_KEY names are accepted.
type Config struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	QueueURL        string
}

// FromEnv reads the storage configuration from environment variables.
func FromEnv() Config {
	region := os.Getenv("WASABI_REGION")
	if region == "" {
		region = "eu-central-1"
	}

	key := os.Getenv("WASABI_KEY")
	if key == "" {
		key = os.Getenv("WASABI_ACCESS_KEY_ID")
	}
	secret := os.Getenv("WASABI_SECRET")
	if secret == "" {
		secret = os.Getenv("WASABI_SECRET_ACCESS_KEY")
	}

	return Config{
		Region:          region,
		Endpoint:        normalizeEndpoint(os.Getenv("WASABI_ENDPOINT"), region),
		AccessKeyID:     key,
		SecretAccessKey: secret,
		Bucket:          os.Getenv("WASABI_BUCKET"),
		QueueURL:        os.Getenv("ANALYTICS_QUEUE_URL"),
	}
}

// normalizeEndpoint forces https and strips trailing slashes so presigned
// URLs never come out mixed-content. An empty endpoint falls back to the
// regional Wasabi hostname.
func normalizeEndpoint(endpoint, region string) string {
	if endpoint == "" {
		return fmt.Sprintf("https://s3.%s.wasabisys.com", region)
	}
	if strings.HasPrefix(endpoint, "http://") {
		endpoint = "https://" + strings.TrimPrefix(endpoint, "http://")
	} else if !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}
	return strings.TrimRight(endpoint, "/")
}

// Validate reports the names of any required storage settings that are absent.
func (c Config) Validate() error {
	var missing []string
	if c.AccessKeyID == "" {
		missing = append(missing, "WASABI_KEY or WASABI_ACCESS_KEY_ID")
	}
	if c.SecretAccessKey == "" {
		missing = append(missing, "WASABI_SECRET or WASABI_SECRET_ACCESS_KEY")
	}
	if c.Bucket == "" {
		missing = append(missing, "WASABI_BUCKET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing storage config: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Load builds the SDK configuration. Static credentials from the environment
// take precedence; otherwise the default provider chain applies.
func (c Config) Load(ctx context.Context) (sdkaws.Config, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(c.Region),
	}
	if c.AccessKeyID != "" && c.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKeyID, c.SecretAccessKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return cfg, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return cfg, nil
}

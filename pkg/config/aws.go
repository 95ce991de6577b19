package config

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
)

// LoadAWS resolves AWS credentials through the default chain for region.
// maxRetries bounds SDK retries; the SDK counts the first attempt, so the
// attempt limit is maxRetries+1.
func LoadAWS(ctx context.Context, region string, maxRetries int) (aws.Config, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithRetryMaxAttempts(maxRetries+1),
	)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config for region %s: %w", region, err)
	}
	return cfg, nil
}

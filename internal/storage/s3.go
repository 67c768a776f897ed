package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Client uploads ledger exports to S3-compatible object storage.
type Client struct {
	client *s3.Client
	bucket string
}

type UploadResult struct {
	Key  string `json:"key"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
}

// NewClient creates a client for an S3-compatible endpoint (AWS S3,
// DigitalOcean Spaces, MinIO).
func NewClient(endpoint, region, bucket, accessKeyID, secretAccessKey string) (*Client, error) {
	customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if service == s3.ServiceID && endpoint != "" {
			return aws.Endpoint{
				URL:           endpoint,
				SigningRegion: region,
			}, nil
		}
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithEndpointResolverWithOptions(customResolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKeyID, secretAccessKey, "",
		)),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true // Required for Spaces/MinIO
	})

	return &Client{
		client: client,
		bucket: bucket,
	}, nil
}

// UploadExport stores a serialized history export under
// exports/<userID>/<timestamp>.json and returns where it landed.
func (c *Client) UploadExport(ctx context.Context, userID string, body []byte) (*UploadResult, error) {
	key := fmt.Sprintf("exports/%s/%s.json", userID, time.Now().UTC().Format("20060102T150405Z"))

	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
		ACL:         types.ObjectCannedACLPrivate,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload export: %w", err)
	}

	return &UploadResult{
		Key:  key,
		URL:  fmt.Sprintf("s3://%s/%s", c.bucket, key),
		Size: int64(len(body)),
	}, nil
}

package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

const keyPrefix = "companies/"

const (
	PathRecords  = "records/"
	PathRequests = "requests/"
	PathLogos    = "logos/"
	PathAvatars  = "avatars/"
)

// S3Client stores photos and returns the public URL of the object.
type S3Client interface {
	UploadFile(ctx context.Context, data []byte, key string) (string, error)
	DeleteFile(ctx context.Context, key string) error
}

type storageClient struct {
	bucket    string
	publicURL string
	client    *s3.Client
}

// NewStorageClient builds the client. publicURL is the prefix objects are
// served from (a CloudFront domain or the bucket website endpoint).
func NewStorageClient(ctx context.Context, region, bucket, publicURL string) (S3Client, error) {
	if bucket == "" {
		return nil, errors.New("bucket name is empty")
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}

	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", bucket, region)
	}
	if !strings.HasSuffix(publicURL, "/") {
		publicURL += "/"
	}

	return &storageClient{
		bucket:    bucket,
		publicURL: publicURL,
		client:    s3.NewFromConfig(cfg),
	}, nil
}

// CompanyKey namespaces an object under its company.
func CompanyKey(companyCode, path, filename string) string {
	return keyPrefix + companyCode + "/" + path + filename
}

// KeyFromURL recovers the object key of a URL returned by UploadFile.
// It returns "" for URLs this package did not produce.
func KeyFromURL(url string) string {
	i := strings.Index(url, keyPrefix)
	if i < 0 {
		return ""
	}
	return url[i:]
}

func (s *storageClient) UploadFile(ctx context.Context, data []byte, key string) (string, error) {
	if key == "" {
		return "", errors.New("key is empty")
	}

	mimeType := mime.TypeByExtension(filepath.Ext(key))
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: &mimeType,
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", err
	}
	return s.publicURL + key, nil
}

// DeleteFile is idempotent: a missing key is not an error.
func (s *storageClient) DeleteFile(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})

	var noKey *types.NoSuchKey
	if errors.As(err, &noKey) {
		return nil
	}
	return err
}

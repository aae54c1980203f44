package utils

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type S3Uploader struct {
	client  *s3.Client
	bucket  string
	baseURL string // CloudFront or bucket URL without trailing slash
}

func NewS3Uploader(cfg aws.Config, bucket, baseURL string) *S3Uploader {
	return &S3Uploader{
		client:  s3.NewFromConfig(cfg),
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// DecodeDataURI splits "data:<mime>;base64,<data>" into content type,
// file extension and raw bytes.
func DecodeDataURI(dataURI string) (contentType, ext string, data []byte, err error) {
	meta, payload, ok := strings.Cut(dataURI, ",")
	if !ok || !strings.HasPrefix(meta, "data:") || !strings.HasSuffix(meta, ";base64") {
		return "", "", nil, fmt.Errorf("%w: invalid base64 image", ErrInvalidInput)
	}
	contentType = strings.TrimSuffix(strings.TrimPrefix(meta, "data:"), ";base64")

	switch contentType {
	case "image/jpeg", "image/jpg":
		ext = ".jpg"
	default:
		if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
			ext = exts[0]
		} else if _, sub, ok := strings.Cut(contentType, "/"); ok {
			ext = "." + sub
		}
	}

	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", "", nil, fmt.Errorf("%w: failed to decode image: %v", ErrInvalidInput, err)
	}
	return contentType, ext, data, nil
}

// UploadBase64Image stores a data URI under prefix/ and returns its public URL.
func (u *S3Uploader) UploadBase64Image(ctx context.Context, dataURI, prefix, name string) (string, error) {
	contentType, ext, data, err := DecodeDataURI(dataURI)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s/%s-%d%s", prefix, name, time.Now().UnixNano(), ext)
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		ACL:         s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return fmt.Sprintf("%s/%s", u.baseURL, key), nil
}

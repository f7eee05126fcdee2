package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"

	"github.com/pageza/cooking-assistant/backend/internal/models"
)

// S3API is the subset of the S3 client used by S3Archive
type S3API interface {
	s3.ListObjectsV2APIClient
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// S3Archive uses the file archive layout as object keys:
// <prefix>/<email with @ replaced>/<YYYYMMDD_HHMMSS>.json
type S3Archive struct {
	client S3API
	bucket string
	prefix string
	logger *zap.Logger
	now    func() time.Time
}

func NewS3Archive(client S3API, bucket, prefix string, logger *zap.Logger) *S3Archive {
	return &S3Archive{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		logger: logger,
		now:    time.Now,
	}
}

func (a *S3Archive) userPrefix(email string) string {
	return path.Join(a.prefix, UserDirName(email)) + "/"
}

// Append uploads a new document under a key that does not exist yet
func (a *S3Archive) Append(ctx context.Context, email, prompt string, payload models.RecipePayload) (*models.RecipeEntry, error) {
	created := a.now()
	data, err := json.MarshalIndent(archiveDocument{
		Email:      email,
		Prompt:     prompt,
		RecipeData: payload,
		CreatedAt:  formatTimestamp(created),
	}, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal recipe entry: %w", err)
	}

	stamp := created.Format(entryStampLayout)
	id := stamp
	for n := 1; ; n++ {
		exists, err := a.exists(ctx, a.userPrefix(email)+id+".json")
		if err != nil {
			return nil, err
		}
		if !exists {
			break
		}
		id = fmt.Sprintf("%s_%d", stamp, n)
	}

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(a.userPrefix(email) + id + ".json"),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload recipe entry: %w", err)
	}

	return &models.RecipeEntry{
		ID:         id,
		UserEmail:  email,
		Prompt:     prompt,
		RecipeData: payload,
		CreatedAt:  created,
	}, nil
}

// ListFor downloads every document under the user's prefix, newest first
func (a *S3Archive) ListFor(ctx context.Context, email string) ([]models.RecipeEntry, error) {
	prefix := a.userPrefix(email)
	paginator := s3.NewListObjectsV2Paginator(a.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(a.bucket),
		Prefix: aws.String(prefix),
	})

	entries := []datedEntry{}
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list recipe entries: %w", err)
		}

		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if !strings.HasSuffix(key, ".json") {
				continue
			}

			doc, err := a.fetch(ctx, key)
			if err != nil {
				a.logger.Warn("skipping unreadable recipe object", zap.String("key", key), zap.Error(err))
				continue
			}
			if !doc.ownedBy(email, false) {
				continue
			}
			id := strings.TrimSuffix(strings.TrimPrefix(key, prefix), ".json")
			entries = append(entries, doc.toEntry(id, email))
		}
	}

	return sortNewestFirst(entries), nil
}

func (a *S3Archive) fetch(ctx context.Context, key string) (*archiveDocument, error) {
	out, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, err
	}

	var doc archiveDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (a *S3Archive) exists(ctx context.Context, key string) (bool, error) {
	_, err := a.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return true, nil
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && (apiErr.ErrorCode() == "NotFound" || apiErr.ErrorCode() == "NoSuchKey") {
		return false, nil
	}
	return false, fmt.Errorf("failed to check recipe key: %w", err)
}

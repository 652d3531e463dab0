// Package storage issues presigned S3 upload URLs for tweet images.
package storage

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/goliatone/go-errors"
)

// DefaultURLExpiration bounds how long an issued upload URL stays usable.
const DefaultURLExpiration = 15 * time.Minute

var allowedImageTypes = map[string]struct{}{
	"image/jpg":  {},
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9.\-]`)

// ErrInvalidImageType rejects uploads outside the image allowlist.
var ErrInvalidImageType = errors.New(
	"image type is not supported",
	errors.CategoryValidation,
).WithTextCode("INVALID_IMAGE_TYPE").WithCode(errors.CodeBadRequest)

// SignedUpload is what a client needs to PUT an image and later reference it.
type SignedUpload struct {
	SignedURL string `json:"signed_url"`
	FileURL   string `json:"file_url"`
	Key       string `json:"key"`
}

// Presigner is the narrow surface Uploads needs from the S3 SDK.
// *s3.PresignClient satisfies it.
type Presigner interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Uploads issues presigned upload URLs scoped under an account's prefix.
type Uploads struct {
	presigner  Presigner
	bucket     string
	region     string
	expiration time.Duration
	now        func() time.Time
}

// Option configures an Uploads service.
type Option func(*Uploads)

// WithExpiration overrides the presigned URL validity window.
func WithExpiration(d time.Duration) Option {
	return func(u *Uploads) {
		if d > 0 {
			u.expiration = d
		}
	}
}

// WithPresigner swaps the SDK presigner, used by tests.
func WithPresigner(p Presigner) Option {
	return func(u *Uploads) {
		u.presigner = p
	}
}

// WithClock overrides the timestamp source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(u *Uploads) {
		u.now = now
	}
}

// NewUploads builds an Uploads service over static credentials. Presigning is
// a local signature computation, so construction is the only step that can
// fail.
func NewUploads(ctx context.Context, region, bucket, accessKeyID, secretAccessKey string, opts ...Option) (*Uploads, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to load AWS configuration")
	}

	u := &Uploads{
		presigner:  s3.NewPresignClient(s3.NewFromConfig(cfg)),
		bucket:     bucket,
		region:     region,
		expiration: DefaultURLExpiration,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(u)
	}

	return u, nil
}

// SignedUploadURL validates the content type, derives a collision-resistant
// object key under the account's prefix, and presigns a public-read PUT.
func (u *Uploads) SignedUploadURL(ctx context.Context, accountID, fileName, fileType string) (*SignedUpload, error) {
	if _, ok := allowedImageTypes[fileType]; !ok {
		return nil, ErrInvalidImageType.Clone().WithMetadata(map[string]any{
			"file_type": fileType,
		})
	}

	key := u.objectKey(accountID, fileName)

	req, err := u.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(fileType),
		ACL:         types.ObjectCannedACLPublicRead,
	}, s3.WithPresignExpires(u.expiration))
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to presign upload URL")
	}

	return &SignedUpload{
		SignedURL: req.URL,
		FileURL:   u.publicURL(key),
		Key:       key,
	}, nil
}

func (u *Uploads) objectKey(accountID, fileName string) string {
	clean := unsafeNameChars.ReplaceAllString(fileName, "_")
	return fmt.Sprintf("uploads/%s/tweets/%s_%d", accountID, clean, u.now().Unix())
}

func (u *Uploads) publicURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, key)
}

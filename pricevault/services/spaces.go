package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/ellavondegurechaff/pricevault/pricevault/config"
	"github.com/ellavondegurechaff/pricevault/pricevault/errs"
)

// ObjectGetter is the part of *s3.Client SpacesSource needs.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// SpacesSource reads inputs from an S3-compatible bucket (DigitalOcean
// Spaces by default).
type SpacesSource struct {
	client  ObjectGetter
	bucket  string
	root    string
	timeout time.Duration
}

type SpacesOptions struct {
	Key      string
	Secret   string
	Region   string
	Bucket   string
	Root     string
	Endpoint string
}

func NewSpacesSource(ctx context.Context, opts SpacesOptions) (*SpacesSource, error) {
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s.digitaloceanspaces.com", opts.Region)
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(opts.Key, opts.Secret, "")),
		awsconfig.WithRegion(opts.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load Spaces config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})
	return NewSpacesSourceWithClient(client, opts.Bucket, opts.Root), nil
}

func NewSpacesSourceWithClient(client ObjectGetter, bucket, root string) *SpacesSource {
	return &SpacesSource{
		client:  client,
		bucket:  bucket,
		root:    strings.Trim(root, "/"),
		timeout: config.SpacesRequestTimeout,
	}
}

func (s *SpacesSource) key(name string) string {
	if s.root == "" {
		return name
	}
	return path.Join(s.root, name)
}

// Open starts a GetObject for name. The request, body included, is bounded
// by SpacesRequestTimeout and ends when the returned reader is closed.
func (s *SpacesSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	key := s.key(name)
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		cancel()
		return nil, &errs.IOError{Path: s.bucket + "/" + key, Err: err}
	}
	return &object{ReadCloser: out.Body, name: s.bucket + "/" + key, cancel: cancel}, nil
}

// object is a GetObject body that knows where it came from, so snapshot
// errors name the blob.
type object struct {
	io.ReadCloser
	name   string
	cancel context.CancelFunc
}

func (o *object) Name() string { return o.name }

func (o *object) Close() error {
	defer o.cancel()
	return o.ReadCloser.Close()
}

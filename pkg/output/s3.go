package output

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/color"
	"image/png"
	"os"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// DefaultUploadTimeout bounds a single upload.
const DefaultUploadTimeout = 30 * time.Second

// ErrNoBucket is returned when an upload is attempted without a bucket.
var ErrNoBucket = errors.New("no S3 bucket configured")

// S3Config holds the connection settings for an S3-compatible store.
type S3Config struct {
	AccessKey string
	SecretKey string
	Endpoint  string
	Region    string
	Bucket    string
	ACL       string
}

// getEnv returns the environment value for key, or fallback when unset.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// S3ConfigFromEnv reads PHOTON_S3_ACCESS_KEY, PHOTON_S3_SECRET_KEY,
// PHOTON_S3_ENDPOINT, PHOTON_S3_REGION, PHOTON_S3_BUCKET and PHOTON_S3_ACL.
func S3ConfigFromEnv() S3Config {
	return S3Config{
		AccessKey: os.Getenv("PHOTON_S3_ACCESS_KEY"),
		SecretKey: os.Getenv("PHOTON_S3_SECRET_KEY"),
		Endpoint:  os.Getenv("PHOTON_S3_ENDPOINT"),
		Region:    getEnv("PHOTON_S3_REGION", "us-east-1"),
		Bucket:    os.Getenv("PHOTON_S3_BUCKET"),
		ACL:       os.Getenv("PHOTON_S3_ACL"),
	}
}

// NewS3Client opens a session for cfg. Static credentials are used when an
// access key is set; otherwise the SDK's default chain applies.
func NewS3Client(cfg S3Config) (s3iface.S3API, error) {
	if cfg.Bucket == "" {
		return nil, ErrNoBucket
	}
	awsCfg := &aws.Config{
		Region:           aws.String(cfg.Region),
		S3ForcePathStyle: aws.Bool(cfg.Endpoint != ""),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
	}
	if cfg.AccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("create S3 session: %w", err)
	}
	return s3.New(sess), nil
}

// S3Writer uploads a PNG encoding of the image to Bucket/Key.
type S3Writer struct {
	Client  s3iface.S3API
	Bucket  string
	Key     string
	ACL     string
	Timeout time.Duration
}

// NewS3Writer creates a writer for key using cfg's bucket and ACL.
func NewS3Writer(client s3iface.S3API, cfg S3Config, key string) *S3Writer {
	return &S3Writer{
		Client:  client,
		Bucket:  cfg.Bucket,
		Key:     key,
		ACL:     cfg.ACL,
		Timeout: DefaultUploadTimeout,
	}
}

// Write implements Writer.
func (w *S3Writer) Write(width, height int, pixels []color.RGBA) error {
	return w.WriteContext(context.Background(), width, height, pixels)
}

// WriteContext uploads the image, giving up after w.Timeout.
func (w *S3Writer) WriteContext(ctx context.Context, width, height int, pixels []color.RGBA) error {
	if w.Bucket == "" {
		return ErrNoBucket
	}
	img, err := ToImage(width, height, pixels)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}

	if w.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.Timeout)
		defer cancel()
	}

	input := &s3.PutObjectInput{
		Bucket:        aws.String(w.Bucket),
		Key:           aws.String(w.Key),
		Body:          bytes.NewReader(buf.Bytes()),
		ContentLength: aws.Int64(int64(buf.Len())),
		ContentType:   aws.String("image/png"),
	}
	if w.ACL != "" {
		input.ACL = aws.String(w.ACL)
	}
	if _, err := w.Client.PutObjectWithContext(ctx, input); err != nil {
		return fmt.Errorf("upload %s: %w", w.Key, err)
	}
	return nil
}

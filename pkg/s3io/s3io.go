// Package s3io reads and writes objects named by s3://bucket/key URLs.
package s3io

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

var ErrInvalidS3Path = errors.New("path is not a valid s3 location")

func IsS3Path(path string) bool {
	_, _, err := parsePath(path)
	return err == nil
}

func parsePath(path string) (bucket, key string, err error) {
	u, err := url.Parse(path)
	if err != nil {
		return "", "", err
	}
	key = strings.TrimPrefix(u.Path, "/")
	if u.Scheme != "s3" || u.Host == "" || key == "" {
		return "", "", ErrInvalidS3Path
	}
	return u.Host, key, nil
}

// newSession honors the usual AWS environment variables and shared
// configuration files.  A nil cfg uses their settings unchanged.
func newSession(cfg *aws.Config) (*session.Session, error) {
	opts := session.Options{SharedConfigState: session.SharedConfigEnable}
	if cfg != nil {
		opts.Config = *cfg
	}
	return session.NewSessionWithOptions(opts)
}

type getter interface {
	GetObjectWithContext(aws.Context, *s3.GetObjectInput, ...request.Option) (*s3.GetObjectOutput, error)
}

// NewReader returns the body of the object at path.
func NewReader(ctx context.Context, path string, cfg *aws.Config) (io.ReadCloser, error) {
	if _, _, err := parsePath(path); err != nil {
		return nil, err
	}
	sess, err := newSession(cfg)
	if err != nil {
		return nil, err
	}
	return newReader(ctx, s3.New(sess), path)
}

func newReader(ctx context.Context, client getter, path string) (io.ReadCloser, error) {
	bucket, key, err := parsePath(path)
	if err != nil {
		return nil, err
	}
	out, err := client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	return out.Body, nil
}

type uploader interface {
	UploadWithContext(aws.Context, *s3manager.UploadInput, ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error)
}

// Writer streams what is written to it into an S3 object.  The upload
// starts with the first Write and completes on Close.
type Writer struct {
	ctx      context.Context
	uploader uploader
	bucket   string
	key      string

	once sync.Once
	pw   *io.PipeWriter
	done chan struct{}
	err  error
}

func NewWriter(ctx context.Context, path string, cfg *aws.Config) (*Writer, error) {
	bucket, key, err := parsePath(path)
	if err != nil {
		return nil, err
	}
	sess, err := newSession(cfg)
	if err != nil {
		return nil, err
	}
	return &Writer{
		ctx:      ctx,
		uploader: s3manager.NewUploader(sess),
		bucket:   bucket,
		key:      key,
		done:     make(chan struct{}),
	}, nil
}

func (w *Writer) start() {
	pr, pw := io.Pipe()
	w.pw = pw
	go func() {
		_, err := w.uploader.UploadWithContext(w.ctx, &s3manager.UploadInput{
			Bucket: aws.String(w.bucket),
			Key:    aws.String(w.key),
			Body:   pr,
		})
		w.err = err
		close(w.done)
		// Unblock any Write waiting on a failed upload.
		pr.CloseWithError(err)
	}()
}

func (w *Writer) Write(b []byte) (int, error) {
	w.once.Do(w.start)
	return w.pw.Write(b)
}

// Close finishes the upload.  An empty object is uploaded if nothing was
// written.
func (w *Writer) Close() error {
	w.once.Do(w.start)
	err := w.pw.Close()
	<-w.done
	if w.err != nil {
		return w.err
	}
	return err
}

package s3io

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePath(t *testing.T) {
	bucket, key, err := parsePath("s3://sensors/2024/05/readings.ndjson")
	require.NoError(t, err)
	assert.Equal(t, "sensors", bucket)
	assert.Equal(t, "2024/05/readings.ndjson", key)
	for _, path := range []string{"readings.ndjson", "-", "http://host/x", "s3://bucket", "s3:///key"} {
		assert.False(t, IsS3Path(path), path)
	}
}

type mockGetter func(*s3.GetObjectInput) (*s3.GetObjectOutput, error)

func (m mockGetter) GetObjectWithContext(_ aws.Context, in *s3.GetObjectInput, _ ...request.Option) (*s3.GetObjectOutput, error) {
	return m(in)
}

func TestReader(t *testing.T) {
	client := mockGetter(func(in *s3.GetObjectInput) (*s3.GetObjectOutput, error) {
		assert.Equal(t, "b", *in.Bucket)
		assert.Equal(t, "k.ndjson", *in.Key)
		return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewBufferString("data"))}, nil
	})
	rc, err := newReader(context.Background(), client, "s3://b/k.ndjson")
	require.NoError(t, err)
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "data", string(b))
}

type mockUploader func(*s3manager.UploadInput) (*s3manager.UploadOutput, error)

func (m mockUploader) UploadWithContext(_ aws.Context, in *s3manager.UploadInput, _ ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error) {
	return m(in)
}

func newTestWriter(up mockUploader) *Writer {
	return &Writer{
		ctx:      context.Background(),
		uploader: up,
		bucket:   "b",
		key:      "k",
		done:     make(chan struct{}),
	}
}

func TestWriter(t *testing.T) {
	var results bytes.Buffer
	w := newTestWriter(func(in *s3manager.UploadInput) (*s3manager.UploadOutput, error) {
		_, err := io.Copy(&results, in.Body)
		return &s3manager.UploadOutput{}, err
	})
	_, err := w.Write([]byte("some "))
	require.NoError(t, err)
	_, err = w.Write([]byte("readings"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.Equal(t, "some readings", results.String())
}

func TestWriterCloseWithoutWrite(t *testing.T) {
	var uploaded bool
	w := newTestWriter(func(in *s3manager.UploadInput) (*s3manager.UploadOutput, error) {
		uploaded = true
		_, err := io.Copy(io.Discard, in.Body)
		return &s3manager.UploadOutput{}, err
	})
	require.NoError(t, w.Close())
	assert.True(t, uploaded)
}

func TestWriterError(t *testing.T) {
	expected := errors.New("access denied")
	w := newTestWriter(func(*s3manager.UploadInput) (*s3manager.UploadOutput, error) {
		return nil, expected
	})
	_, err := w.Write([]byte("data"))
	assert.ErrorIs(t, err, expected)
	assert.ErrorIs(t, w.Close(), expected)
}

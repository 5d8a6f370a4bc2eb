package posters

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"stream-sync/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const bucket = "posters"

func TestEnsureBucket_CreatesWhenMissing(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, bucket).Return(false, nil)
	client.On("MakeBucket", mock.Anything, bucket, mock.Anything).Return(nil)

	svc := NewService(client, bucket, zap.NewNop())
	require.NoError(t, svc.EnsureBucket(context.Background()))
	client.AssertExpectations(t)
}

func TestEnsureBucket_SkipsWhenPresent(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, bucket).Return(true, nil)

	svc := NewService(client, bucket, zap.NewNop())
	require.NoError(t, svc.EnsureBucket(context.Background()))
	client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
}

func TestMirror_FetchesAndStores(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("jpeg-bytes"))
	}))
	t.Cleanup(srv.Close)

	client := new(mocks.Client)
	client.On("StatObject", mock.Anything, bucket, "603.jpg", mock.Anything).
		Return(minio.ObjectInfo{}, errors.New("not found"))
	client.On("PutObject", mock.Anything, bucket, "603.jpg", mock.Anything, int64(10), mock.Anything).
		Return(minio.UploadInfo{}, nil)

	svc := NewService(client, bucket, zap.NewNop())
	data, err := svc.Mirror(context.Background(), srv.URL, "603.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), data)
	client.AssertExpectations(t)
}

func TestMirror_SkipsFetchWhenStored(t *testing.T) {
	client := new(mocks.Client)
	client.On("StatObject", mock.Anything, bucket, "603.jpg", mock.Anything).
		Return(minio.ObjectInfo{Key: "603.jpg"}, nil)
	client.On("GetObject", mock.Anything, bucket, "603.jpg", mock.Anything).
		Return(io.NopCloser(strings.NewReader("stored-bytes")), nil)

	svc := NewService(client, bucket, zap.NewNop())
	data, err := svc.Mirror(context.Background(), "http://unused.invalid/poster.jpg", "603.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("stored-bytes"), data)
}

func TestMirror_FetchFailurePropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	client := new(mocks.Client)
	client.On("StatObject", mock.Anything, bucket, "603.jpg", mock.Anything).
		Return(minio.ObjectInfo{}, errors.New("not found"))

	svc := NewService(client, bucket, zap.NewNop())
	_, err := svc.Mirror(context.Background(), srv.URL, "603.jpg")
	assert.Error(t, err)
	client.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRemove(t *testing.T) {
	client := new(mocks.Client)
	client.On("RemoveObject", mock.Anything, bucket, "603.jpg", mock.Anything).Return(nil)

	svc := NewService(client, bucket, zap.NewNop())
	require.NoError(t, svc.Remove(context.Background(), "603.jpg"))
	client.AssertExpectations(t)
}

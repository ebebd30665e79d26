package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutObject struct {
	err  error
	last *s3.PutObjectInput
}

func (f *fakePutObject) PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.last = in
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3MirrorWrite(t *testing.T) {
	fake := &fakePutObject{}
	m := &S3Mirror{client: fake, bucket: "prayer-partner"}

	err := m.Write(context.Background(), "alice", 7, "Pray for X")
	require.NoError(t, err)
	require.NotNil(t, fake.last)

	assert.Equal(t, "prayer-partner", *fake.last.Bucket)
	assert.Equal(t, "application/json", *fake.last.ContentType)
	assert.True(t, strings.HasPrefix(*fake.last.Key, "prayer-requests/"))
	assert.True(t, strings.HasSuffix(*fake.last.Key, ".json"))

	body, err := io.ReadAll(fake.last.Body)
	require.NoError(t, err)
	var doc document
	require.NoError(t, json.Unmarshal(body, &doc))
	assert.Equal(t, "alice", doc.Username)
	assert.Equal(t, int64(7), doc.CategoryID)
	assert.Equal(t, "Pray for X", doc.Title)
	assert.False(t, doc.CreatedAt.IsZero())
}

func TestS3MirrorWriteError(t *testing.T) {
	fake := &fakePutObject{err: errors.New("bucket gone")}
	m := &S3Mirror{client: fake, bucket: "prayer-partner"}

	err := m.Write(context.Background(), "alice", 7, "Pray for X")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket gone")
}

func TestStorageKeyIsDatePartitioned(t *testing.T) {
	at := time.Date(2026, time.March, 5, 12, 0, 0, 0, time.UTC)
	key := storageKey(at)
	assert.True(t, strings.HasPrefix(key, "prayer-requests/2026/03/05/"))
}

func TestConfigEnabled(t *testing.T) {
	assert.False(t, Config{}.Enabled())
	assert.False(t, Config{Endpoint: "http://localhost:9000"}.Enabled())
	assert.True(t, Config{Endpoint: "http://localhost:9000", Bucket: "b"}.Enabled())
}

func TestNop(t *testing.T) {
	assert.NoError(t, Nop{}.Write(context.Background(), "alice", 7, "x"))
}

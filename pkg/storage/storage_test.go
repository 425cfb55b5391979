package stores

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinioPublicURL(t *testing.T) {
	t.Run("uses base url when set", func(t *testing.T) {
		s := &MinioStore{BaseURL: "https://cdn.example.com/", Bucket: "audio"}
		assert.Equal(t, "https://cdn.example.com/abc.mp3", s.PublicURL("abc.mp3"))
	})

	t.Run("falls back to endpoint", func(t *testing.T) {
		s := &MinioStore{Endpoint: "minio.local:9000", Bucket: "audio"}
		assert.Equal(t, "http://minio.local:9000/audio/abc.mp3", s.PublicURL("abc.mp3"))
	})

	t.Run("respects ssl flag", func(t *testing.T) {
		s := &MinioStore{Endpoint: "minio.local:9000", Bucket: "audio", UseSSL: true}
		assert.Equal(t, "https://minio.local:9000/audio/abc.mp3", s.PublicURL("abc.mp3"))
	})
}

func TestCosPublicURL(t *testing.T) {
	s := &CosStore{BucketURL: "https://audio-125000.cos.ap-jakarta.myqcloud.com/"}
	assert.Equal(t, "https://audio-125000.cos.ap-jakarta.myqcloud.com/abc.mp3", s.PublicURL("abc.mp3"))
}

func TestNewStoreFactory(t *testing.T) {
	t.Run("defaults to minio", func(t *testing.T) {
		s, err := New("")
		require.NoError(t, err)
		_, ok := s.(*MinioStore)
		assert.True(t, ok)
	})

	t.Run("selects cos", func(t *testing.T) {
		s, err := New("cos")
		require.NoError(t, err)
		_, ok := s.(*CosStore)
		assert.True(t, ok)
	})

	t.Run("rejects unknown backend", func(t *testing.T) {
		_, err := New("s3")
		assert.Error(t, err)
	})
}

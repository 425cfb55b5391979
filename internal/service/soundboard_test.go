package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"EchoBoard/internal/models"
	pkgerrors "EchoBoard/pkg/errors"
	stores "EchoBoard/pkg/storage"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// fakeStore 内存实现，记录上传选项与调用情况
type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	opts    map[string]stores.PutOptions

	writeErr  error
	existsErr error
	deleteErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		objects: make(map[string][]byte),
		opts:    make(map[string]stores.PutOptions),
	}
}

func (f *fakeStore) Read(ctx context.Context, key string) (io.ReadCloser, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[key]
	if !ok {
		return nil, 0, errors.New("not found")
	}
	return io.NopCloser(strings.NewReader(string(data))), int64(len(data)), nil
}

func (f *fakeStore) Write(ctx context.Context, key string, r io.Reader, size int64, opts stores.PutOptions) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	f.opts[key] = opts
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, key string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	return nil
}

func (f *fakeStore) Exists(ctx context.Context, key string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok, nil
}

func (f *fakeStore) List(ctx context.Context, prefix string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (f *fakeStore) PublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

func (f *fakeStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

// fakeSynth 固定返回同一段音频或错误
type fakeSynth struct {
	audio []byte
	err   error
}

func (f *fakeSynth) Name() string { return "fake" }

func (f *fakeSynth) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.audio, nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Soundboard{}))
	return db
}

func TestCreateSoundboard(t *testing.T) {
	ctx := context.Background()

	t.Run("success uploads audio then saves row", func(t *testing.T) {
		db := newTestDB(t)
		store := newFakeStore()
		svc := NewSoundboard(db, store, &fakeSynth{audio: []byte("mp3-bytes")})

		sb, err := svc.Create(ctx, "Greeting", "Halo dunia", "a@b.com")
		require.NoError(t, err)

		assert.True(t, strings.HasSuffix(sb.FileName, ".mp3"))
		assert.Equal(t, "https://cdn.example.com/"+sb.FileName, sb.AudioURL)
		assert.Equal(t, "a@b.com", sb.CreatedByEmail)

		opts := store.opts[sb.FileName]
		assert.Equal(t, "audio/mpeg", opts.ContentType)
		assert.Equal(t, "public, max-age=86400", opts.CacheControl)

		saved, err := models.GetSoundboard(db, sb.ID)
		require.NoError(t, err)
		assert.Equal(t, "Greeting", saved.Title)
	})

	t.Run("rejects blank fields", func(t *testing.T) {
		db := newTestDB(t)
		svc := NewSoundboard(db, newFakeStore(), &fakeSynth{audio: []byte("x")})

		_, err := svc.Create(ctx, "  ", "text", "a@b.com")
		require.Error(t, err)
		assert.Equal(t, pkgerrors.KindValidation, pkgerrors.GetKind(err))
	})

	t.Run("synthesis failure leaves no row and no object", func(t *testing.T) {
		db := newTestDB(t)
		store := newFakeStore()
		svc := NewSoundboard(db, store, &fakeSynth{err: errors.New("provider down")})

		_, err := svc.Create(ctx, "t", "text", "a@b.com")
		require.Error(t, err)
		assert.Equal(t, pkgerrors.KindSynthesis, pkgerrors.GetKind(err))
		assert.Equal(t, 0, store.count())

		var count int64
		db.Model(&models.Soundboard{}).Count(&count)
		assert.Zero(t, count)
	})

	t.Run("upload failure leaves no row", func(t *testing.T) {
		db := newTestDB(t)
		store := newFakeStore()
		store.writeErr = errors.New("bucket unreachable")
		svc := NewSoundboard(db, store, &fakeSynth{audio: []byte("x")})

		_, err := svc.Create(ctx, "t", "text", "a@b.com")
		require.Error(t, err)
		assert.Equal(t, pkgerrors.KindStorage, pkgerrors.GetKind(err))

		var count int64
		db.Model(&models.Soundboard{}).Count(&count)
		assert.Zero(t, count)
	})
}

func TestListByOwner(t *testing.T) {
	ctx := context.Background()

	t.Run("not found when owner has no records", func(t *testing.T) {
		db := newTestDB(t)
		svc := NewSoundboard(db, newFakeStore(), &fakeSynth{audio: []byte("x")})

		_, err := svc.ListByOwner(ctx, "nobody@example.com")
		require.Error(t, err)
		assert.Equal(t, pkgerrors.KindNotFound, pkgerrors.GetKind(err))
	})

	t.Run("newest first with existence flags", func(t *testing.T) {
		db := newTestDB(t)
		store := newFakeStore()
		svc := NewSoundboard(db, store, &fakeSynth{audio: []byte("x")})

		first, err := svc.Create(ctx, "first", "text one", "a@b.com")
		require.NoError(t, err)
		time.Sleep(10 * time.Millisecond)
		second, err := svc.Create(ctx, "second", "text two", "a@b.com")
		require.NoError(t, err)

		// 第二条的对象被人删掉了
		require.NoError(t, store.Delete(ctx, second.FileName))

		list, err := svc.ListByOwner(ctx, "a@b.com")
		require.NoError(t, err)
		require.Len(t, list, 2)

		assert.Equal(t, second.ID, list[0].ID)
		assert.False(t, list[0].FileExists)
		assert.Equal(t, first.ID, list[1].ID)
		assert.True(t, list[1].FileExists)
	})

	t.Run("storage failure degrades to fileExists false", func(t *testing.T) {
		db := newTestDB(t)
		store := newFakeStore()
		svc := NewSoundboard(db, store, &fakeSynth{audio: []byte("x")})

		sb, err := svc.Create(ctx, "t", "text", "a@b.com")
		require.NoError(t, err)

		store.existsErr = errors.New("timeout")

		list, err := svc.ListByOwner(ctx, "a@b.com")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, sb.ID, list[0].ID)
		assert.False(t, list[0].FileExists)
	})
}

func TestDeleteSoundboard(t *testing.T) {
	ctx := context.Background()

	t.Run("not found for unknown id", func(t *testing.T) {
		db := newTestDB(t)
		svc := NewSoundboard(db, newFakeStore(), &fakeSynth{audio: []byte("x")})

		err := svc.Delete(ctx, "missing-id")
		require.Error(t, err)
		assert.Equal(t, pkgerrors.KindNotFound, pkgerrors.GetKind(err))
	})

	t.Run("removes row and object", func(t *testing.T) {
		db := newTestDB(t)
		store := newFakeStore()
		svc := NewSoundboard(db, store, &fakeSynth{audio: []byte("x")})

		sb, err := svc.Create(ctx, "t", "text", "a@b.com")
		require.NoError(t, err)

		require.NoError(t, svc.Delete(ctx, sb.ID))
		assert.Equal(t, 0, store.count())

		_, err = models.GetSoundboard(db, sb.ID)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("storage failure still removes row", func(t *testing.T) {
		db := newTestDB(t)
		store := newFakeStore()
		svc := NewSoundboard(db, store, &fakeSynth{audio: []byte("x")})

		sb, err := svc.Create(ctx, "t", "text", "a@b.com")
		require.NoError(t, err)

		store.deleteErr = errors.New("bucket unreachable")

		require.NoError(t, svc.Delete(ctx, sb.ID))
		_, err = models.GetSoundboard(db, sb.ID)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

package stores

import (
	"context"
	"io"

	"EchoBoard/pkg/metrics"
)

// metricsStore 包装另一个后端并上报每次操作的结果
type metricsStore struct {
	inner Store
}

// WithMetrics 为存储后端加上操作计数
func WithMetrics(inner Store) Store {
	return &metricsStore{inner: inner}
}

func (m *metricsStore) Read(ctx context.Context, key string) (io.ReadCloser, int64, error) {
	rc, size, err := m.inner.Read(ctx, key)
	m.record("read", err)
	return rc, size, err
}

func (m *metricsStore) Write(ctx context.Context, key string, r io.Reader, size int64, opts PutOptions) error {
	err := m.inner.Write(ctx, key, r, size, opts)
	m.record("write", err)
	return err
}

func (m *metricsStore) Delete(ctx context.Context, key string) error {
	err := m.inner.Delete(ctx, key)
	m.record("delete", err)
	return err
}

func (m *metricsStore) Exists(ctx context.Context, key string) (bool, error) {
	exists, err := m.inner.Exists(ctx, key)
	m.record("exists", err)
	return exists, err
}

func (m *metricsStore) List(ctx context.Context, prefix string) ([]string, error) {
	keys, err := m.inner.List(ctx, prefix)
	m.record("list", err)
	return keys, err
}

func (m *metricsStore) PublicURL(key string) string {
	return m.inner.PublicURL(key)
}

func (m *metricsStore) record(op string, err error) {
	mm := metrics.Global()
	if mm == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	mm.RecordStorageOp(op, status)
}

package stores

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// PutOptions 上传选项
type PutOptions struct {
	ContentType  string
	CacheControl string
}

// Store 对象存储抽象，音频与头像文件统一走这里
type Store interface {
	// Read 读取对象内容与大小
	Read(ctx context.Context, key string) (io.ReadCloser, int64, error)

	// Write 上传对象
	Write(ctx context.Context, key string, r io.Reader, size int64, opts PutOptions) error

	// Delete 删除对象
	Delete(ctx context.Context, key string) error

	// Exists 检查对象是否存在
	Exists(ctx context.Context, key string) (bool, error)

	// List 列出指定前缀下的对象键
	List(ctx context.Context, prefix string) ([]string, error)

	// PublicURL 对象的公开访问地址
	PublicURL(key string) string
}

// New 按配置创建存储后端
func New(backend string) (Store, error) {
	switch strings.ToLower(backend) {
	case "", "minio":
		return NewMinioStore(), nil
	case "cos":
		return NewCosStore(), nil
	}
	return nil, fmt.Errorf("unsupported storage backend: %s", backend)
}

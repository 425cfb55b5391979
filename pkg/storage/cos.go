package stores

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"EchoBoard/pkg/util"

	"github.com/tencentyun/cos-go-sdk-v5"
)

// CosStore 腾讯云 COS 存储后端
type CosStore struct {
	BucketURL string `env:"COS_BUCKET_URL"` // https://<bucket>-<appid>.cos.<region>.myqcloud.com
	SecretID  string `env:"COS_SECRET_ID"`
	SecretKey string `env:"COS_SECRET_KEY"`

	cli *cos.Client
}

func NewCosStore() *CosStore {
	s := &CosStore{
		BucketURL: util.GetEnv("COS_BUCKET_URL"),
		SecretID:  util.GetEnv("COS_SECRET_ID"),
		SecretKey: util.GetEnv("COS_SECRET_KEY"),
	}
	u, _ := url.Parse(s.BucketURL)
	s.cli = cos.NewClient(&cos.BaseURL{BucketURL: u}, &http.Client{
		Transport: &cos.AuthorizationTransport{
			SecretID:  s.SecretID,
			SecretKey: s.SecretKey,
		},
	})
	return s
}

func (s *CosStore) Read(ctx context.Context, key string) (io.ReadCloser, int64, error) {
	resp, err := s.cli.Object.Get(ctx, key, nil)
	if err != nil {
		return nil, 0, err
	}
	return resp.Body, resp.ContentLength, nil
}

func (s *CosStore) Write(ctx context.Context, key string, r io.Reader, size int64, opts PutOptions) error {
	putOpts := &cos.ObjectPutOptions{
		ObjectPutHeaderOptions: &cos.ObjectPutHeaderOptions{
			ContentType:   opts.ContentType,
			CacheControl:  opts.CacheControl,
			ContentLength: size,
		},
	}
	_, err := s.cli.Object.Put(ctx, key, r, putOpts)
	return err
}

func (s *CosStore) Delete(ctx context.Context, key string) error {
	_, err := s.cli.Object.Delete(ctx, key)
	return err
}

func (s *CosStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.cli.Object.Head(ctx, key, nil)
	if err != nil {
		if cos.IsNotFoundError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *CosStore) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	marker := ""
	for {
		res, _, err := s.cli.Bucket.Get(ctx, &cos.BucketGetOptions{
			Prefix:  prefix,
			Marker:  marker,
			MaxKeys: 1000,
		})
		if err != nil {
			return nil, err
		}
		for _, obj := range res.Contents {
			keys = append(keys, obj.Key)
		}
		if !res.IsTruncated {
			break
		}
		marker = res.NextMarker
	}
	return keys, nil
}

func (s *CosStore) PublicURL(key string) string {
	return strings.TrimRight(s.BucketURL, "/") + "/" + key
}

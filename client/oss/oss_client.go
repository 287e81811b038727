package oss

import (
	"context"
	"io"
	"os"

	alioss "github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
)

var (
	DocumentBucket *alioss.Bucket

	GetObjectFunc func(ctx context.Context, key string, opts ...alioss.Option) (io.ReadCloser, error)
	PutObjectFunc func(ctx context.Context, key string, r io.Reader, opts ...alioss.Option) error
)

func Bootstrap() {
	var err error
	DocumentBucket, err = BuildBucketFromEnv()
	if err != nil {
		panic(err)
	}

	GetObjectFunc = GetObject
	PutObjectFunc = PutObject
}

func BuildBucketFromEnv() (*alioss.Bucket, error) {
	endpoint := os.ExpandEnv(os.Getenv("OSS_ENDPOINT"))
	if endpoint == "" {
		endpoint = "dummy"
	}
	accessKey := os.Getenv("OSS_ACCESS_KEY")
	secretKey := os.Getenv("OSS_SECRET_KEY")
	bucket := os.Getenv("OSS_BUCKET")
	if bucket == "" {
		bucket = "recruitbase"
	}
	return BuildBucket(endpoint, accessKey, secretKey, bucket)
}

func BuildBucket(endpoint, accessKey, secretKey, bucketName string) (*alioss.Bucket, error) {
	// endpoint http://oss-cn-hangzhou.aliyuncs.com
	cli, err := alioss.New(endpoint, accessKey, secretKey, alioss.HTTPClient(nil))
	if err != nil {
		return nil, err
	}
	return cli.Bucket(bucketName)
}

func GetObject(ctx context.Context, key string, opts ...alioss.Option) (io.ReadCloser, error) {
	childSpan := startChildSpan(ctx, "get-object", key)
	r, err := DocumentBucket.GetObject(key, opts...)
	if childSpan != nil {
		ext.Error.Set(*childSpan, err != nil)
		(*childSpan).Finish()
	}
	return r, err
}

func PutObject(ctx context.Context, key string, r io.Reader, opts ...alioss.Option) error {
	childSpan := startChildSpan(ctx, "put-object", key)
	err := DocumentBucket.PutObject(key, r, opts...)
	if childSpan != nil {
		ext.Error.Set(*childSpan, err != nil)
		(*childSpan).Finish()
	}
	return err
}

func startChildSpan(ctx context.Context, operation, key string) *opentracing.Span {
	if ctx == nil {
		return nil
	}
	parentSpan := opentracing.SpanFromContext(ctx)
	if parentSpan == nil {
		return nil
	}
	sp := parentSpan.Tracer().StartSpan(operation, opentracing.ChildOf(parentSpan.Context()))
	sp.SetTag("object-key", key)
	return &sp
}

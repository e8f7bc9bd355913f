// Package storage 提供了与对象存储服务（如 MinIO）交互的功能。
package storage

import (
	"bytes"
	"context"
	"time"

	"knowledge-qa-go/internal/config"
	"knowledge-qa-go/pkg/log"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioClient 是一个全局的 MinIO 客户端实例。
var MinioClient *minio.Client

// ObjectStore 定义了业务层需要的对象存储操作。
type ObjectStore interface {
	Put(ctx context.Context, objectName string, data []byte, contentType string) error
	Remove(ctx context.Context, objectName string) error
	PresignedURL(objectName string, expiry time.Duration) (string, error)
}

// InitMinIO 初始化 MinIO 客户端并确保指定的存储桶存在。
func InitMinIO(cfg config.MinIOConfig) {
	var err error

	MinioClient, err = minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		log.Fatal("初始化 MinIO 客户端失败", err)
	}

	log.Info("MinIO 客户端初始化成功")

	// 检查存储桶是否存在，如果不存在则创建
	ctx := context.Background()
	bucketName := cfg.BucketName
	exists, err := MinioClient.BucketExists(ctx, bucketName)
	if err != nil {
		log.Fatal("检查 MinIO 存储桶失败", err)
	}

	if !exists {
		log.Infof("存储桶 '%s' 不存在，正在创建...", bucketName)
		if err := MinioClient.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{}); err != nil {
			log.Fatal("创建 MinIO 存储桶失败", err)
		}
		log.Infof("存储桶 '%s' 创建成功", bucketName)
	} else {
		log.Infof("存储桶 '%s' 已存在", bucketName)
	}
}

type minioStore struct {
	bucket string
}

// NewObjectStore 返回基于全局 MinIO 客户端的 ObjectStore 实现。
// 必须在 InitMinIO 之后调用。
func NewObjectStore(cfg config.MinIOConfig) ObjectStore {
	return &minioStore{bucket: cfg.BucketName}
}

// Put 将原始文件内容写入对象存储。
func (s *minioStore) Put(ctx context.Context, objectName string, data []byte, contentType string) error {
	_, err := MinioClient.PutObject(ctx, s.bucket, objectName, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	return err
}

// Remove 删除指定对象，文档级联删除时调用。
func (s *minioStore) Remove(ctx context.Context, objectName string) error {
	return MinioClient.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{})
}

// PresignedURL generates a presigned URL for a given object.
func (s *minioStore) PresignedURL(objectName string, expiry time.Duration) (string, error) {
	presignedURL, err := MinioClient.PresignedGetObject(context.Background(), s.bucket, objectName, expiry, nil)
	if err != nil {
		log.Errorf("Error generating presigned URL: %s", err)
		return "", err
	}
	return presignedURL.String(), nil
}

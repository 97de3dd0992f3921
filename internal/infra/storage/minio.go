package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	domain "github.com/andikahmadr/diligence-api/internal/domain/analysis"
)

// DefaultURLExpiry masa berlaku presigned retrieval URL
const DefaultURLExpiry = 15 * time.Minute

type Store struct {
	client     *minio.Client
	bucketName string
	region     string
	urlExpiry  time.Duration
}

// New buat koneksi MinIO
func New(ctx context.Context, endpoint, region, bucket, accessKey, secretKey string, useSSL bool, urlExpiry time.Duration) (*Store, error) {
	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, err
	}

	// pastikan bucket ada
	exists, err := cli.BucketExists(ctx, bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := cli.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return nil, err
		}
	}

	if urlExpiry <= 0 {
		urlExpiry = DefaultURLExpiry
	}
	return &Store{client: cli, bucketName: bucket, region: region, urlExpiry: urlExpiry}, nil
}

// Resolve implementasi FileResolver: setiap ref di-stat lalu dibuatkan
// presigned GET URL. Refs yang tidak bisa diresolve di-skip, bukan error.
// Resolution jalan paralel per file tapi hasil tetap urut sesuai input.
func (s *Store) Resolve(ctx context.Context, refs []string) ([]domain.ResolvedFile, error) {
	slots := make([]*domain.ResolvedFile, len(refs))

	var wg sync.WaitGroup
	for i, ref := range refs {
		wg.Add(1)
		go func(i int, ref string) {
			defer wg.Done()
			rf, err := s.resolveOne(ctx, ref)
			if err != nil {
				log.Printf("storage: skipping unresolvable file %s: %v", ref, err)
				return
			}
			slots[i] = rf
		}(i, ref)
	}
	wg.Wait()

	out := make([]domain.ResolvedFile, 0, len(refs))
	for _, rf := range slots {
		if rf != nil {
			out = append(out, *rf)
		}
	}
	return out, nil
}

func (s *Store) resolveOne(ctx context.Context, ref string) (*domain.ResolvedFile, error) {
	info, err := s.client.StatObject(ctx, s.bucketName, ref, minio.StatObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("stat object: %w", err)
	}
	u, err := s.client.PresignedGetObject(ctx, s.bucketName, ref, s.urlExpiry, nil)
	if err != nil {
		return nil, fmt.Errorf("presign object: %w", err)
	}
	return &domain.ResolvedFile{
		Path:         ref,
		RetrievalURL: u.String(),
		Size:         info.Size,
		ContentType:  info.ContentType,
	}, nil
}

// Upload implementasi FileStore: simpan dokumen ke bucket
func (s *Store) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	if contentType == "" {
		contentType = contentTypeForKey(key)
	}
	_, err := s.client.PutObject(ctx, s.bucketName, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	url := fmt.Sprintf("http://%s/%s/%s", s.client.EndpointURL().Host, s.bucketName, key)
	return url, nil
}

// Check untuk health checker: bucket harus reachable
func (s *Store) Check(ctx context.Context) error {
	_, err := s.client.BucketExists(ctx, s.bucketName)
	return err
}

// mimeType sederhana berdasarkan ekstensi
func contentTypeForKey(key string) string {
	switch filepath.Ext(key) {
	case ".pdf":
		return "application/pdf"
	case ".json":
		return "application/json"
	case ".html":
		return "text/html"
	case ".csv":
		return "text/csv"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/octet-stream"
	}
}

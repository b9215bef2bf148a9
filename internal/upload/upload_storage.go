package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	log "github.com/sirupsen/logrus"

	"tripmate/internal/config"
)

// 프리사인 URL 유효 시간
const presignExpiry = 24 * time.Hour

// Storage는 업로드 이미지 저장소입니다.
type Storage interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	// URL은 외부에서 접근 가능한 주소를 반환합니다. 로컬 저장소는 빈 문자열 (정적 서빙)
	URL(ctx context.Context, name string) (string, error)
	Remove(ctx context.Context, name string) error
}

// NewStorage는 설정(UPLOAD_DRIVER)에 맞는 저장소를 생성합니다.
func NewStorage(ctx context.Context, conf config.Upload) (Storage, error) {
	switch conf.Driver {
	case "minio":
		return NewMinioStorage(ctx, conf)
	case "local", "":
		return NewLocalStorage(conf.Dir)
	default:
		return nil, fmt.Errorf("알 수 없는 업로드 드라이버: %s", conf.Driver)
	}
}

// LocalStorage는 디스크 디렉터리에 저장하고 '/pic'으로 정적 서빙합니다.
type LocalStorage struct {
	dir string
}

// NewLocalStorage는 디렉터리를 만들고 LocalStorage를 생성합니다.
func NewLocalStorage(dir string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("업로드 디렉터리(%s) 생성 실패: %w", dir, err)
	}
	return &LocalStorage{dir: dir}, nil
}

func (s *LocalStorage) Dir() string {
	return s.dir
}

func (s *LocalStorage) Save(_ context.Context, name string, r io.Reader, _ int64, _ string) error {
	path := filepath.Join(s.dir, filepath.Base(name))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

func (s *LocalStorage) URL(context.Context, string) (string, error) {
	return "", nil
}

func (s *LocalStorage) Remove(_ context.Context, name string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.Base(name)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// MinioStorage는 MinIO 버킷에 저장하고 프리사인 URL로 내려줍니다.
type MinioStorage struct {
	cli    *minio.Client
	bucket string
}

// NewMinioStorage는 클라이언트를 만들고, 버킷이 없으면 생성합니다.
func NewMinioStorage(ctx context.Context, conf config.Upload) (*MinioStorage, error) {
	client, err := minio.New(conf.MinioHost, &minio.Options{
		Creds:  credentials.NewStaticV4(conf.MinioUser, conf.MinioPass, ""),
		Secure: conf.MinioSecure,
	})
	if err != nil {
		return nil, fmt.Errorf("MinIO 클라이언트 생성 실패: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, conf.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("MinIO 버킷 확인 실패: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, conf.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("MinIO 버킷(%s) 생성 실패: %w", conf.MinioBucket, err)
		}
		log.Infof("MinIO 버킷 생성: %s", conf.MinioBucket)
	}

	return &MinioStorage{cli: client, bucket: conf.MinioBucket}, nil
}

func (s *MinioStorage) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error {
	_, err := s.cli.PutObject(ctx, s.bucket, name, r, size, minio.PutObjectOptions{ContentType: contentType})
	return err
}

func (s *MinioStorage) URL(ctx context.Context, name string) (string, error) {
	u, err := s.cli.PresignedGetObject(ctx, s.bucket, name, presignExpiry, nil)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func (s *MinioStorage) Remove(ctx context.Context, name string) error {
	return s.cli.RemoveObject(ctx, s.bucket, name, minio.RemoveObjectOptions{})
}

package upload

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"tripmate/internal/respond"
)

const maxFiles = 10

var allowedExt = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// 저장된 파일명 형식: <uuid>.<ext>
var storedNamePattern = regexp.MustCompile(`^[0-9a-f-]{36}\.(jpg|jpeg|png|gif|webp)$`)

// Service는 이미지 업로드 로직을 담당합니다.
type Service struct {
	storage  Storage
	maxBytes int64
}

// NewService는 새 Service를 생성합니다.
func NewService(storage Storage, maxBytes int64) *Service {
	return &Service{storage: storage, maxBytes: maxBytes}
}

// check는 확장자와 크기를 검사하고 Content-Type을 반환합니다.
func (s *Service) check(fh *multipart.FileHeader) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	contentType, ok := allowedExt[ext]
	if !ok {
		return "", "", fmt.Errorf("%w: 허용되지 않는 파일 형식입니다 (%s)", respond.ErrBadRequest, fh.Filename)
	}
	if fh.Size <= 0 || fh.Size > s.maxBytes {
		return "", "", fmt.Errorf("%w: 파일 크기는 %dMB 이하만 가능합니다 (%s)", respond.ErrBadRequest, s.maxBytes>>20, fh.Filename)
	}
	return ext, contentType, nil
}

// Upload는 파일들을 검사한 뒤 uuid 이름으로 저장하고 저장된 이름 목록을 반환합니다.
// 하나라도 규칙에 맞지 않으면 아무것도 저장하지 않습니다.
func (s *Service) Upload(ctx context.Context, files []*multipart.FileHeader) ([]string, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: 업로드할 파일이 없습니다", respond.ErrBadRequest)
	}
	if len(files) > maxFiles {
		return nil, fmt.Errorf("%w: 파일은 최대 %d개까지 업로드할 수 있습니다", respond.ErrBadRequest, maxFiles)
	}

	// 1. 전체 검사
	exts := make([]string, len(files))
	types := make([]string, len(files))
	for i, fh := range files {
		ext, contentType, err := s.check(fh)
		if err != nil {
			return nil, err
		}
		exts[i], types[i] = ext, contentType
	}

	// 2. 저장
	names := make([]string, 0, len(files))
	for i, fh := range files {
		name := uuid.New().String() + exts[i]
		f, err := fh.Open()
		if err != nil {
			s.discard(ctx, names)
			return nil, err
		}
		err = s.storage.Save(ctx, name, f, fh.Size, types[i])
		f.Close()
		if err != nil {
			log.Errorf("이미지 저장 실패 (%s): %v", fh.Filename, err)
			s.discard(ctx, names)
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

// discard는 실패한 묶음에서 이미 저장된 파일을 지웁니다.
func (s *Service) discard(ctx context.Context, names []string) {
	ctx = context.WithoutCancel(ctx)
	for _, name := range names {
		if err := s.storage.Remove(ctx, name); err != nil {
			log.Warnf("업로드 롤백: 이미지(%s) 삭제 실패: %v", name, err)
		}
	}
}

// URL은 저장된 이미지의 접근 주소입니다. (MinIO 프리사인 URL)
func (s *Service) URL(ctx context.Context, name string) (string, error) {
	if !storedNamePattern.MatchString(name) {
		return "", fmt.Errorf("이미지(%s): %w", name, respond.ErrNotFound)
	}
	return s.storage.URL(ctx, name)
}

package services

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"

	"github.com/caminoapp/camino-backend/internal/config"
	"github.com/caminoapp/camino-backend/pkg/logger"
)

// Storage uploads user images to S3 when AWS credentials are configured,
// otherwise to a local directory served under /uploads.
type Storage struct {
	uploader  *s3manager.Uploader
	useS3     bool
	region    string
	bucket    string
	uploadDir string
	baseURL   string
}

// NewStorage picks S3 or local storage based on configuration.
func NewStorage(cfg config.StorageConfig, log *logger.Logger) (*Storage, error) {
	if cfg.AWSRegion != "" && cfg.AWSAccessKey != "" && cfg.AWSSecretKey != "" {
		sess, err := session.NewSession(&aws.Config{
			Region:      aws.String(cfg.AWSRegion),
			Credentials: credentials.NewStaticCredentials(cfg.AWSAccessKey, cfg.AWSSecretKey, ""),
		})
		if err != nil {
			return nil, fmt.Errorf("create aws session: %w", err)
		}

		log.Info("s3 storage initialized", logger.String("bucket", cfg.Bucket))
		return &Storage{
			uploader: s3manager.NewUploader(sess),
			useS3:    true,
			region:   cfg.AWSRegion,
			bucket:   cfg.Bucket,
		}, nil
	}

	if err := os.MkdirAll(filepath.Join(cfg.UploadDir, "avatars"), 0755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}

	log.Warn("aws s3 not configured, using local file storage")
	return &Storage{
		useS3:     false,
		uploadDir: cfg.UploadDir,
		baseURL:   cfg.BaseURL,
	}, nil
}

// UploadImage stores the file under folder and returns its public URL.
func (s *Storage) UploadImage(file *multipart.FileHeader, folder string) (string, error) {
	if s.useS3 {
		return s.uploadToS3(file, folder)
	}
	return s.uploadLocally(file, folder)
}

func (s *Storage) uploadToS3(file *multipart.FileHeader, folder string) (string, error) {
	if s.bucket == "" {
		return "", fmt.Errorf("s3 bucket name not configured")
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open file: %w", err)
	}
	defer src.Close()

	buffer := bytes.NewBuffer(nil)
	if _, err := io.Copy(buffer, src); err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}

	contentType := http.DetectContentType(buffer.Bytes())
	key := fmt.Sprintf("%s/%d%s", folder, time.Now().UnixNano(), filepath.Ext(file.Filename))

	_, err = s.uploader.Upload(&s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buffer.Bytes()),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload to s3: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key), nil
}

func (s *Storage) uploadLocally(file *multipart.FileHeader, folder string) (string, error) {
	folderPath := filepath.Join(s.uploadDir, folder)
	if err := os.MkdirAll(folderPath, 0755); err != nil {
		return "", fmt.Errorf("create folder directory: %w", err)
	}

	fileName := fmt.Sprintf("%d%s", time.Now().UnixNano(), filepath.Ext(file.Filename))
	dst, err := os.Create(filepath.Join(folderPath, fileName))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open file: %w", err)
	}
	defer src.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("save file: %w", err)
	}

	relative := filepath.ToSlash(filepath.Join(folder, fileName))
	return fmt.Sprintf("%s/uploads/%s", s.baseURL, relative), nil
}

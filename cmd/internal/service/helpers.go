package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	"pontodigital/cmd/internal/contract"
	"pontodigital/cmd/internal/infrastructure/aws/storage"
	"pontodigital/cmd/internal/livesync"
	"pontodigital/cmd/internal/utils"
	"pontodigital/cmd/internal/utils/apierror"
)

// Publisher announces that a company's collection changed, so every live
// subscriber receives a fresh snapshot.
type Publisher interface {
	Publish(ctx context.Context, col livesync.Collection, companyCode string)
}

// StoreProvider gives access to the live copy of a company's data.
type StoreProvider interface {
	Get(ctx context.Context, companyCode string) (*livesync.Store, error)
}

func publish(p Publisher, col livesync.Collection, companyCode string) {
	if p == nil {
		return
	}
	go p.Publish(context.Background(), col, companyCode)
}

// uploadPhoto decodes a data-URL (or bare base64) image and stores it under
// the company's path. An empty URL with no error means storage is disabled.
func uploadPhoto(ctx context.Context, s3 storage.S3Client, companyCode, path, payload string) (string, apierror.ErrorResponse) {
	data, ext, err := utils.DecodePhoto(payload, contract.MaxPhotoSizeBytes)
	if err != nil {
		log.Debugf("rejected %s photo for company %s: %v", path, companyCode, err)
		return "", apierror.InvalidPhotoError
	}
	return storePhoto(ctx, s3, companyCode, path, data, ext)
}

func storePhoto(ctx context.Context, s3 storage.S3Client, companyCode, path string, data []byte, ext string) (string, apierror.ErrorResponse) {
	if s3 == nil {
		log.Warnf("photo storage is not configured, discarding %s photo of company %s", path, companyCode)
		return "", nil
	}

	key := storage.CompanyKey(companyCode, path, uuid.NewString()+ext)
	url, err := s3.UploadFile(ctx, data, key)
	if err != nil {
		log.Errorf("failed to upload photo %s: %v", key, err)
		return "", apierror.InternalServerError
	}
	return url, nil
}

// deletePhoto removes a previously uploaded photo. Failures are only logged:
// an orphaned object is not the client's problem.
func deletePhoto(ctx context.Context, s3 storage.S3Client, url string) {
	if s3 == nil || url == "" {
		return
	}

	key := storage.KeyFromURL(url)
	if key == "" {
		return
	}

	if err := s3.DeleteFile(ctx, key); err != nil {
		log.Warnf("failed to delete photo %s: %v", key, err)
	}
}

func formatMillis(millis int64) string {
	if millis == 0 {
		return ""
	}
	return utils.FormatEpoch(millis)
}

func defaultNow(now func() time.Time) func() time.Time {
	if now == nil {
		return time.Now
	}
	return now
}

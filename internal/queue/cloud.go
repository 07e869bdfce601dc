package queue

import (
	"context"
	"fmt"

	"github.com/rpaulsen/lectern/internal/services"
	"github.com/rpaulsen/lectern/internal/shared"
)

// cloudTransferCap is where raw transfer progress tops out during the binary
// transfer phase; 95 marks the metadata save phase.
const (
	cloudTransferCap  = 90
	cloudMetadataMark = 95
)

// UploadAuthorizer is the slice of the CMS client the signed-cloud strategy
// needs: issuing short-lived upload signatures and recording the resulting
// asset.
type UploadAuthorizer interface {
	SignUpload(ctx context.Context, req services.SignRequest) (*services.UploadSignature, error)
	SaveCloudAsset(ctx context.Context, rec services.CloudAssetRecord) error
}

// BinaryHost uploads a signed binary directly to the storage provider.
type BinaryHost interface {
	Upload(ctx context.Context, sig *services.UploadSignature, resourceType string, file services.UploadFile, onProgress services.TransferProgress) (*services.CloudUploadResult, error)
}

// CloudStrategy uploads provider-hosted categories (audio, video) in three
// phases: obtain a signature from the CMS, push the binary straight to the
// storage provider, then record the asset's metadata back at the CMS.
//
// A metadata-save failure after a successful transfer leaves an orphaned
// object at the provider; no compensating deletion is attempted.
type CloudStrategy struct {
	cms  UploadAuthorizer
	host BinaryHost
}

// NewCloudStrategy creates a CloudStrategy over the CMS and provider clients.
func NewCloudStrategy(cms UploadAuthorizer, host BinaryHost) *CloudStrategy {
	return &CloudStrategy{cms: cms, host: host}
}

var _ Strategy = (*CloudStrategy)(nil)

func (s *CloudStrategy) Upload(ctx context.Context, t Task, report ReportFunc) (*Result, error) {
	if t.Payload == nil {
		return nil, fmt.Errorf("task %s has no payload", t.ID)
	}

	// Phase 1: signature. Progress stays at 0; nothing reaches the provider
	// on failure.
	sig, err := s.cms.SignUpload(ctx, services.SignRequest{
		LessonID: t.Dest.LessonID,
		Category: t.Category.String(),
		Title:    t.Dest.Title,
		MimeType: t.MimeType,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrSignatureRequest, err)
	}

	// Phase 2: binary transfer direct to the provider, bytes mapped onto 0–90.
	file, err := t.Payload.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	resourceType := services.ResourceTypeFor(t.MimeType)
	result, err := s.host.Upload(ctx, sig, resourceType, services.UploadFile{
		Reader: file,
		Name:   t.Payload.Name(),
		Size:   t.Payload.Size(),
	}, scaleBytes(report, cloudTransferCap))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrStorageUpload, err)
	}

	// Phase 3: metadata save. The binary already lives at the provider; a
	// failure here orphans it.
	report(cloudMetadataMark)

	err = s.cms.SaveCloudAsset(ctx, services.CloudAssetRecord{
		LessonID:     t.Dest.LessonID,
		Title:        t.Dest.Title,
		Category:     t.Category.String(),
		FileURL:      result.SecureURL,
		PublicID:     result.PublicID,
		Size:         result.Bytes,
		MimeType:     t.MimeType,
		ResourceType: resourceType,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrMetadataSave, err)
	}

	return &Result{FileURL: result.SecureURL, PublicID: result.PublicID}, nil
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"community-hub/pkg/utils"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
)

type CloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	prefix string
	log    *zap.Logger
}

func NewCloudinaryStore(config utils.CloudinaryConfig, log *zap.Logger) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromParams(config.CloudName, config.APIKey, config.APISecret)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}

	return &CloudinaryStore{
		cld:    cld,
		prefix: config.Folder,
		log:    log.With(zap.String("component", "cloudinary")),
	}, nil
}

func (s *CloudinaryStore) Upload(ctx context.Context, file io.Reader, filename, folder string) (string, error) {
	params := uploader.UploadParams{
		Folder:         path.Join(s.prefix, folder),
		Transformation: TransformProfile,
	}

	res, err := s.cld.Upload.Upload(ctx, file, params)
	if err != nil {
		s.log.Error("Image upload failed",
			zap.Error(err),
			zap.String("folder", params.Folder),
			zap.String("filename", filename),
		)
		return "", fmt.Errorf("upload image: %w", err)
	}
	if res.Error.Message != "" {
		s.log.Error("Image host rejected upload",
			zap.String("message", res.Error.Message),
			zap.String("folder", params.Folder),
		)
		return "", fmt.Errorf("upload image: %w", errors.New(res.Error.Message))
	}

	return res.SecureURL, nil
}

package utils

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/spf13/viper"
)

// LoadCloudinaryConfig loads the Cloudinary configuration from the YAML file.
func LoadCloudinaryConfig() error {
	viper.SetConfigFile("utils/cloudinary.yaml")
	viper.SetConfigType("yaml")

	viper.SetDefault("cloudinary.cloudName", "default_cloud_name")
	viper.SetDefault("cloudinary.apiKey", "default_api_key")
	viper.SetDefault("cloudinary.apiSecret", "default_api_secret")

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading cloudinary config file: %w", err)
	}
	return nil
}

// ArtifactStore uploads binary artifacts and returns their public URLs.
// Renewal QR images go through this.
type ArtifactStore interface {
	Upload(ctx context.Context, r io.Reader, publicID string) (string, error)
}

type cloudinaryStore struct {
	cld *cloudinary.Cloudinary
}

// Cloudinary initializes and returns a Cloudinary-backed ArtifactStore.
func Cloudinary() (ArtifactStore, error) {
	if err := LoadCloudinaryConfig(); err != nil {
		return nil, err
	}

	cloudName := viper.GetString("cloudinary.cloudName")
	apiKey := viper.GetString("cloudinary.apiKey")
	apiSecret := viper.GetString("cloudinary.apiSecret")

	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("cloudinary credentials not set in configuration")
	}

	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("utils.Cloudinary: failed to initialize Cloudinary: %w", err)
	}
	return &cloudinaryStore{cld: cld}, nil
}

func (s *cloudinaryStore) Upload(ctx context.Context, r io.Reader, publicID string) (string, error) {
	overwrite := true
	resp, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		PublicID:  publicID,
		Folder:    "ecocity/qrcodes",
		Overwrite: &overwrite,
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload failed: %w", err)
	}
	return resp.SecureURL, nil
}

package utils

import (
	"context"
	"fmt"

	"parkwise/config"
	"parkwise/services/storage"

	"github.com/cloudinary/cloudinary-go/v2"
)

// Cloudinary initializes and returns a Cloudinary-based StorageService from AppConfig.
func Cloudinary() (storage.StorageService, error) {
	cloudName := config.AppConfig.CloudinaryCloudName
	apiKey := config.AppConfig.CloudinaryAPIKey
	apiSecret := config.AppConfig.CloudinaryAPISecret

	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("cloudinary credentials not set in configuration")
	}

	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("utils.Cloudinary: failed to initialize Cloudinary: %w", err)
	}
	return storage.NewCloudinaryStorageService(cld), nil
}

// Storage picks the object store named by STORAGE_PROVIDER.
func Storage(ctx context.Context) (storage.StorageService, error) {
	switch config.AppConfig.StorageProvider {
	case "firebase":
		return storage.NewFirebaseStorageService(ctx, config.AppConfig.FirebaseCredentialsFile, config.AppConfig.FirebaseBucket)
	case "cloudinary", "":
		return Cloudinary()
	default:
		return nil, fmt.Errorf("unknown storage provider %q", config.AppConfig.StorageProvider)
	}
}

package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// UploadedObject identifies a stored file.
type UploadedObject struct {
	PublicID string `json:"publicId"`
	URL      string `json:"url"`
}

// StorageService defines the interface for storage operations.
type StorageService interface {
	UploadFile(ctx context.Context, localFilePath, destFolder string) (*UploadedObject, error)
	DeleteFile(ctx context.Context, publicID string) error
}

// FirebaseStorageService implements StorageService using Firebase Storage.
type FirebaseStorageService struct {
	client     *storage.Client
	bucketName string
}

// NewFirebaseStorageService creates a new FirebaseStorageService.
func NewFirebaseStorageService(ctx context.Context, serviceAccountJSONPath, bucketName string) (*FirebaseStorageService, error) {
	if bucketName == "" {
		return nil, fmt.Errorf("firebase storage bucket not configured")
	}
	client, err := storage.NewClient(ctx, option.WithCredentialsFile(serviceAccountJSONPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &FirebaseStorageService{client: client, bucketName: bucketName}, nil
}

// UploadFile writes the file publicly readable and returns its download URL.
func (s *FirebaseStorageService) UploadFile(ctx context.Context, localFilePath, destFolder string) (*UploadedObject, error) {
	file, err := os.Open(localFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	objectPath := path.Join(destFolder, filepath.Base(localFilePath))
	obj := s.client.Bucket(s.bucketName).Object(objectPath)
	w := obj.NewWriter(ctx)

	// Set public read ACL
	w.ACL = []storage.ACLRule{{Entity: storage.AllUsers, Role: storage.RoleReader}}

	if ext := filepath.Ext(localFilePath); ext != "" {
		w.ObjectAttrs.ContentType = mime.TypeByExtension(ext)
	}

	if _, err := io.Copy(w, file); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to copy file to storage: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to close writer: %w", err)
	}

	return &UploadedObject{PublicID: objectPath, URL: s.downloadURL(objectPath)}, nil
}

// DeleteFile deletes an object from the bucket.
func (s *FirebaseStorageService) DeleteFile(ctx context.Context, publicID string) error {
	obj := s.client.Bucket(s.bucketName).Object(publicID)
	if err := obj.Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *FirebaseStorageService) downloadURL(objectPath string) string {
	return fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media", s.bucketName, url.QueryEscape(objectPath))
}

// Package storage uploads user avatars to Azure Blob Storage. Only the
// resulting public URL is kept on the user record.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

type BlobStore struct {
	serviceURL string
	container  string
	client     *azblob.Client
}

func NewBlobStore(serviceURL, container string) (*BlobStore, error) {
	if serviceURL == "" {
		return nil, fmt.Errorf("blob service URL is required")
	}

	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create azure credential: %w", err)
	}
	client, err := azblob.NewClient(serviceURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}

	slog.Info("blob store initialized", "service_url", serviceURL, "container", container)
	return &BlobStore{serviceURL: strings.TrimSuffix(serviceURL, "/"), container: container, client: client}, nil
}

// UploadAvatar stores the avatar under {userID}/{filename} and returns its
// public URL.
func (s *BlobStore) UploadAvatar(ctx context.Context, userID int64, filename string, data []byte) (string, error) {
	blobName := fmt.Sprintf("%d/%s", userID, filename)

	_, err := s.client.CreateContainer(ctx, s.container, nil)
	if err != nil && !strings.Contains(err.Error(), "ContainerAlreadyExists") {
		slog.Warn("failed to create container (may already exist)", "container", s.container, "error", err)
	}

	if _, err := s.client.UploadBuffer(ctx, s.container, blobName, data, nil); err != nil {
		slog.Error("failed to upload avatar", "blob_name", blobName, "error", err)
		return "", fmt.Errorf("failed to upload avatar %s: %w", blobName, err)
	}

	url := fmt.Sprintf("%s/%s/%s", s.serviceURL, s.container, blobName)
	slog.Info("avatar uploaded", "user_id", userID, "url", url)
	return url, nil
}

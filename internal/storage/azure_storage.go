package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// AzureBlobFetcher downloads plans stored in an Azure storage account.
// URLs look like https://<account>.blob.core.windows.net/<container>/<blob>.
type AzureBlobFetcher struct {
	client  *azblob.Client
	account string
	maxSize int64
}

// NewAzureBlobFetcher creates a fetcher authenticated with a shared key
func NewAzureBlobFetcher(accountName, accountKey string) (*AzureBlobFetcher, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("invalid azure credentials: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create azure blob client: %w", err)
	}

	return &AzureBlobFetcher{client: client, account: accountName, maxSize: DefaultMaxPlanSize}, nil
}

// Handles reports whether blobURL points into this fetcher's account
func (s *AzureBlobFetcher) Handles(blobURL string) bool {
	return IsAzureBlobURL(blobURL) &&
		strings.Contains(strings.ToLower(blobURL), "://"+strings.ToLower(s.account)+".blob.core.windows.net")
}

// FetchPlan downloads the blob named by blobURL
func (s *AzureBlobFetcher) FetchPlan(ctx context.Context, blobURL string) ([]byte, error) {
	parts, err := azblob.ParseURL(blobURL)
	if err != nil {
		return nil, fmt.Errorf("invalid blob URL: %w", err)
	}
	if parts.ContainerName == "" || parts.BlobName == "" {
		return nil, fmt.Errorf("invalid blob URL: container and blob name are required")
	}

	resp, err := s.client.DownloadStream(ctx, parts.ContainerName, parts.BlobName, nil)
	if err != nil {
		var respErr *azcore.ResponseError
		if errors.As(err, &respErr) && respErr.StatusCode == 404 {
			return nil, fmt.Errorf("blob %s/%s: %w", parts.ContainerName, parts.BlobName, ErrPlanNotFound)
		}
		return nil, fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	return readLimited(resp.Body, s.maxSize)
}

// IsAzureBlobURL reports whether u is an Azure blob storage URL
func IsAzureBlobURL(u string) bool {
	return strings.Contains(strings.ToLower(u), ".blob.core.windows.net/")
}

package recording

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/halcyonlab/notetracker/internal/recording"
	storage_go "github.com/supabase-community/storage-go"
	"github.com/supabase-community/supabase-go"
)

const (
	downloadTimeout   = 30 * time.Second
	maxRecordingBytes = 512 << 20
)

// SupabaseUploader copies vendor recordings into a Supabase storage bucket.
type SupabaseUploader struct {
	client *supabase.Client
	bucket string
	http   *http.Client
}

func NewSupabaseUploader(url, apiKey, bucket string) (recording.Uploader, error) {
	client, err := supabase.NewClient(url, apiKey, nil)
	if err != nil {
		return nil, fmt.Errorf("creating supabase client: %w", err)
	}
	return &SupabaseUploader{
		client: client,
		bucket: bucket,
		http:   &http.Client{},
	}, nil
}

func (u *SupabaseUploader) Mirror(ctx context.Context, sessionID, vendorURL string) (string, error) {
	data, contentType, err := u.download(ctx, vendorURL)
	if err != nil {
		return "", fmt.Errorf("downloading recording: %w", err)
	}

	objectPath := fmt.Sprintf("%s/recording.mp4", sessionID)
	_, err = u.client.Storage.UploadFile(u.bucket, objectPath, bytes.NewReader(data), storage_go.FileOptions{
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("uploading recording: %w", err)
	}

	public := u.client.Storage.GetPublicUrl(u.bucket, objectPath)
	if public.SignedURL == "" {
		return "", fmt.Errorf("storage returned no public url for %s", objectPath)
	}
	return public.SignedURL, nil
}

func (u *SupabaseUploader) download(ctx context.Context, url string) ([]byte, string, error) {
	ctx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := u.http.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("recording source returned status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxRecordingBytes))
	if err != nil {
		return nil, "", err
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "video/mp4"
	}
	return data, contentType, nil
}

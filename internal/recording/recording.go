package recording

import "context"

// Uploader mirrors a vendor recording into durable object storage.
// Best-effort: callers fire it in the background and fall back to the
// vendor URL when it fails.
type Uploader interface {
	// Mirror downloads the recording at vendorURL and stores a copy,
	// returning the stored copy's public URL.
	Mirror(ctx context.Context, sessionID, vendorURL string) (string, error)
}

// NopUploader is used when no object storage is configured; the vendor URL
// stays the recording reference.
type NopUploader struct{}

func (NopUploader) Mirror(_ context.Context, _, vendorURL string) (string, error) {
	return vendorURL, nil
}

package model

import "time"

// DownloadRequest is the body the UI posts and the relay forwards upstream.
type DownloadRequest struct {
	URL    string `json:"url"`
	Format string `json:"format"` // "mp4" or "mp3"
}

// DownloadResult is the upstream conversion API's response shape.
// On failure only Error is populated.
type DownloadResult struct {
	Success     bool    `json:"success"`
	Title       string  `json:"title,omitempty"`
	Filename    string  `json:"filename,omitempty"`
	Format      string  `json:"format,omitempty"`
	Platform    string  `json:"platform,omitempty"`
	SizeMB      float64 `json:"size_mb,omitempty"`
	DownloadURL string  `json:"download_url,omitempty"`
	Thumbnail   string  `json:"thumbnail,omitempty"`
	Error       string  `json:"error,omitempty"`
}

// DownloadRecord is one completed download as kept in the history store.
type DownloadRecord struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Title       string    `json:"title"`
	Format      string    `json:"format"`
	Platform    string    `json:"platform"`
	DownloadURL string    `json:"download_url"`
	SizeMB      float64   `json:"size_mb"`
}

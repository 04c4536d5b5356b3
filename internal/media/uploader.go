// Package media wraps the third-party media store that holds avatars,
// cover images and video files.
package media

import "context"

// Asset is a stored media object: a durable URL plus the identifier
// needed to delete it later.
type Asset struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

// Uploader is the media store contract. Upload sends a local file and
// returns the stored asset; Destroy removes a previously stored object.
type Uploader interface {
	Upload(ctx context.Context, localPath string) (*Asset, error)
	Destroy(ctx context.Context, publicID string) error
}

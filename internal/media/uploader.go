// Package media uploads user images to the managed storage CDN and picks
// interview cover images.
package media

import (
	"bytes"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/supabase-community/supabase-go"
)

// Folder is the fixed object prefix for profile pictures.
const Folder = "profile_pictures"

// UploadResult points at a stored image.
type UploadResult struct {
	ImageURL string `json:"imageUrl"`
	PublicID string `json:"publicId"`
}

// Uploader stores images in a Supabase storage bucket.
type Uploader struct {
	client  *supabase.Client
	baseURL string
	bucket  string
}

// NewUploader constructs a storage client for the given project.
func NewUploader(baseURL, serviceKey, bucket string) (*Uploader, error) {
	client, err := supabase.NewClient(baseURL, serviceKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &Uploader{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		bucket:  bucket,
	}, nil
}

// UploadImage stores the image under the profile-pictures folder and
// returns its public URL and object id.
func (u *Uploader) UploadImage(filename, contentType string, data []byte) (UploadResult, error) {
	key := objectKey(filename, contentType)
	if _, err := u.client.Storage.UploadFile(u.bucket, key, bytes.NewReader(data)); err != nil {
		return UploadResult{}, fmt.Errorf("failed to upload image: %w", err)
	}
	return UploadResult{
		ImageURL: fmt.Sprintf("%s/storage/v1/object/public/%s/%s", u.baseURL, u.bucket, key),
		PublicID: key,
	}, nil
}

// objectKey derives a unique object name, keeping the original extension
// when there is one and falling back to the content type.
func objectKey(filename, contentType string) string {
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		switch contentType {
		case "image/png":
			ext = ".png"
		case "image/gif":
			ext = ".gif"
		case "image/webp":
			ext = ".webp"
		default:
			ext = ".jpg"
		}
	}
	return Folder + "/" + uuid.NewString() + ext
}

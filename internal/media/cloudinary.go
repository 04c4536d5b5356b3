package media

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/amitrajade/vidtube-be/internal/config"
)

const cloudinaryBaseURL = "https://api.cloudinary.com/v1_1"

// Cloudinary implements Uploader against the Cloudinary upload API using
// signed requests.
type Cloudinary struct {
	cloudName string
	apiKey    string
	apiSecret string
	baseURL   string
	client    *http.Client
}

// NewCloudinary creates a Cloudinary client from the application config.
func NewCloudinary(cfg *config.Config) *Cloudinary {
	return &Cloudinary{
		cloudName: cfg.CloudinaryCloudName,
		apiKey:    cfg.CloudinaryAPIKey,
		apiSecret: cfg.CloudinaryAPISecret,
		baseURL:   cloudinaryBaseURL,
		client:    &http.Client{Timeout: 60 * time.Second},
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
}

// Upload sends the file at localPath to the media store and returns the
// stored asset. The local file is left in place; callers own its cleanup.
func (c *Cloudinary) Upload(ctx context.Context, localPath string) (*Asset, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("could not open upload file: %w", err)
	}
	defer file.Close()

	timestamp := strconv.FormatInt(time.Now().Unix(), 10)

	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)
	go func() {
		defer pw.Close()
		part, err := form.CreateFormFile("file", filepath.Base(localPath))
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, file); err != nil {
			pw.CloseWithError(err)
			return
		}
		_ = form.WriteField("api_key", c.apiKey)
		_ = form.WriteField("timestamp", timestamp)
		_ = form.WriteField("signature", c.sign("timestamp="+timestamp))
		pw.CloseWithError(form.Close())
	}()

	url := fmt.Sprintf("%s/%s/auto/upload", c.baseURL, c.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, pr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("media upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("media upload failed with status %d: %s", resp.StatusCode, body)
	}

	var out uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("could not decode upload response: %w", err)
	}
	return &Asset{URL: out.SecureURL, PublicID: out.PublicID}, nil
}

// Destroy deletes a stored object. It fails unless the store confirms
// the deletion.
func (c *Cloudinary) Destroy(ctx context.Context, publicID string) error {
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)

	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)
	go func() {
		defer pw.Close()
		_ = form.WriteField("public_id", publicID)
		_ = form.WriteField("api_key", c.apiKey)
		_ = form.WriteField("timestamp", timestamp)
		_ = form.WriteField("signature", c.sign("public_id="+publicID+"&timestamp="+timestamp))
		pw.CloseWithError(form.Close())
	}()

	url := fmt.Sprintf("%s/%s/image/destroy", c.baseURL, c.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, pr)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("media destroy request failed: %w", err)
	}
	defer resp.Body.Close()

	var out struct {
		Result string `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("could not decode destroy response: %w", err)
	}
	if out.Result != "ok" {
		return fmt.Errorf("media destroy rejected for %s: %s", publicID, out.Result)
	}
	return nil
}

// sign produces the request signature Cloudinary expects: the SHA-1 of the
// sorted parameter string concatenated with the API secret.
func (c *Cloudinary) sign(params string) string {
	sum := sha1.Sum([]byte(params + c.apiSecret))
	return hex.EncodeToString(sum[:])
}

package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"go.uber.org/zap"

	"github.com/herafna/marketplace/internal/config"
	apperrors "github.com/herafna/marketplace/pkg/util"
)

const defaultMimeType = "image/jpeg"

// Uploader posts locally-encoded images to the image host and returns the
// hosted URL. Uploads are synchronous; callers that need an image URL wait
// for it before writing their own document.
type Uploader struct {
	cfg    config.MediaConfig
	client *http.Client
	logger *zap.Logger
}

// NewUploader constructs an uploader from config.
func NewUploader(cfg config.MediaConfig, logger *zap.Logger) *Uploader {
	return &Uploader{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout()},
		logger: logger,
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
}

// Upload decodes a data URI and submits it as an unsigned multipart upload.
// Returns the hosted secure URL, or an upload error on any non-2xx reply.
func (u *Uploader) Upload(ctx context.Context, dataURI string) (string, error) {
	if u.cfg.Endpoint == "" {
		return "", apperrors.NewUploadError(fmt.Errorf("media endpoint not configured"))
	}

	mimeType, blob, err := decodeDataURI(dataURI)
	if err != nil {
		return "", apperrors.NewValidationError("invalid image data", map[string]any{"field": "image"})
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	fileHeader := textproto.MIMEHeader{}
	fileHeader.Set("Content-Disposition", `form-data; name="file"; filename="upload"`)
	fileHeader.Set("Content-Type", mimeType)
	part, err := writer.CreatePart(fileHeader)
	if err != nil {
		return "", apperrors.NewUploadError(err)
	}
	if _, err := part.Write(blob); err != nil {
		return "", apperrors.NewUploadError(err)
	}
	_ = writer.WriteField("upload_preset", u.cfg.UploadPreset)
	_ = writer.WriteField("folder", u.cfg.Folder)
	if err := writer.Close(); err != nil {
		return "", apperrors.NewUploadError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.cfg.Endpoint, &body)
	if err != nil {
		return "", apperrors.NewUploadError(err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	res, err := u.client.Do(req)
	if err != nil {
		return "", apperrors.NewUploadError(err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		payload, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		u.logger.Warn("image host rejected upload",
			zap.Int("status", res.StatusCode),
			zap.ByteString("body", payload))
		return "", apperrors.NewUploadError(fmt.Errorf("image host returned status %d", res.StatusCode))
	}

	var parsed uploadResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return "", apperrors.NewUploadError(err)
	}
	if parsed.SecureURL == "" {
		return "", apperrors.NewUploadError(fmt.Errorf("image host response missing secure_url"))
	}
	return parsed.SecureURL, nil
}

// decodeDataURI splits a data URI into its mime type and decoded payload.
// A missing or malformed header falls back to image/jpeg, matching how the
// stored images were produced.
func decodeDataURI(dataURI string) (string, []byte, error) {
	header, payload, found := strings.Cut(dataURI, ",")
	if !found {
		return "", nil, fmt.Errorf("not a data URI")
	}

	mimeType := defaultMimeType
	if rest, ok := strings.CutPrefix(header, "data:"); ok {
		if mt, _, _ := strings.Cut(rest, ";"); mt != "" {
			mimeType = mt
		}
	}

	blob, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, err
	}
	return mimeType, blob, nil
}

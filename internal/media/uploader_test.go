package media

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/herafna/marketplace/internal/config"
	apperrors "github.com/herafna/marketplace/pkg/util"
)

func testDataURI() string {
	payload := base64.StdEncoding.EncodeToString([]byte("fake image bytes"))
	return "data:image/png;base64," + payload
}

func newTestUploader(endpoint string) *Uploader {
	return NewUploader(config.MediaConfig{
		CloudName:      "test-cloud",
		UploadPreset:   "unsigned_test",
		Folder:         "test/experiences",
		Endpoint:       endpoint,
		TimeoutSeconds: 5,
	}, zap.NewNop())
}

func TestUpload(t *testing.T) {
	var gotPreset, gotFolder, gotFile string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotPreset = r.FormValue("upload_preset")
		gotFolder = r.FormValue("folder")

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		blob, err := io.ReadAll(file)
		require.NoError(t, err)
		gotFile = string(blob)
		assert.Equal(t, "image/png", header.Header.Get("Content-Type"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"secure_url":"https://cdn.example.com/test/abc123.png"}`))
	}))
	defer server.Close()

	url, err := newTestUploader(server.URL).Upload(context.Background(), testDataURI())
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/test/abc123.png", url)
	assert.Equal(t, "unsigned_test", gotPreset)
	assert.Equal(t, "test/experiences", gotFolder)
	assert.Equal(t, "fake image bytes", gotFile)
}

func TestUploadHostRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Upload preset not found"}}`))
	}))
	defer server.Close()

	_, err := newTestUploader(server.URL).Upload(context.Background(), testDataURI())

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UPLOAD_FAILED", domainErr.Code)
	assert.Equal(t, http.StatusBadGateway, domainErr.HTTPStatus)
}

func TestUploadMissingSecureURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	_, err := newTestUploader(server.URL).Upload(context.Background(), testDataURI())

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UPLOAD_FAILED", domainErr.Code)
}

func TestUploadRejectsMalformedDataURI(t *testing.T) {
	_, err := newTestUploader("http://unused.invalid").Upload(context.Background(), "not a data uri")

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestUploadUnconfiguredEndpoint(t *testing.T) {
	_, err := newTestUploader("").Upload(context.Background(), testDataURI())

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UPLOAD_FAILED", domainErr.Code)
}

func TestDecodeDataURI(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("x"))

	mimeType, blob, err := decodeDataURI("data:image/webp;base64," + payload)
	require.NoError(t, err)
	assert.Equal(t, "image/webp", mimeType)
	assert.Equal(t, []byte("x"), blob)

	// bare header falls back to jpeg
	mimeType, _, err = decodeDataURI("data:;base64," + payload)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", mimeType)

	_, _, err = decodeDataURI("no comma here")
	assert.Error(t, err)
}

// AngelaMos | 2026
// client_test.go

package media

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/storefront/internal/config"
	"github.com/carterperez-dev/storefront/internal/core"
)

func testClient(endpoint string) *Client {
	return NewClient(config.MediaConfig{
		Endpoint: endpoint,
		APIKey:   "media-key",
		Timeout:  5 * time.Second,
	})
}

func TestUploadSendsMultipartAndDecodesAsset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/upload", r.URL.Path)
			require.Equal(t, "Bearer media-key", r.Header.Get("Authorization"))

			require.NoError(t, r.ParseMultipartForm(1<<20))
			assert.Equal(t, "storefront/users", r.FormValue("folder"))
			assert.Equal(t, "150", r.FormValue("width"))
			assert.Equal(t, "scale", r.FormValue("crop"))

			file, header, err := r.FormFile("file")
			require.NoError(t, err)
			defer file.Close()

			assert.Equal(t, "avatar.jpg", header.Filename)
			content, err := io.ReadAll(file)
			require.NoError(t, err)
			assert.Equal(t, "image-bytes", string(content))

			_ = json.NewEncoder(w).Encode(Image{
				ID:  "asset-9",
				URL: "https://cdn.test/asset-9",
			})
		}))
	defer srv.Close()

	image, err := testClient(srv.URL).Upload(
		context.Background(),
		strings.NewReader("image-bytes"),
		"avatar.jpg",
		"storefront/users",
		ProfileTransform,
	)
	require.NoError(t, err)

	assert.Equal(t, "asset-9", image.ID)
	assert.Equal(t, "https://cdn.test/asset-9", image.URL)
}

func TestUploadIncompleteResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(Image{ID: "asset-9"})
		}))
	defer srv.Close()

	_, err := testClient(srv.URL).Upload(
		context.Background(),
		strings.NewReader("x"),
		"a.jpg",
		"folder",
		Transform{},
	)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrDependency))
}

func TestUploadUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
	defer srv.Close()

	_, err := testClient(srv.URL).Upload(
		context.Background(),
		strings.NewReader("x"),
		"a.jpg",
		"folder",
		Transform{},
	)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrDependency))
}

func TestDestroy(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			require.Equal(t, http.MethodDelete, r.Method)
			w.WriteHeader(http.StatusOK)
		}))
	defer srv.Close()

	err := testClient(srv.URL).Destroy(context.Background(), "asset-9")
	require.NoError(t, err)
	assert.Equal(t, "/assets/asset-9", gotPath)
}

// A destroy for an asset that is already gone counts as success; record
// deletes retry these calls and must not fail on the second pass.
func TestDestroyMissingAssetIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
	defer srv.Close()

	err := testClient(srv.URL).Destroy(context.Background(), "gone")
	assert.NoError(t, err)
}

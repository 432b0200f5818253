// AngelaMos | 2026
// store.go

package media

import (
	"context"
	"io"
)

// Image is the external store's handle for an uploaded asset. The id is
// opaque; destroying an asset requires it.
type Image struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type Transform struct {
	Width int
	Crop  string
}

var (
	ProfileTransform = Transform{Width: 150, Crop: "scale"}
	ProductTransform = Transform{Width: 800, Crop: "scale"}
)

// Store is the external image-store contract. Destroy failures on record
// deletes are best-effort: logged by callers, never escalated.
type Store interface {
	Upload(
		ctx context.Context,
		file io.Reader,
		filename, folder string,
		transform Transform,
	) (*Image, error)
	Destroy(ctx context.Context, id string) error
}

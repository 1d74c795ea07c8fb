package llm

import "context"

// ImageRequest asks an image model to edit a picture.
type ImageRequest struct {
	// Image is the raw source image.
	Image []byte

	// MIMEType of Image, e.g. "image/png".
	MIMEType string

	// Prompt is the full instruction text sent alongside the image.
	Prompt string
}

// Image is an edited picture returned by an image model.
type Image struct {
	Data     []byte
	MIMEType string
	Model    string
	Usage    Usage
}

// ImageEditor edits images. A response without image data fails with
// ErrNoImage.
type ImageEditor interface {
	EditImage(ctx context.Context, req ImageRequest) (*Image, error)
}

// EditImage edits an image with p when it supports it.
func EditImage(ctx context.Context, p Provider, req ImageRequest) (*Image, error) {
	ed, ok := p.(ImageEditor)
	if !ok {
		return nil, ErrImageUnsupported
	}
	return ed.EditImage(ctx, req)
}

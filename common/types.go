// package common contains plain data types and math helpers shared by the engine packages. They are not interface-wrapped structs,
// just plain structs and functions that express commonly used data-types.
package common

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
)

// ErrEmptyTexture is returned when an ImportedTexture has neither embedded data nor a path.
var ErrEmptyTexture = errors.New("texture has neither data nor path")

// TextureStagingData holds RGBA pixel data for a texture binding pending GPU upload.
type TextureStagingData struct {
	// Pixels is the RGBA8 pixel data, 4 bytes per pixel, row-major starting at the top-left texel.
	Pixels []byte
	// Width is the width of the texture in pixels.
	Width uint32
	// Height is the height of the texture in pixels.
	Height uint32
}

// ImportedTexture is an image waiting to be decoded into TextureStagingData.
// Either Data (an encoded PNG/JPEG) or Path must be set; Data wins when both are.
type ImportedTexture struct {
	Name string
	Path string
	Data []byte

	// populated by Decode
	Width  int
	Height int
}

// Decode decodes the texture to RGBA staging data.
// Supports PNG and JPEG formats.
//
// Returns:
//   - TextureStagingData: the decoded pixels and their dimensions
//   - error: error if the source is missing or cannot be decoded
func (t *ImportedTexture) Decode() (TextureStagingData, error) {
	if t == nil {
		return TextureStagingData{}, errors.New("texture is nil")
	}

	var img image.Image
	var err error

	switch {
	case len(t.Data) > 0:
		img, _, err = image.Decode(bytes.NewReader(t.Data))
		if err != nil {
			return TextureStagingData{}, fmt.Errorf("failed to decode embedded image %q: %w", t.Name, err)
		}
	case t.Path != "":
		file, fileErr := os.Open(t.Path)
		if fileErr != nil {
			return TextureStagingData{}, fmt.Errorf("failed to open texture file %s: %w", t.Path, fileErr)
		}
		defer file.Close()

		img, _, err = image.Decode(file)
		if err != nil {
			return TextureStagingData{}, fmt.Errorf("failed to decode texture file %s: %w", t.Path, err)
		}
	default:
		return TextureStagingData{}, ErrEmptyTexture
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	t.Width = bounds.Dx()
	t.Height = bounds.Dy()

	return TextureStagingData{
		Pixels: rgba.Pix,
		Width:  uint32(t.Width),
		Height: uint32(t.Height),
	}, nil
}

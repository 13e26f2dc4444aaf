package common

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestImportedTextureDecode(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 3))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	img.Set(1, 2, color.NRGBA{B: 255, A: 255})

	tex := &ImportedTexture{Name: "test", Data: encodePNG(t, img)}
	staged, err := tex.Decode()
	require.NoError(t, err)

	assert.Equal(t, uint32(2), staged.Width)
	assert.Equal(t, uint32(3), staged.Height)
	assert.Len(t, staged.Pixels, 2*3*4)
	assert.Equal(t, []byte{255, 0, 0, 255}, staged.Pixels[0:4])
	assert.Equal(t, []byte{0, 0, 255, 255}, staged.Pixels[len(staged.Pixels)-4:])
	assert.Equal(t, 2, tex.Width)
	assert.Equal(t, 3, tex.Height)
}

func TestImportedTextureDecodeErrors(t *testing.T) {
	_, err := (&ImportedTexture{}).Decode()
	assert.ErrorIs(t, err, ErrEmptyTexture)

	_, err = (&ImportedTexture{Path: "does/not/exist.png"}).Decode()
	assert.Error(t, err)

	_, err = (&ImportedTexture{Data: []byte("not an image")}).Decode()
	assert.Error(t, err)

	var nilTex *ImportedTexture
	_, err = nilTex.Decode()
	assert.Error(t, err)
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, 3, Coalesce(0, 3, 4))
	assert.Equal(t, "", Coalesce("", ""))
	assert.Equal(t, float32(32), Coalesce(float32(0), 32))
}

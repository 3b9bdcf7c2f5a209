package helper

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chai2010/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	return img
}

func fileUpload(t *testing.T, name, contentType string, data []byte) *multipart.FileHeader {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="photo"; filename="`+name+`"`)
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	form, err := multipart.NewReader(&body, mw.Boundary()).ReadForm(10 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["photo"][0]
}

func pngUpload(t *testing.T, w, h int, name string) *multipart.FileHeader {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage(w, h)))
	return fileUpload(t, name, "image/png", buf.Bytes())
}

func decodeSaved(t *testing.T, root, rel string) image.Image {
	f, err := os.Open(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	defer f.Close()
	img, err := webp.Decode(f)
	require.NoError(t, err)
	return img
}

func TestSaveImageAsWebPDownscales(t *testing.T) {
	root := t.TempDir()
	rel, err := SaveImageAsWebP(root, "members", pngUpload(t, 1200, 600, "내 사진.png"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rel, "members/"))
	assert.True(t, strings.HasSuffix(rel, ".webp"))

	img := decodeSaved(t, root, rel)
	assert.Equal(t, PhotoMaxSide, img.Bounds().Dx())
	assert.Equal(t, PhotoMaxSide/2, img.Bounds().Dy())

	require.NoError(t, RemoveUpload(root, rel))
	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, RemoveUpload(root, rel))
}

func TestSaveImageAsWebPKeepsSmallImages(t *testing.T) {
	root := t.TempDir()
	rel, err := SaveImageAsWebP(root, "members", pngUpload(t, 40, 30, "a.png"))
	require.NoError(t, err)

	img := decodeSaved(t, root, rel)
	assert.Equal(t, 40, img.Bounds().Dx())
}

func TestSaveImageAsWebPAcceptsWebPUpload(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, webp.Encode(&buf, testImage(800, 800), &webp.Options{Lossless: true}))

	root := t.TempDir()
	rel, err := SaveImageAsWebP(root, "members", fileUpload(t, "face.webp", "image/webp", buf.Bytes()))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(rel, ".webp"))

	img := decodeSaved(t, root, rel)
	assert.Equal(t, PhotoMaxSide, img.Bounds().Dx())
	assert.Equal(t, PhotoMaxSide, img.Bounds().Dy())
}

func TestSaveImageAsWebPRejectsCorruptImage(t *testing.T) {
	_, err := SaveImageAsWebP(t.TempDir(), "members", fileUpload(t, "broken.png", "image/png", []byte("not a png")))
	require.Error(t, err)
	assert.Equal(t, 400, StatusOf(err))
}

func TestSaveImageAsWebPRejectsNonImages(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("photo", "notes.txt")
	require.NoError(t, err)
	_, _ = part.Write([]byte("hello"))
	require.NoError(t, mw.Close())
	form, err := multipart.NewReader(&body, mw.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)

	_, err = SaveImageAsWebP(t.TempDir(), "members", form.File["photo"][0])
	require.Error(t, err)
	assert.Equal(t, 400, StatusOf(err))
}

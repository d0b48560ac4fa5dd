package pagecraft

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	maxImageWidth = 1600
	jpegQuality   = 80
	maxUploadSize = 10 << 20 // 10MB
)

// readUpload reads src whole, failing with ErrTooLarge past maxUploadSize.
func readUpload(src io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(src, maxUploadSize+1)); err != nil {
		return nil, fmt.Errorf("pagecraft: read upload: %w", err)
	}
	if buf.Len() > maxUploadSize {
		return nil, fmt.Errorf("%w (max %d bytes)", ErrTooLarge, maxUploadSize)
	}
	return buf.Bytes(), nil
}

// ProcessImage decodes a JPEG, PNG, GIF or WebP image from src, scales it
// down to maxImageWidth when wider, and re-encodes it as JPEG. The returned
// asset carries the derived filename, dimensions and size; the caller fills
// in tenant, id and URL.
func ProcessImage(src io.Reader, originalName string) (MediaAsset, []byte, error) {
	data, err := readUpload(src)
	if err != nil {
		return MediaAsset{}, nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return MediaAsset{}, nil, fmt.Errorf("pagecraft: decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w > maxImageWidth {
		newH := h * maxImageWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
		w = maxImageWidth
		h = newH
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return MediaAsset{}, nil, fmt.Errorf("pagecraft: encode jpeg: %w", err)
	}

	return MediaAsset{
		Filename:     slugifyFilename(originalName) + ".jpg",
		OriginalName: originalName,
		MimeType:     "image/jpeg",
		Width:        w,
		Height:       h,
		Size:         buf.Len(),
		Tags:         []string{},
		UploadedAt:   timeNow(),
	}, buf.Bytes(), nil
}

// ProbeMedia describes a file without transforming it: the MIME type is
// sniffed from the bytes, and images also report their dimensions.
func ProbeMedia(name string, data []byte) MediaAsset {
	mt := mimetype.Detect(data)
	asset := MediaAsset{
		Filename:     slugifyFilename(name) + mt.Extension(),
		OriginalName: name,
		MimeType:     mt.String(),
		Size:         len(data),
		Tags:         []string{},
		UploadedAt:   timeNow(),
	}
	if strings.HasPrefix(mt.String(), "image/") {
		if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
			asset.Width = cfg.Width
			asset.Height = cfg.Height
		}
	}
	return asset
}

// slugifyFilename converts a filename (without extension) to a URL-safe slug.
func slugifyFilename(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	if s := Slugify(base); s != "" {
		return s
	}
	return "file"
}

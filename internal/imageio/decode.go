// Package imageio loads wound photos from the references stored in records
// and prepares them for display.
package imageio

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/example/woundmark/internal/geom"
)

// ErrEmptyRef is returned for a blank image reference.
var ErrEmptyRef = errors.New("empty image reference")

// maxRemoteBytes bounds downloads of remote photos.
const maxRemoteBytes = 64 << 20

// Decode resolves ref and decodes the image behind it. ref may be a file
// path, a file:// URL, an http(s) URL or a data: URL.
func Decode(ctx context.Context, ref string) (image.Image, error) {
	rc, err := Open(ctx, ref)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	img, format, err := image.Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", describe(ref), err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger().Debug("image decoded", "ref", describe(ref), "format", format, "size", img.Bounds().Size())
	return img, nil
}

// Open returns a reader over the raw bytes behind ref.
func Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrEmptyRef
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch {
	case strings.HasPrefix(ref, "data:"):
		data, err := parseDataURL(ref)
		if err != nil {
			return nil, err
		}
		return io.NopCloser(bytes.NewReader(data)), nil
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return openRemote(ctx, ref)
	case strings.HasPrefix(ref, "file://"):
		u, err := url.Parse(ref)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", ref, err)
		}
		return os.Open(u.Path)
	}
	return os.Open(ref)
}

func openRemote(ctx context.Context, ref string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", ref, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: %s", ref, resp.Status)
	}
	return struct {
		io.Reader
		io.Closer
	}{io.LimitReader(resp.Body, maxRemoteBytes), resp.Body}, nil
}

// parseDataURL decodes data:[<mediatype>][;base64],<payload>.
func parseDataURL(ref string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("data url: missing payload separator")
	}
	if strings.HasSuffix(meta, ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("data url: %w", err)
		}
		return data, nil
	}
	data, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("data url: %w", err)
	}
	return []byte(data), nil
}

// describe shortens data URLs for log output.
func describe(ref string) string {
	if strings.HasPrefix(ref, "data:") {
		meta, _, _ := strings.Cut(ref, ",")
		return meta + ",..."
	}
	return ref
}

// Fit scales img to the display size for the given container, never
// enlarging it. The result always has a zero origin.
func Fit(img image.Image, container geom.Size, padding int) *image.RGBA {
	size := geom.FitSize(geom.SizeOf(img.Bounds()), container, padding)
	return Scale(img, size)
}

// Scale resamples img to exactly size.
func Scale(img image.Image, size geom.Size) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size.W, size.H))
	if geom.SizeOf(img.Bounds()) == size {
		xdraw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, xdraw.Src)
		return dst
	}
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}

// Crop copies r out of img into a new zero-origin image. r is clipped to the
// image bounds first.
func Crop(img *image.RGBA, r image.Rectangle) *image.RGBA {
	r = r.Intersect(img.Bounds())
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	xdraw.Draw(dst, dst.Bounds(), img, r.Min, xdraw.Src)
	return dst
}

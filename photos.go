package gravelpress

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"
)

const (
	maxPhotoWidth = 1200
	jpegQuality   = 80
	maxUploadSize = 10 << 20 // 10MB
	photosSubdir  = "photos"
)

// processPhoto decodes an image from src, optionally resizes it to
// maxPhotoWidth, and encodes it as JPEG. Returns metadata and the encoded
// bytes. Gallery photos keep more width than a blog inline image would,
// since route pages show them full-bleed.
func processPhoto(src io.Reader, originalName string) (Photo, []byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return Photo{}, nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	// Resize if wider than max
	if w > maxPhotoWidth {
		newH := h * maxPhotoWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxPhotoWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
		w = maxPhotoWidth
		h = newH
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return Photo{}, nil, fmt.Errorf("encode jpeg: %w", err)
	}

	filename := slugifyFilename(originalName) + ".jpg"

	return Photo{
		Filename:     filename,
		OriginalName: originalName,
		Width:        w,
		Height:       h,
		Size:         buf.Len(),
		UploadedAt:   time.Now().UTC().Format(time.RFC3339),
	}, buf.Bytes(), nil
}

// slugifyFilename converts a filename (without extension) to a URL-safe slug.
func slugifyFilename(name string) string {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	return Slugify(base)
}

// ensureUniquePhotoName appends a counter if filename already exists in the
// photos directory or database.
func (a *App) ensureUniquePhotoName(p *Photo) {
	dir := filepath.Join(a.staticDir, photosSubdir)
	base := strings.TrimSuffix(p.Filename, ".jpg")
	candidate := p.Filename
	counter := 1
	for {
		// Check filesystem
		if _, err := os.Stat(filepath.Join(dir, candidate)); err == nil {
			counter++
			candidate = fmt.Sprintf("%s-%d.jpg", base, counter)
			continue
		}
		// Check database
		existing, _ := a.Store.ListPhotos()
		found := false
		for _, ex := range existing {
			if ex.Filename == candidate {
				found = true
				break
			}
		}
		if found {
			counter++
			candidate = fmt.Sprintf("%s-%d.jpg", base, counter)
			continue
		}
		break
	}
	p.Filename = candidate
}

func (a *App) handlePhotoUpload(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}

	file, err := c.FormFile("photo")
	if err != nil {
		return c.String(http.StatusBadRequest, "No photo file provided")
	}
	if file.Size > maxUploadSize {
		return c.String(http.StatusBadRequest, "File too large (max 10MB)")
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	photo, data, err := processPhoto(src, file.Filename)
	if err != nil {
		return c.String(http.StatusBadRequest, "Invalid image: "+err.Error())
	}

	a.ensureUniquePhotoName(&photo)

	// Ensure photos directory exists
	dir := filepath.Join(a.staticDir, photosSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create photos dir: %w", err)
	}

	// Write file
	if err := os.WriteFile(filepath.Join(dir, photo.Filename), data, 0o644); err != nil {
		return fmt.Errorf("write photo: %w", err)
	}

	// Save metadata
	if err := a.Store.SavePhoto(photo); err != nil {
		return err
	}

	return a.renderPhotoList(c)
}

func (a *App) handlePhotoDelete(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}

	filename := filepath.Base(c.Param("filename"))
	if filename == "" || filename == "." {
		return c.String(http.StatusBadRequest, "Filename required")
	}

	// Delete from filesystem
	path := filepath.Join(a.staticDir, photosSubdir, filename)
	_ = os.Remove(path) // ignore error if file already gone

	// Delete from database
	if err := a.Store.DeletePhoto(filename); err != nil {
		return err
	}

	return a.renderPhotoList(c)
}

func (a *App) handlePhotoList(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	return a.renderPhotoList(c)
}

func (a *App) renderPhotoList(c echo.Context) error {
	photos, err := a.Store.ListPhotos()
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminPhotos(photos, CsrfToken(c)))
}

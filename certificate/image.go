package certificate

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"os"

	_ "image/jpeg"
	_ "image/png"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"lms/assets"
	"lms/logger"
)

const issuedAtFormat = "January 2, 2006"

// ImageRenderer draws certificates as PNG images, optionally on top of a template
// image kept in asset storage.
type ImageRenderer struct {
	assets      assets.Store
	font        *truetype.Font
	templateKey string
	layout      Layout
	log         *logger.Logger
}

// NewImageRenderer loads the TTF at fontPath when set; otherwise a fixed bitmap face is used.
func NewImageRenderer(store assets.Store, fontPath, templateKey string, layout Layout, baseLog *logger.Logger) (*ImageRenderer, error) {
	log := baseLog.With("service", "CertificateImageRenderer")
	r := &ImageRenderer{
		assets:      store,
		templateKey: templateKey,
		layout:      layout,
		log:         log,
	}
	if fontPath != "" {
		log.Info("Loading certificate font", "font", fontPath)
		f, err := LoadFont(fontPath)
		if err != nil {
			return nil, fmt.Errorf("could not load certificate font: %w", err)
		}
		r.font = f
	}
	return r, nil
}

func LoadFont(path string) (*truetype.Font, error) {
	fontBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return truetype.Parse(fontBytes)
}

func (r *ImageRenderer) Render(ctx context.Context, data Data) (*Document, error) {
	layout := r.layout
	if data.Layout != nil {
		layout = *data.Layout
	}
	if layout.Width <= 0 || layout.Height <= 0 {
		layout = DefaultLayout()
	}
	w, h := float64(layout.Width), float64(layout.Height)

	dc := gg.NewContext(layout.Width, layout.Height)
	if err := r.drawBackground(ctx, dc, data, layout); err != nil {
		return nil, err
	}

	dc.SetColor(color.NRGBA{R: 0x1f, G: 0x29, B: 0x37, A: 0xff})
	fields := []struct {
		text string
		at   Point
	}{
		{data.LearnerName, layout.LearnerName},
		{data.CourseTitle, layout.CourseTitle},
		{data.IssuedAt.Format(issuedAtFormat), layout.IssuedAt},
		{data.CertificateNumber, layout.Number},
	}
	for _, f := range fields {
		dc.SetFontFace(r.face(f.at.FontSize))
		dc.DrawStringAnchored(f.text, f.at.X*w, f.at.Y*h, 0.5, 0.5)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return &Document{Body: buf.Bytes(), ContentType: "image/png", Extension: ".png"}, nil
}

func (r *ImageRenderer) drawBackground(ctx context.Context, dc *gg.Context, data Data, layout Layout) error {
	key := data.TemplateKey
	if key == "" {
		key = r.templateKey
	}
	if key == "" || r.assets == nil {
		dc.SetColor(color.White)
		dc.Clear()
		dc.SetColor(color.NRGBA{R: 0xb4, G: 0x8c, B: 0x3c, A: 0xff})
		dc.SetLineWidth(12)
		dc.DrawRectangle(24, 24, float64(layout.Width)-48, float64(layout.Height)-48)
		dc.Stroke()
		return nil
	}

	raw, err := r.assets.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("load certificate template %s: %w", key, err)
	}
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("decode certificate template %s: %w", key, err)
	}
	dst := image.NewRGBA(image.Rect(0, 0, layout.Width, layout.Height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	dc.DrawImage(dst, 0, 0)
	return nil
}

func (r *ImageRenderer) face(size float64) font.Face {
	if r.font == nil || size <= 0 {
		return basicfont.Face7x13
	}
	return truetype.NewFace(r.font, &truetype.Options{Size: size, Hinting: font.HintingFull})
}

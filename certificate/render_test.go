package certificate_test

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lms/assets"
	"lms/certificate"
	"lms/logger"
)

func smallLayout() certificate.Layout {
	l := certificate.DefaultLayout()
	l.Width, l.Height = 320, 226
	return l
}

func sampleData() certificate.Data {
	return certificate.Data{
		LearnerName:       "Ada Lovelace",
		CourseTitle:       "Go Basics",
		IssuedAt:          time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		CertificateNumber: "CERT-1-1-0A1B2C3D",
	}
}

func TestImageRendererWithoutTemplate(t *testing.T) {
	r, err := certificate.NewImageRenderer(nil, "", "", smallLayout(), logger.Nop())
	require.NoError(t, err)

	doc, err := r.Render(context.Background(), sampleData())
	require.NoError(t, err)
	assert.Equal(t, "image/png", doc.ContentType)
	assert.Equal(t, ".png", doc.Extension)

	img, err := png.Decode(bytes.NewReader(doc.Body))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 320, 226), img.Bounds())
}

func TestImageRendererUsesTemplate(t *testing.T) {
	store, err := assets.NewLocalStore(t.TempDir(), "", logger.Nop())
	require.NoError(t, err)

	tpl := image.NewRGBA(image.Rect(0, 0, 64, 45))
	for y := 0; y < 45; y++ {
		for x := 0; x < 64; x++ {
			tpl.Set(x, y, color.RGBA{R: 0x10, G: 0x80, B: 0x10, A: 0xff})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, tpl))
	require.NoError(t, store.Put(context.Background(), "templates/green.png", "image/png", &buf))

	r, err := certificate.NewImageRenderer(store, "", "templates/green.png", smallLayout(), logger.Nop())
	require.NoError(t, err)
	doc, err := r.Render(context.Background(), sampleData())
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(doc.Body))
	require.NoError(t, err)
	_, g, _, _ := img.At(2, 2).RGBA()
	assert.Greater(t, g>>8, uint32(0x60), "corner should come from the template")
}

func TestImageRendererMissingTemplate(t *testing.T) {
	store, err := assets.NewLocalStore(t.TempDir(), "", logger.Nop())
	require.NoError(t, err)
	r, err := certificate.NewImageRenderer(store, "", "templates/missing.png", smallLayout(), logger.Nop())
	require.NoError(t, err)

	_, err = r.Render(context.Background(), sampleData())
	require.ErrorIs(t, err, assets.ErrNotFound)
}

func TestNewImageRendererBadFont(t *testing.T) {
	_, err := certificate.NewImageRenderer(nil, "/nonexistent/font.ttf", "", smallLayout(), logger.Nop())
	require.Error(t, err)
}

func TestRemoteRenderer(t *testing.T) {
	var got certificate.Data
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/pdf; charset=binary")
		_, _ = w.Write([]byte("%PDF-1.4 fake"))
	}))
	defer srv.Close()

	doc, err := certificate.NewRemoteRenderer(srv.URL, 5*time.Second).Render(context.Background(), sampleData())
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.Equal(t, ".pdf", doc.Extension)
	assert.Equal(t, "%PDF-1.4 fake", string(doc.Body))
	assert.Equal(t, "Ada Lovelace", got.LearnerName)
	assert.Equal(t, "CERT-1-1-0A1B2C3D", got.CertificateNumber)
}

func TestRemoteRendererErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "template missing", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := certificate.NewRemoteRenderer(srv.URL, 5*time.Second).Render(context.Background(), sampleData())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "template missing")
}

func TestIssuerStoresDocument(t *testing.T) {
	store, err := assets.NewLocalStore(t.TempDir(), "https://cdn.example.com/assets", logger.Nop())
	require.NoError(t, err)
	r, err := certificate.NewImageRenderer(nil, "", "", smallLayout(), logger.Nop())
	require.NoError(t, err)
	layout := smallLayout()

	key, err := certificate.NewIssuer(r, store, "", &layout, logger.Nop()).Issue(context.Background(), sampleData())
	require.NoError(t, err)
	assert.Equal(t, "certificates/CERT-1-1-0A1B2C3D.png", key)
	assert.Equal(t, "https://cdn.example.com/assets/certificates/CERT-1-1-0A1B2C3D.png", store.URL(key))

	body, err := store.Get(context.Background(), key)
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(body))
	require.NoError(t, err)
}

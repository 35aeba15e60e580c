package certificate

import (
	"bytes"
	"context"
	"fmt"

	"lms/assets"
	"lms/logger"
)

// Issuer renders a certificate and uploads it, returning the stored key.
type Issuer struct {
	renderer    Renderer
	assets      assets.Store
	templateKey string
	layout      *Layout
	log         *logger.Logger
}

func NewIssuer(renderer Renderer, store assets.Store, templateKey string, layout *Layout, baseLog *logger.Logger) *Issuer {
	return &Issuer{
		renderer:    renderer,
		assets:      store,
		templateKey: templateKey,
		layout:      layout,
		log:         baseLog.With("service", "CertificateIssuer"),
	}
}

func (i *Issuer) Issue(ctx context.Context, data Data) (string, error) {
	if data.TemplateKey == "" {
		data.TemplateKey = i.templateKey
	}
	if data.Layout == nil {
		data.Layout = i.layout
	}
	doc, err := i.renderer.Render(ctx, data)
	if err != nil {
		return "", err
	}
	key := DocumentKey(data.CertificateNumber, doc.Extension)
	if err := i.assets.Put(ctx, key, doc.ContentType, bytes.NewReader(doc.Body)); err != nil {
		return "", fmt.Errorf("upload certificate %s: %w", data.CertificateNumber, err)
	}
	i.log.Info("certificate document stored", "certificate", data.CertificateNumber, "key", key)
	return key, nil
}

// DocumentKey is the storage key of a certificate's rendered document.
func DocumentKey(number, extension string) string {
	return fmt.Sprintf("certificates/%s%s", number, extension)
}

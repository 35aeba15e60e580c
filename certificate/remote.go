package certificate

import (
	"context"
	"fmt"
	"mime"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// RemoteRenderer delegates rendering to an external HTTP service that accepts the
// certificate data as JSON and answers with the document bytes.
type RemoteRenderer struct {
	client *resty.Client
	url    string
}

func NewRemoteRenderer(url string, timeout time.Duration) *RemoteRenderer {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/pdf, image/png")
	return &RemoteRenderer{client: client, url: url}
}

func (r *RemoteRenderer) Render(ctx context.Context, data Data) (*Document, error) {
	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(data).
		Post(r.url)
	if err != nil {
		return nil, fmt.Errorf("certificate renderer request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("certificate renderer returned %d: %s", resp.StatusCode(), strings.TrimSpace(resp.String()))
	}
	body := resp.Body()
	if len(body) == 0 {
		return nil, fmt.Errorf("certificate renderer returned an empty document")
	}

	contentType := resp.Header().Get("Content-Type")
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mt
	}
	return &Document{Body: body, ContentType: contentType, Extension: extensionFor(contentType)}, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "application/pdf":
		return ".pdf"
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	default:
		return ".bin"
	}
}

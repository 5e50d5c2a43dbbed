package handler

import (
	"crypto/sha256"
	"encoding/hex"
	"mime"
	"net/http"
	"strconv"
	"strings"
)

// blobResponse writes raw bytes with a fixed content type.
type blobResponse struct {
	contentType  string
	data         []byte
	cacheControl string
	filename     string
	etag         bool
}

// BlobOption configures a Blob response.
type BlobOption func(*blobResponse)

// WithCacheControl sets the Cache-Control header.
func WithCacheControl(v string) BlobOption {
	return func(b *blobResponse) { b.cacheControl = v }
}

// WithAttachment asks the client to save the body as filename.
func WithAttachment(filename string) BlobOption {
	return func(b *blobResponse) { b.filename = filename }
}

// WithETag adds a content-derived ETag and answers matching
// If-None-Match requests with 304.
func WithETag() BlobOption {
	return func(b *blobResponse) { b.etag = true }
}

// Blob writes data as-is. Used for rendered PNG and SVG codes.
//
//	return handler.Blob(a.MIMEType, a.Data, handler.WithETag())
func Blob(contentType string, data []byte, opts ...BlobOption) Response {
	b := &blobResponse{contentType: contentType, data: data}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *blobResponse) Render(w http.ResponseWriter, r *http.Request) error {
	h := w.Header()
	h.Set("Content-Type", b.contentType)
	h.Set("X-Content-Type-Options", "nosniff")
	if b.cacheControl != "" {
		h.Set("Cache-Control", b.cacheControl)
	}
	if b.filename != "" {
		h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": b.filename}))
	}
	if b.etag {
		sum := sha256.Sum256(b.data)
		tag := `"` + hex.EncodeToString(sum[:8]) + `"`
		h.Set("ETag", tag)
		if matchesETag(r.Header.Get("If-None-Match"), tag) {
			w.WriteHeader(http.StatusNotModified)
			return nil
		}
	}
	h.Set("Content-Length", strconv.Itoa(len(b.data)))
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return nil
	}
	_, err := w.Write(b.data)
	return err
}

func matchesETag(header, tag string) bool {
	for candidate := range strings.SplitSeq(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == tag || candidate == "*" {
			return true
		}
	}
	return false
}

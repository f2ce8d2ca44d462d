package download

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// sniffLen is how many leading bytes are kept for content detection.
const sniffLen = 512

const defaultContentType = "application/octet-stream"

// headWriter keeps the first sniffLen bytes written through it.
type headWriter struct {
	buf []byte
}

func (h *headWriter) Write(p []byte) (int, error) {
	if room := sniffLen - len(h.buf); room > 0 {
		h.buf = append(h.buf, p[:min(room, len(p))]...)
	}
	return len(p), nil
}

func (h *headWriter) bytes() []byte {
	return h.buf
}

// DetectContentType determines the content type from the leading bytes of an
// object using mimetype, falling back to the key's extension when nothing was read.
func DetectContentType(key string, head []byte) string {
	if len(head) > 0 {
		if mt := mimetype.Detect(head); mt != nil {
			return mt.String()
		}
	}

	ext := strings.ToLower(filepath.Ext(key))
	if ext != "" {
		if byExt := mime.TypeByExtension(ext); byExt != "" {
			return byExt
		}
	}
	return defaultContentType
}

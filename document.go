package intake

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MaxDocumentSize bounds what LoadDocument and ReadDocument accept.
const MaxDocumentSize = 4 << 20

// ErrUnsupportedDocument is returned for input that is not plain text.
var ErrUnsupportedDocument = errors.New("unsupported document type")

// Document is a text input with the metadata the CLI reports.
type Document struct {
	Name     string `json:"name"`
	MIMEType string `json:"mimeType"`
	Size     int    `json:"size"`
	Checksum string `json:"checksum"` // sha256, hex
	Text     string `json:"-"`
}

// LoadDocument reads a text document from path. A path of "-" reads stdin.
func LoadDocument(path string) (*Document, error) {
	if path == "-" {
		return ReadDocument(os.Stdin, "stdin")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()
	return ReadDocument(f, path)
}

// ReadDocument reads a text document from r. Binary content, such as images
// or PDFs, is rejected with ErrUnsupportedDocument and blank content with
// ErrEmptyDocument.
func ReadDocument(r io.Reader, name string) (*Document, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("read document %s: %w", name, err)
	}
	if len(data) > MaxDocumentSize {
		return nil, fmt.Errorf("document %s exceeds %d bytes", name, MaxDocumentSize)
	}

	mtype := mimetype.Detect(data)
	slog.Debug("Detected document type", "name", name, "mime_type", mtype.String(), "size", len(data))
	if !isText(mtype) {
		return nil, fmt.Errorf("%w: %s is %s", ErrUnsupportedDocument, name, mtype.String())
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, fmt.Errorf("document %s: %w", name, ErrEmptyDocument)
	}

	sum := sha256.Sum256(data)
	return &Document{
		Name:     name,
		MIMEType: mtype.String(),
		Size:     len(data),
		Checksum: hex.EncodeToString(sum[:]),
		Text:     string(data),
	}, nil
}

// isText walks the MIME hierarchy looking for text/plain, which covers
// markdown, HTML, CSV, JSON and the like.
func isText(m *mimetype.MIME) bool {
	for ; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}

package donation

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"io"

	// register the decoders for the upload formats the wizard accepts
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// MaxProofBytes caps proof-of-payment uploads at 5 MB.
const MaxProofBytes = 5 << 20

// Preview is the decoded, displayable side of a proof upload. It is derived
// once from the raw bytes and rendered inline; the raw bytes are what gets
// transmitted to the platform.
type Preview struct {
	Format string
	Width  int
	Height int
}

// Proof is a single user-supplied proof-of-payment image. It exists only
// between upload and submission.
type Proof struct {
	Filename string
	Data     []byte
	Preview  Preview
}

// NewProof validates and decodes an uploaded image. Files that are too
// large or not a recognized image are rejected with a field-level error.
func NewProof(filename string, data []byte) (*Proof, error) {
	if len(data) == 0 {
		return nil, &ValidationError{Field: "receipt_file", Message: "bukti transfer belum diunggah"}
	}
	if len(data) > MaxProofBytes {
		return nil, &ValidationError{Field: "receipt_file", Message: "ukuran file maksimal 5MB"}
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, &ValidationError{Field: "receipt_file", Message: "file bukan gambar yang dikenali"}
	}
	return &Proof{
		Filename: filename,
		Data:     data,
		Preview: Preview{
			Format: format,
			Width:  cfg.Width,
			Height: cfg.Height,
		},
	}, nil
}

// Reader returns a fresh reader over the raw upload bytes for transmission.
func (p *Proof) Reader() io.Reader {
	return bytes.NewReader(p.Data)
}

// DataURI renders the image inline for the preview pane.
func (p *Proof) DataURI() string {
	return fmt.Sprintf("data:image/%s;base64,%s", p.Preview.Format, base64.StdEncoding.EncodeToString(p.Data))
}

// Package imagedata normalizes the image encodings accepted on the wire.
// Clients may send a self-describing data URI or bare base64; every pipeline
// stage works on decoded bytes plus a MIME type.
package imagedata

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

const (
	MIMEPNG  = "image/png"
	MIMEJPEG = "image/jpeg"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}

// ErrEmptyImage is returned when no image content was supplied.
var ErrEmptyImage = errors.New("no image data provided")

// Payload is decoded image content with its MIME type.
type Payload struct {
	Data []byte
	MIME string
}

// Decode accepts a data URI ("data:image/png;base64,...") or a bare base64
// string and returns the normalized payload. The MIME type is taken from the
// URI header when present, otherwise sniffed from the magic bytes.
func Decode(s string) (Payload, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Payload{}, ErrEmptyImage
	}

	mime := ""
	if strings.HasPrefix(s, "data:") {
		header, rest, ok := strings.Cut(s, ",")
		if !ok {
			return Payload{}, errors.New("malformed data URI")
		}
		mime = mimeFromHeader(header)
		s = rest
	}

	data, err := decodeBase64(s)
	if err != nil {
		return Payload{}, fmt.Errorf("invalid base64 image data: %w", err)
	}
	if len(data) == 0 {
		return Payload{}, ErrEmptyImage
	}

	if mime == "" {
		mime = SniffMIME(data)
	}

	return Payload{Data: data, MIME: mime}, nil
}

// DataURI re-encodes the payload as a self-describing data URI.
func (p Payload) DataURI() string {
	return "data:" + p.MIME + ";base64," + base64.StdEncoding.EncodeToString(p.Data)
}

// SniffMIME detects PNG by its magic prefix and defaults to JPEG otherwise.
func SniffMIME(data []byte) string {
	if bytes.HasPrefix(data, pngMagic) {
		return MIMEPNG
	}
	return MIMEJPEG
}

func mimeFromHeader(header string) string {
	// header looks like "data:image/png;base64"
	header = strings.TrimPrefix(header, "data:")
	mime, _, _ := strings.Cut(header, ";")
	mime = strings.TrimSpace(mime)
	if mime == "image/jpg" {
		mime = MIMEJPEG
	}
	return mime
}

func decodeBase64(s string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err == nil {
		return data, nil
	}
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
}

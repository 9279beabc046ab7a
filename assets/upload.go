package assets

import (
	"bytes"
	"io"
	"mime/multipart"
)

// Upload is a single file received from a client.
type Upload interface {
	Filename() string
	Open() (io.ReadCloser, error)
}

type fileHeaderUpload struct {
	fh *multipart.FileHeader
}

// FromFileHeader adapts a multipart file. It returns nil for a nil header so
// callers can pass the result straight to Store.
func FromFileHeader(fh *multipart.FileHeader) Upload {
	if fh == nil {
		return nil
	}
	return fileHeaderUpload{fh: fh}
}

func (u fileHeaderUpload) Filename() string { return u.fh.Filename }

func (u fileHeaderUpload) Open() (io.ReadCloser, error) { return u.fh.Open() }

type bytesUpload struct {
	name string
	data []byte
}

// NewBytesUpload wraps in-memory content, e.g. images fetched by a seeder.
func NewBytesUpload(name string, data []byte) Upload {
	return bytesUpload{name: name, data: data}
}

func (u bytesUpload) Filename() string { return u.name }

func (u bytesUpload) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(u.data)), nil
}

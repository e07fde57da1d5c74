package upload

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
)

// File is a report selected for analysis.
type File struct {
	Name      string
	MediaType string
	Data      []byte
}

func (f *File) Size() int64 {
	if f == nil {
		return 0
	}
	return int64(len(f.Data))
}

// ReadFile loads a report from disk, guessing the media type from the extension
// and falling back to content sniffing.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	name := filepath.Base(path)
	mediaType := mime.TypeByExtension(filepath.Ext(name))
	if mediaType == "" {
		mediaType = http.DetectContentType(data)
	}
	return &File{Name: name, MediaType: mediaType, Data: data}, nil
}

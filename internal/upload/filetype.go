package upload

import (
	"path/filepath"
	"strings"
)

// Kind is the logical analysis operation a file is routed to.
type Kind string

const (
	KindPDF   Kind = "pdf"
	KindImage Kind = "image"
)

const (
	mimePDF     = "application/pdf"
	imagePrefix = "image/"
)

var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

// Endpoint is the path on the analysis service for this kind.
func (k Kind) Endpoint() string {
	switch k {
	case KindPDF:
		return "/api/upload/pdf"
	case KindImage:
		return "/api/upload/image"
	default:
		return ""
	}
}

// FormField is the multipart field carrying the file bytes.
func (k Kind) FormField() string {
	return string(k)
}

// Classify picks the analysis kind from the declared media type or the file extension.
// PDF wins when both could match.
func Classify(name, mediaType string) (Kind, error) {
	mt := strings.ToLower(strings.TrimSpace(strings.Split(mediaType, ";")[0]))
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(name)))

	if mt == mimePDF || ext == ".pdf" {
		return KindPDF, nil
	}
	if strings.HasPrefix(mt, imagePrefix) {
		return KindImage, nil
	}
	if _, ok := imageExtensions[ext]; ok {
		return KindImage, nil
	}
	return "", &ValidationError{Reason: ReasonUnsupportedType, Message: MsgUnsupportedType}
}

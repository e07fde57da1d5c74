package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFSummary is what a local read of a PDF could learn before upload.
type PDFSummary struct {
	Pages     int
	TextChars int
}

// InspectPDF reads page count and text layer size.
// Scanned reports have pages but no text; the analysis service still accepts them.
func InspectPDF(ctx context.Context, data []byte) (summary PDFSummary, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("read pdf: %v", rec)
		}
	}()
	if err := ctx.Err(); err != nil {
		return PDFSummary{}, err
	}
	if len(data) == 0 {
		return PDFSummary{}, errors.New("empty pdf data")
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return PDFSummary{}, fmt.Errorf("open pdf: %w", err)
	}
	summary.Pages = reader.NumPage()

	plain, err := reader.GetPlainText()
	if err != nil {
		return summary, nil
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return summary, nil
	}
	summary.TextChars = len(strings.TrimSpace(buf.String()))
	return summary, nil
}

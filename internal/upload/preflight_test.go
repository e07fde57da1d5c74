package upload

import (
	"bytes"
	"context"
	"fmt"
	"testing"
)

// minimalPDF builds a text-less PDF with the given page count and a valid xref table.
func minimalPDF(pages int) []byte {
	kids := ""
	for i := 0; i < pages; i++ {
		kids += fmt.Sprintf("%d 0 R ", 4+i)
	}
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, pages),
		"<< /Length 0 >>\nstream\n\nendstream",
	}
	for i := 0; i < pages; i++ {
		objects = append(objects, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 3 0 R >>")
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func TestInspectPDFCountsPages(t *testing.T) {
	summary, err := InspectPDF(context.Background(), minimalPDF(2))
	if err != nil {
		t.Fatalf("InspectPDF: %v", err)
	}
	if summary.Pages != 2 {
		t.Fatalf("expected 2 pages, got %d", summary.Pages)
	}
	if summary.TextChars != 0 {
		t.Fatalf("expected no text layer, got %d chars", summary.TextChars)
	}
}

func TestInspectPDFRejectsGarbage(t *testing.T) {
	for _, data := range [][]byte{nil, []byte("definitely not a pdf")} {
		if _, err := InspectPDF(context.Background(), data); err == nil {
			t.Fatalf("expected error for %q", data)
		}
	}
}

func TestInspectPDFHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := InspectPDF(ctx, minimalPDF(1)); err == nil {
		t.Fatalf("expected context error")
	}
}

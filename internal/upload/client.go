package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"medreport/internal/shared/util"
)

const maxEnvelopeBytes = 16 << 20

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// Analyzer submits one file to the analysis service.
type Analyzer interface {
	Analyze(ctx context.Context, kind Kind, file *File) (Envelope, error)
}

// Client posts reports to the analysis service over multipart HTTP.
// Every call is a single attempt.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client for baseURL. A zero timeout disables the deadline.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("BACKEND_URL is required")
	}
	u, err := url.Parse(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("BACKEND_URL must be an http(s) URL: %q", baseURL)
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

func (c *Client) Analyze(ctx context.Context, kind Kind, file *File) (Envelope, error) {
	endpoint := kind.Endpoint()
	if endpoint == "" {
		return Envelope{}, fmt.Errorf("unknown report kind %q", kind)
	}
	op := "POST " + endpoint

	body, contentType, err := encodeMultipart(kind, file)
	if err != nil {
		return Envelope{}, &TransportError{Op: op, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, body)
	if err != nil {
		return Envelope{}, &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			err = fmt.Errorf("analysis request timeout: %w", err)
		}
		return Envelope{}, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxEnvelopeBytes))
	if err != nil {
		return Envelope{}, &TransportError{Op: op, StatusCode: resp.StatusCode, Err: err}
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, &TransportError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode envelope: %w", err)}
	}
	return env, nil
}

func encodeMultipart(kind Kind, file *File) (*bytes.Buffer, string, error) {
	name := util.UploadName(file.Name, "report")

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(kind.FormField()), quoteEscaper.Replace(name)))
	mediaType := file.MediaType
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	header.Set("Content-Type", mediaType)

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

var _ Analyzer = (*Client)(nil)

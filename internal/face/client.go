package face

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/charfaouimohammed/Atend-X/internal/errs"
)

const (
	defaultBaseURL = "http://localhost:8000"
	defaultModel   = "Facenet512"
)

// Embedder extracts a face embedding from raw image bytes. It is the only
// boundary to the external face-recognition capability; everything after the
// probe embedding is deterministic post-processing.
type Embedder interface {
	Represent(ctx context.Context, imageData []byte) ([]float64, error)
}

// Client talks to the face service over HTTP. The service accepts a
// multipart image upload on /represent and answers with the embedding
// vector for the (single) detected face.
type Client struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewClient creates a face service client.
func NewClient(baseURL, model string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = defaultModel
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

type representResponse struct {
	Dim       int       `json:"dim"`
	Embedding []float64 `json:"embedding"`
	Model     string    `json:"model"`
}

// Represent posts the image and returns the embedding vector. A 422 from the
// service (or an empty vector) means no face was detected and maps to
// errs.ErrNoFace so callers can report it as a 400 rather than a server error.
func (c *Client) Represent(ctx context.Context, imageData []byte) ([]float64, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", "image.jpg")
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(imageData); err != nil {
		return nil, fmt.Errorf("write image data: %w", err)
	}
	if err := writer.WriteField("model", c.model); err != nil {
		return nil, fmt.Errorf("write model field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/represent", &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("face service request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnprocessableEntity {
		return nil, errs.ErrNoFace
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("face service error (status %d): %s", resp.StatusCode, string(body))
	}

	var rr representResponse
	if err := json.Unmarshal(body, &rr); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(rr.Embedding) == 0 {
		return nil, errs.ErrNoFace
	}
	return rr.Embedding, nil
}

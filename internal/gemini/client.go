// Package gemini implements a minimal client for the Google generative
// image API (the generateContent REST endpoint).
//
// The client issues exactly one HTTP call per Generate invocation; model
// fallback, retries, and batching live in the generate package, which
// consumes this client through the Caller interface.
package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

	// maxResponseSize caps how much of a response body is read. Image
	// payloads are base64-inlined, so responses can be large but bounded.
	maxResponseSize = 50 * 1024 * 1024
)

// Caller is the narrow interface the orchestration layer depends on.
type Caller interface {
	Generate(ctx context.Context, model string, req *Request) (*Response, error)
}

// Request is the payload for one generateContent call. The same Request is
// reused unchanged across fallback candidates; only the model varies.
type Request struct {
	// Prompt is the composed prompt text.
	Prompt string

	// InlineImages are reference or input images sent alongside the prompt.
	InlineImages []InlineImage

	// Resolution is the requested output tier ("1K", "2K", "4K"). Only
	// models that understand imageSize receive it; see supportsImageSize.
	Resolution string

	// AspectRatio, when non-empty, is forwarded as imageConfig.aspectRatio.
	AspectRatio string

	// Seed, when non-nil, requests reproducible output.
	Seed *int64
}

// InlineImage is a base64-encoded image payload with its MIME type.
type InlineImage struct {
	MimeType string
	Data     string
}

// Response is the decoded image payload from a successful call.
type Response struct {
	// Data is the raw (decoded) image bytes.
	Data []byte

	// MimeType is the payload type reported by the API, e.g. "image/png".
	MimeType string
}

// Client talks to the generateContent endpoint over HTTP.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL. Used by tests to point the client
// at a local server.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// NewClient creates a Client authenticated with the given API key.
//
// Per-call timeouts are enforced by the caller's context, not here, so the
// orchestrator controls how long each fallback candidate may run.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Wire types for the generateContent request body.

type wireRequest struct {
	Contents         []wireContent `json:"contents"`
	GenerationConfig wireGenConfig `json:"generationConfig"`
}

type wireContent struct {
	Role  string     `json:"role"`
	Parts []wirePart `json:"parts"`
}

type wirePart struct {
	Text       string          `json:"text,omitempty"`
	InlineData *wireInlineData `json:"inlineData,omitempty"`
}

type wireInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type wireGenConfig struct {
	ResponseModalities []string         `json:"responseModalities"`
	ImageConfig        *wireImageConfig `json:"imageConfig,omitempty"`
	Seed               *int64           `json:"seed,omitempty"`
}

type wireImageConfig struct {
	AspectRatio string `json:"aspectRatio,omitempty"`
	ImageSize   string `json:"imageSize,omitempty"`
}

// Wire types for the response body.

type wireResponse struct {
	Candidates []wireCandidate `json:"candidates"`
	Error      *wireError      `json:"error,omitempty"`
}

type wireCandidate struct {
	Content struct {
		Parts []wireRespPart `json:"parts"`
	} `json:"content"`
}

type wireRespPart struct {
	Text       string          `json:"text,omitempty"`
	InlineData *wireInlineData `json:"inlineData,omitempty"`
}

type wireError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Generate issues one generateContent call against the given model and
// returns the first image payload found in the response.
//
// Failures are returned as *APIError where the server produced a status, so
// the orchestrator can classify them; transport-level failures come back as
// wrapped net/http errors.
func (c *Client) Generate(ctx context.Context, model string, req *Request) (*Response, error) {
	body, err := json.Marshal(c.buildBody(model, req))
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent", c.baseURL, model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call model %s: %w", model, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, parseAPIError(httpResp.StatusCode, respBody)
	}

	var resp wireResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if resp.Error != nil {
		return nil, &APIError{
			StatusCode: resp.Error.Code,
			Status:     resp.Error.Status,
			Message:    resp.Error.Message,
		}
	}

	return extractImage(&resp)
}

// buildBody assembles the wire request for one candidate model.
func (c *Client) buildBody(model string, req *Request) *wireRequest {
	parts := []wirePart{{Text: req.Prompt}}
	for _, img := range req.InlineImages {
		parts = append(parts, wirePart{
			InlineData: &wireInlineData{MimeType: img.MimeType, Data: img.Data},
		})
	}

	genCfg := wireGenConfig{
		ResponseModalities: []string{"Image"},
		Seed:               req.Seed,
	}

	imgCfg := &wireImageConfig{}
	if req.AspectRatio != "" {
		imgCfg.AspectRatio = req.AspectRatio
	}
	if req.Resolution != "" && supportsImageSize(model) {
		imgCfg.ImageSize = req.Resolution
	}
	if imgCfg.AspectRatio != "" || imgCfg.ImageSize != "" {
		genCfg.ImageConfig = imgCfg
	}

	return &wireRequest{
		Contents:         []wireContent{{Role: "user", Parts: parts}},
		GenerationConfig: genCfg,
	}
}

// supportsImageSize reports whether a model accepts the imageSize config
// field. Only the gemini-3 image models understand it; older models reject
// requests that carry it.
func supportsImageSize(model string) bool {
	return len(model) >= 8 && model[:8] == "gemini-3"
}

// base64Pattern matches strings consisting only of base64 alphabet
// characters with optional trailing padding.
var base64Pattern = regexp.MustCompile(`^[A-Za-z0-9+/]*={0,2}$`)

// minBase64TextLen is the minimum length for a text part to be considered
// an image payload rather than commentary.
const minBase64TextLen = 1000

// extractImage finds the first usable image payload in a 200 response.
//
// Normally the payload arrives as an inlineData part. Some model versions
// have been observed returning the base64 bytes in a text part instead, so
// long base64-looking text parts are accepted as a fallback.
func extractImage(resp *wireResponse) (*Response, error) {
	for _, cand := range resp.Candidates {
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && part.InlineData.Data != "" {
				data, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
				if err != nil {
					continue
				}
				mime := part.InlineData.MimeType
				if mime == "" {
					mime = "image/jpeg"
				}
				return &Response{Data: data, MimeType: mime}, nil
			}
			if len(part.Text) > minBase64TextLen && base64Pattern.MatchString(part.Text) {
				data, err := base64.StdEncoding.DecodeString(part.Text)
				if err != nil {
					continue
				}
				return &Response{Data: data, MimeType: "image/jpeg"}, nil
			}
		}
	}
	return nil, ErrNoImage
}

// parseAPIError builds an APIError from a non-200 response body, falling
// back to the raw body when it is not the standard error envelope.
func parseAPIError(statusCode int, body []byte) *APIError {
	var envelope struct {
		Error wireError `json:"error"`
	}
	apiErr := &APIError{StatusCode: statusCode}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		apiErr.Status = envelope.Error.Status
		apiErr.Message = envelope.Error.Message
	} else {
		apiErr.Message = string(body)
	}
	return apiErr
}

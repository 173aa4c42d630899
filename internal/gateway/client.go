// Package gateway is the single choke point for calls to the generation service.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/capitalize-ai/question-studio/internal/model"
	"github.com/capitalize-ai/question-studio/pkg/logger"
	"github.com/capitalize-ai/question-studio/pkg/metrics"
	"github.com/capitalize-ai/question-studio/pkg/tracing"
)

const (
	// DefaultFallback is shown when a failure carries no usable message.
	DefaultFallback = "An unexpected error occurred"
	// DocumentFallback is shown when a document upload fails without a usable message.
	DocumentFallback = "Failed to process PDF"

	maxResponseBytes = 16 << 20
)

// Operation names used in errors, logs and metrics.
const (
	OpGenerateFromText     = "generate_from_text"
	OpGenerateFromDocument = "generate_from_document"
	OpGenerateSimilar      = "generate_similar"
	OpRefine               = "refine"
)

// Client calls the generation service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
	tracer     trace.Tracer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a gateway client for the service rooted at baseURL.
func New(baseURL string, timeout time.Duration, log *logger.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     log.Named("gateway"),
		tracer:     tracing.Tracer("question-studio/gateway"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GenerateFromText generates a batch of questions from free text.
func (c *Client) GenerateFromText(ctx context.Context, req model.GenerateFromTextRequest) (*model.GenerateResponse, error) {
	var resp model.GenerateResponse
	if err := c.postJSON(ctx, OpGenerateFromText, "/generate/from-text", req, DefaultFallback, &resp); err != nil {
		return nil, err
	}
	resp.Questions = c.sanitizeQuestions(OpGenerateFromText, resp.Questions)
	return &resp, nil
}

// GenerateFromDocument uploads a document as multipart form data and
// generates questions from it.
func (c *Client) GenerateFromDocument(ctx context.Context, filename string, file io.Reader, opts model.GenerateOptions) (*model.GenerateResponse, error) {
	body, contentType, err := documentForm(filename, file, opts)
	if err != nil {
		return nil, c.fail(OpGenerateFromDocument, KindTransport, 0, DocumentFallback, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate/from-pdf", body)
	if err != nil {
		return nil, c.fail(OpGenerateFromDocument, KindTransport, 0, DocumentFallback, err)
	}
	httpReq.Header.Set("Content-Type", contentType)

	var resp model.GenerateResponse
	if err := c.do(ctx, OpGenerateFromDocument, httpReq, DocumentFallback, &resp); err != nil {
		return nil, err
	}
	resp.Questions = c.sanitizeQuestions(OpGenerateFromDocument, resp.Questions)
	return &resp, nil
}

// GenerateSimilar generates variations of an existing question.
func (c *Client) GenerateSimilar(ctx context.Context, req model.SimilarRequest) (*model.SimilarResponse, error) {
	var resp model.SimilarResponse
	if err := c.postJSON(ctx, OpGenerateSimilar, "/similar/generate", req, DefaultFallback, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Refine applies one instruction to a question snapshot.
func (c *Client) Refine(ctx context.Context, req model.RefineRequest) (*model.RefineResponse, error) {
	var resp model.RefineResponse
	if err := c.postJSON(ctx, OpRefine, "/refine/refine", req, DefaultFallback, &resp); err != nil {
		return nil, err
	}
	// The refined question is the same question; the service may omit its id.
	if resp.RefinedQuestion.ID == "" {
		resp.RefinedQuestion.ID = req.QuestionState.ID
	}
	if resp.RefinedQuestion.ClampConfidence() {
		c.logger.Warn("clamped refined question confidence", zap.String("question_id", resp.RefinedQuestion.ID))
	}
	if err := resp.RefinedQuestion.Validate(); err != nil {
		return nil, c.fail(OpRefine, KindDecode, 0, DefaultFallback, err)
	}
	return &resp, nil
}

func (c *Client) postJSON(ctx context.Context, op, path string, payload any, fallback string, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return c.fail(op, KindTransport, 0, fallback, fmt.Errorf("failed to marshal request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return c.fail(op, KindTransport, 0, fallback, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	return c.do(ctx, op, httpReq, fallback, out)
}

// do sends the request and decodes a 2xx body into out. Every failure comes
// back as *Error.
func (c *Client) do(ctx context.Context, op string, httpReq *http.Request, fallback string, out any) (err error) {
	start := time.Now()
	ctx, span := c.tracer.Start(ctx, "gateway."+op, trace.WithAttributes(
		attribute.String("http.url", httpReq.URL.String()),
	))
	defer func() {
		outcome := "success"
		if err != nil {
			outcome = "error"
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		metrics.RecordGatewayCall(op, outcome, time.Since(start).Seconds())
	}()

	httpReq.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(httpReq.WithContext(ctx))
	if err != nil {
		return c.fail(op, KindTransport, 0, fallback, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return c.fail(op, KindTransport, resp.StatusCode, fallback, fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr, ok := DecodeAPIError(body)
		if !ok {
			return c.fail(op, KindTransport, resp.StatusCode, fallback, fmt.Errorf("unparseable error body (status %d)", resp.StatusCode))
		}
		kind := KindDomain
		if _, isValidation := apiErr.(ValidationError); isValidation {
			kind = KindValidation
		}
		message := Render(apiErr)
		if message == "" {
			message = fallback
		}
		return c.fail(op, kind, resp.StatusCode, message, nil)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return c.fail(op, KindDecode, resp.StatusCode, fallback, fmt.Errorf("failed to decode response: %w", err))
	}
	return nil
}

func (c *Client) fail(op string, kind Kind, status int, message string, cause error) *Error {
	metrics.RecordGatewayError(op, string(kind))
	c.logger.Warn("generation service call failed",
		zap.String("operation", op),
		zap.String("kind", string(kind)),
		zap.Int("status", status),
		zap.String("message", message),
		zap.Error(cause),
	)
	return &Error{
		Op:         op,
		Kind:       kind,
		StatusCode: status,
		Message:    message,
		Err:        cause,
	}
}

func documentForm(filename string, file io.Reader, opts model.GenerateOptions) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, "", fmt.Errorf("failed to read document: %w", err)
	}

	fields := map[string]string{}
	if opts.NumQuestions > 0 {
		fields["num_questions"] = strconv.Itoa(opts.NumQuestions)
	}
	if len(opts.QuestionTypes) > 0 {
		types := make([]string, len(opts.QuestionTypes))
		for i, t := range opts.QuestionTypes {
			types[i] = string(t)
		}
		fields["question_types"] = strings.Join(types, ",")
	}
	if opts.Difficulty != "" {
		fields["difficulty"] = string(opts.Difficulty)
	}
	if opts.TopicFocus != "" {
		fields["topic_focus"] = opts.TopicFocus
	}
	for _, key := range []string{"num_questions", "question_types", "difficulty", "topic_focus"} {
		if value, ok := fields[key]; ok {
			if err := w.WriteField(key, value); err != nil {
				return nil, "", fmt.Errorf("failed to write form field %s: %w", key, err)
			}
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

// sanitizeQuestions clamps confidence scores into [0,1] and drops questions
// that are structurally invalid or repeat an earlier id. One bad question
// never costs the rest of the batch.
func (c *Client) sanitizeQuestions(op string, questions []model.Question) []model.Question {
	if questions == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(questions))
	out := make([]model.Question, 0, len(questions))
	for _, q := range questions {
		if q.ClampConfidence() {
			c.logger.Warn("clamped question confidence", zap.String("operation", op), zap.String("question_id", q.ID))
		}
		if err := q.Validate(); err != nil {
			c.logger.Warn("dropping invalid question", zap.String("operation", op), zap.Error(err))
			continue
		}
		if _, dup := seen[q.ID]; dup {
			c.logger.Warn("dropping duplicate question", zap.String("operation", op), zap.String("question_id", q.ID))
			continue
		}
		seen[q.ID] = struct{}{}
		out = append(out, q)
	}
	return out
}

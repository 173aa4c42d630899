package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Kind classifies a normalized failure.
type Kind string

const (
	KindTransport  Kind = "transport"
	KindValidation Kind = "validation"
	KindDomain     Kind = "domain"
	KindDecode     Kind = "decode"
)

// Error is the single failure type returned by the gateway. Message is always
// safe to show to the user.
type Error struct {
	Op         string
	Kind       Kind
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// APIError is the decoded shape of a service error body: either a
// SimpleError or a ValidationError.
type APIError interface {
	apiError()
}

// SimpleError is a `{"detail": "..."}` body.
type SimpleError struct {
	Message string
}

// ValidationError is a `{"detail": [issue, ...]}` body.
type ValidationError struct {
	Issues []ValidationIssue
}

func (SimpleError) apiError()     {}
func (ValidationError) apiError() {}

// ValidationIssue is one field-level problem reported by the service.
type ValidationIssue struct {
	Loc  []any     `json:"loc"`
	Type string    `json:"type"`
	Msg  string    `json:"msg"`
	Ctx  *IssueCtx `json:"ctx,omitempty"`
}

// IssueCtx carries the constraint parameters of an issue.
type IssueCtx struct {
	MinLength *int `json:"min_length,omitempty"`
	MaxLength *int `json:"max_length,omitempty"`
	GE        any  `json:"ge,omitempty"`
	LE        any  `json:"le,omitempty"`
	Expected  any  `json:"expected,omitempty"`
}

var fieldLabels = map[string]string{
	"question_text":  "Question text",
	"content":        "Content",
	"num_questions":  "Number of questions",
	"question_types": "Question types",
	"difficulty":     "Difficulty",
	"topic_focus":    "Topic focus",
	"instruction":    "Instruction",
	"file":           "File",
	"options":        "Options",
	"num_similar":    "Number of similar questions",
}

// DecodeAPIError parses an error body. It returns false when the body has
// neither recognized shape.
func DecodeAPIError(body []byte) (APIError, bool) {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return nil, false
	}

	detail := bytes.TrimSpace(envelope.Detail)
	switch {
	case len(detail) > 0 && detail[0] == '"':
		var msg string
		if err := json.Unmarshal(detail, &msg); err != nil {
			return nil, false
		}
		return SimpleError{Message: msg}, true
	case len(detail) > 0 && detail[0] == '[':
		var issues []ValidationIssue
		if err := json.Unmarshal(detail, &issues); err != nil {
			return nil, false
		}
		return ValidationError{Issues: issues}, true
	}
	return nil, false
}

// Render turns a decoded error into one user-facing message.
func Render(apiErr APIError) string {
	switch e := apiErr.(type) {
	case SimpleError:
		return e.Message
	case ValidationError:
		return RenderIssues(e.Issues)
	}
	return ""
}

// RenderIssues joins every issue into a single sentence list.
func RenderIssues(issues []ValidationIssue) string {
	if len(issues) == 0 {
		return "Validation failed"
	}
	msgs := make([]string, len(issues))
	for i, issue := range issues {
		msgs[i] = renderIssue(issue)
	}
	return strings.Join(msgs, ". ")
}

func renderIssue(issue ValidationIssue) string {
	label := fieldLabel(issue.Loc)
	ctx := issue.Ctx
	if ctx == nil {
		ctx = &IssueCtx{}
	}

	switch issue.Type {
	case "string_too_short":
		return fmt.Sprintf("%s must be at least %s characters", label, intOrBlank(ctx.MinLength))
	case "string_too_long":
		return fmt.Sprintf("%s must be at most %s characters", label, intOrBlank(ctx.MaxLength))
	case "value_error", "missing":
		return label + " is required"
	case "int_parsing", "int_type":
		return label + " must be a number"
	case "greater_than_equal":
		return fmt.Sprintf("%s must be at least %s", label, boundString(ctx.GE))
	case "less_than_equal":
		return fmt.Sprintf("%s must be at most %s", label, boundString(ctx.LE))
	case "enum":
		return fmt.Sprintf("%s must be one of: %s", label, expectedList(ctx.Expected))
	default:
		return fmt.Sprintf("%s: %s", label, issue.Msg)
	}
}

func fieldLabel(loc []any) string {
	name := "field"
	for i := len(loc) - 1; i >= 0; i-- {
		seg := fmt.Sprint(loc[i])
		if seg == "body" {
			continue
		}
		name = seg
		break
	}
	if label, ok := fieldLabels[name]; ok {
		return label
	}
	return strings.ReplaceAll(name, "_", " ")
}

func intOrBlank(v *int) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(*v)
}

// boundString renders a ge/le bound. Bounds are usually numbers but may be
// strings, e.g. dates.
func boundString(v any) string {
	switch b := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(b, 'f', -1, 64)
	case string:
		return b
	default:
		return fmt.Sprint(b)
	}
}

// expectedList accepts both a list of values and the service's pre-joined
// "'a', 'b' or 'c'" string.
func expectedList(expected any) string {
	switch v := expected.(type) {
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = fmt.Sprint(item)
		}
		return strings.Join(parts, ", ")
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

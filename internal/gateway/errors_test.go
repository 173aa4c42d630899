package gateway

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderIssues(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{
			name: "greater than equal with label",
			body: `{"detail":[{"loc":["body","num_questions"],"type":"greater_than_equal","msg":"Input should be greater than or equal to 1","ctx":{"ge":1}}]}`,
			want: "Number of questions must be at least 1",
		},
		{
			name: "less than equal",
			body: `{"detail":[{"loc":["body","num_similar"],"type":"less_than_equal","msg":"too big","ctx":{"le":10}}]}`,
			want: "Number of similar questions must be at most 10",
		},
		{
			name: "large bound is not in exponent form",
			body: `{"detail":[{"loc":["body","content"],"type":"less_than_equal","msg":"too big","ctx":{"le":1000000}}]}`,
			want: "Content must be at most 1000000",
		},
		{
			name: "fractional bound",
			body: `{"detail":[{"loc":["body","confidence_score"],"type":"greater_than_equal","msg":"x","ctx":{"ge":0.5}}]}`,
			want: "confidence score must be at least 0.5",
		},
		{
			name: "non numeric bound keeps other issues",
			body: `{"detail":[{"loc":["body","due_date"],"type":"greater_than_equal","msg":"x","ctx":{"ge":"2024-01-01"}},{"loc":["body","num_questions"],"type":"int_parsing","msg":"bad int"}]}`,
			want: "due date must be at least 2024-01-01. Number of questions must be a number",
		},
		{
			name: "string too short",
			body: `{"detail":[{"loc":["body","content"],"type":"string_too_short","msg":"short","ctx":{"min_length":50}}]}`,
			want: "Content must be at least 50 characters",
		},
		{
			name: "string too long",
			body: `{"detail":[{"loc":["body","instruction"],"type":"string_too_long","msg":"long","ctx":{"max_length":2000}}]}`,
			want: "Instruction must be at most 2000 characters",
		},
		{
			name: "missing and int parsing joined",
			body: `{"detail":[{"loc":["body","question_text"],"type":"missing","msg":"Field required"},{"loc":["body","num_questions"],"type":"int_parsing","msg":"bad int"}]}`,
			want: "Question text is required. Number of questions must be a number",
		},
		{
			name: "enum list",
			body: `{"detail":[{"loc":["body","difficulty"],"type":"enum","msg":"bad","ctx":{"expected":["easy","medium","hard"]}}]}`,
			want: "Difficulty must be one of: easy, medium, hard",
		},
		{
			name: "unknown field falls back to spaced name",
			body: `{"detail":[{"loc":["body","question_state","correct_answer"],"type":"value_error","msg":"bad"}]}`,
			want: "correct answer is required",
		},
		{
			name: "unknown type uses raw message",
			body: `{"detail":[{"loc":["query","page_size"],"type":"weird","msg":"nope"}]}`,
			want: "page size: nope",
		},
		{
			name: "location of only body",
			body: `{"detail":[{"loc":["body"],"type":"json_invalid","msg":"JSON decode error"}]}`,
			want: "field: JSON decode error",
		},
		{
			name: "empty issue list",
			body: `{"detail":[]}`,
			want: "Validation failed",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			apiErr, ok := DecodeAPIError([]byte(tc.body))
			require.True(t, ok)
			require.IsType(t, ValidationError{}, apiErr)
			require.Equal(t, tc.want, Render(apiErr))
		})
	}
}

func TestDecodeSimpleError(t *testing.T) {
	apiErr, ok := DecodeAPIError([]byte(`{"detail":"rate limited"}`))
	require.True(t, ok)
	require.Equal(t, SimpleError{Message: "rate limited"}, apiErr)
	require.Equal(t, "rate limited", Render(apiErr))
}

func TestDecodeUnrecognizedBodies(t *testing.T) {
	for _, body := range []string{
		``,
		`<html>bad gateway</html>`,
		`{"error":"something"}`,
		`{"detail":{"nested":true}}`,
		`{"detail":null}`,
	} {
		_, ok := DecodeAPIError([]byte(body))
		require.False(t, ok, body)
	}
}

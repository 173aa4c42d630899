package middleware

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const (
	maxContentLength     = 100000
	maxInstructionLength = 2000
	maxFilenameLength    = 255
)

// ValidateContent validates source text submitted for generation. Length
// minimums are enforced by the generation service.
func ValidateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return errors.New("content cannot be empty")
	}
	if len(content) > maxContentLength {
		return errors.New("content exceeds maximum length")
	}
	if !utf8.ValidString(content) {
		return errors.New("content must be valid UTF-8")
	}
	return nil
}

// ValidateInstruction validates a refinement instruction.
func ValidateInstruction(instruction string) error {
	if strings.TrimSpace(instruction) == "" {
		return errors.New("instruction cannot be empty")
	}
	if len(instruction) > maxInstructionLength {
		return errors.New("instruction exceeds maximum length")
	}
	if !utf8.ValidString(instruction) {
		return errors.New("instruction must be valid UTF-8")
	}
	return nil
}

// ValidateFilename validates an uploaded document name.
func ValidateFilename(name string) error {
	if len(name) > maxFilenameLength {
		return errors.New("filename exceeds maximum length")
	}
	if !strings.HasSuffix(strings.ToLower(name), ".pdf") {
		return errors.New("only PDF documents are supported")
	}
	return nil
}

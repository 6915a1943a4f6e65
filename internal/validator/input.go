// Package validator checks user prompts before they are sent to the agent
// service. The service bills and rate-limits per message, so obviously bad
// input is rejected locally.
package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// spaceRegexp is compiled once at package init and reused across all Sanitize calls.
var spaceRegexp = regexp.MustCompile(`\s+`)

type PromptValidator struct {
	maxLength int
}

func NewPromptValidator() *PromptValidator {
	return &PromptValidator{
		maxLength: 4000,
	}
}

func (v *PromptValidator) Validate(prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return errors.New("prompt is empty")
	}

	if len(prompt) > v.maxLength {
		return fmt.Errorf("prompt too long: maximum %d characters", v.maxLength)
	}

	if !utf8.ValidString(prompt) {
		return errors.New("invalid UTF-8 encoding")
	}

	return nil
}

func (v *PromptValidator) Sanitize(prompt string) string {
	prompt = strings.TrimSpace(prompt)
	prompt = spaceRegexp.ReplaceAllString(prompt, " ")
	return prompt
}

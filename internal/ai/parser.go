package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Pre-compiled patterns; compiling per parse is much slower.
var (
	codeFenceRegex     = regexp.MustCompile("(?s)`{3}(?:json|javascript|js)?\\s*\\n?([\\s\\S]*?)\\n?`{3}")
	trailingCommaRegex = regexp.MustCompile(`,(\s*[}\]])`)
	lineCommentRegex   = regexp.MustCompile(`(?m)//.*$`)
	blockCommentRegex  = regexp.MustCompile(`(?s)/\*.*?\*/`)
	objectRegex        = regexp.MustCompile(`(?s)\{[\s\S]*\}`)
	arrayRegex         = regexp.MustCompile(`(?s)\[[\s\S]*\]`)
)

// ParseResult is the outcome of parsing a model response as JSON
type ParseResult[T any] struct {
	Success      bool
	Data         T
	Error        string
	OriginalText string
}

// Parse attempts to parse a model response as JSON with fallback
// strategies for the usual LLM formatting quirks: code fences, trailing
// commas, comments, and prose wrapped around the payload.
//
// Strategy sequence:
//  1. Direct JSON parse
//  2. Strip code fences and retry
//  3. Fix trailing commas / comments and retry
//  4. Extract the first JSON object or array from mixed content and retry
func Parse[T any](text string) ParseResult[T] {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return parseError[T]("empty input", text)
	}

	if data, err := tryParse[T](trimmed); err == nil {
		return ParseResult[T]{Success: true, Data: data, OriginalText: text}
	}

	withoutFences := removeCodeFences(trimmed)
	if withoutFences != trimmed {
		if data, err := tryParse[T](withoutFences); err == nil {
			return ParseResult[T]{Success: true, Data: data, OriginalText: text}
		}
	}

	cleaned := cleanupJSON(withoutFences)
	if data, err := tryParse[T](cleaned); err == nil {
		return ParseResult[T]{Success: true, Data: data, OriginalText: text}
	}

	if extracted := extractJSON(cleaned); extracted != "" {
		if data, err := tryParse[T](extracted); err == nil {
			return ParseResult[T]{Success: true, Data: data, OriginalText: text}
		}
	}

	return parseError[T]("all JSON parsing strategies failed", text)
}

func tryParse[T any](text string) (T, error) {
	var data T
	err := json.Unmarshal([]byte(text), &data)
	return data, err
}

func parseError[T any](msg, text string) ParseResult[T] {
	return ParseResult[T]{
		Success:      false,
		Error:        msg,
		OriginalText: text,
	}
}

// removeCodeFences strips markdown code fences around the payload
func removeCodeFences(text string) string {
	match := codeFenceRegex.FindStringSubmatch(text)
	if len(match) == 2 {
		return strings.TrimSpace(match[1])
	}
	return text
}

// cleanupJSON fixes trailing commas and strips comments
func cleanupJSON(text string) string {
	text = blockCommentRegex.ReplaceAllString(text, "")
	text = lineCommentRegex.ReplaceAllString(text, "")
	text = trailingCommaRegex.ReplaceAllString(text, "$1")
	return strings.TrimSpace(text)
}

// extractJSON pulls the first JSON object or array out of surrounding prose
func extractJSON(text string) string {
	// Prefer whichever structure starts first
	objIdx := strings.Index(text, "{")
	arrIdx := strings.Index(text, "[")

	if objIdx >= 0 && (arrIdx < 0 || objIdx < arrIdx) {
		return objectRegex.FindString(text)
	}
	if arrIdx >= 0 {
		return arrayRegex.FindString(text)
	}
	return ""
}

// truncateString shortens model output for error messages and logs
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return fmt.Sprintf("%s... (%d bytes total)", s[:maxLen], len(s))
}

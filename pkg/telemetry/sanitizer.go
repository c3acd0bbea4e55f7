package telemetry

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// PIILevel defines how much of a user's conversation text may reach the logs.
type PIILevel string

const (
	// PIILevelNone redacts all conversation text
	PIILevelNone PIILevel = "none"
	// PIILevelHashed keeps the text but hashes detected PII
	PIILevelHashed PIILevel = "hashed"
	// PIILevelFull logs text verbatim
	PIILevelFull PIILevel = "full"
)

// ParsePIILevel maps a config string to a PIILevel, defaulting to hashed.
func ParsePIILevel(s string) PIILevel {
	switch PIILevel(strings.ToLower(strings.TrimSpace(s))) {
	case PIILevelNone:
		return PIILevelNone
	case PIILevelFull:
		return PIILevelFull
	default:
		return PIILevelHashed
	}
}

// Sanitizer scrubs transcripts, prompts and replies before they are logged.
type Sanitizer struct {
	level PIILevel
	salt  string

	emailPattern      *regexp.Regexp
	phonePattern      *regexp.Regexp
	creditCardPattern *regexp.Regexp
	addressPattern    *regexp.Regexp
}

// NewSanitizer creates a sanitizer. The salt keeps hashes stable within one
// deployment without making them comparable across deployments.
func NewSanitizer(level PIILevel, salt string) *Sanitizer {
	return &Sanitizer{
		level:             level,
		salt:              salt,
		emailPattern:      regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`),
		phonePattern:      regexp.MustCompile(`\b\d{3}[-.\s]?\d{3}[-.\s]?\d{4}\b`),
		creditCardPattern: regexp.MustCompile(`\b\d{4}[- ]?\d{4}[- ]?\d{4}[- ]?\d{4}\b`),
		addressPattern:    regexp.MustCompile(`(?i)\b\d{1,5}\s+[a-z0-9 .]+\s(street|st|avenue|ave|road|rd|drive|dr|lane|ln)\b`),
	}
}

// Level returns the configured level.
func (s *Sanitizer) Level() PIILevel {
	return s.level
}

// Text sanitizes a single piece of conversation text.
func (s *Sanitizer) Text(input string) string {
	if s == nil {
		return input
	}
	switch s.level {
	case PIILevelNone:
		return "[REDACTED]"
	case PIILevelFull:
		return input
	default:
		return s.hashPII(input)
	}
}

// Preview sanitizes input and truncates it to at most max runes.
func (s *Sanitizer) Preview(input string, max int) string {
	out := s.Text(input)
	if max <= 0 || utf8.RuneCountInString(out) <= max {
		return out
	}
	runes := []rune(out)
	return string(runes[:max]) + "..."
}

// SessionID hashes a conversation session id unless the level is full.
func (s *Sanitizer) SessionID(id string) string {
	if s == nil || id == "" || s.level == PIILevelFull {
		return id
	}
	return s.hash(id)
}

func (s *Sanitizer) hashPII(input string) string {
	result := s.emailPattern.ReplaceAllStringFunc(input, func(match string) string {
		return fmt.Sprintf("[EMAIL:%s]", s.hash(match))
	})
	result = s.creditCardPattern.ReplaceAllString(result, "[CC:REDACTED]")
	result = s.phonePattern.ReplaceAllStringFunc(result, func(match string) string {
		return fmt.Sprintf("[PHONE:%s]", s.hash(match))
	})
	result = s.addressPattern.ReplaceAllString(result, "[ADDRESS:REDACTED]")
	return result
}

// hash returns the first 8 hex chars of a salted SHA-256.
func (s *Sanitizer) hash(data string) string {
	h := sha256.New()
	h.Write([]byte(data + s.salt))
	return hex.EncodeToString(h.Sum(nil))[:8]
}

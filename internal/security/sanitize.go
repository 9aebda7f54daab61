// Package security provides input sanitization for lead fields. Sanitizers
// reduce untrusted input to a known-safe form or to the empty string; they
// never error, so callers can treat an empty result as a validation failure.
package security

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Field length limits.
const (
	MinNameLength = 2
	MaxNameLength = 100
)

var (
	htmlTagPattern    = regexp.MustCompile(`<[^>]*>`)
	jsURIPattern      = regexp.MustCompile(`(?i)javascript:`)
	vbsURIPattern     = regexp.MustCompile(`(?i)vbscript:`)
	dataHTMLPattern   = regexp.MustCompile(`(?i)data:text/html`)
	eventAttrPattern  = regexp.MustCompile(`(?i)on\w+\s*=`)
	whitespacePattern = regexp.MustCompile(`\s+`)
	nonDigitPattern   = regexp.MustCompile(`\D`)

	// Hebrew block plus Latin letters, spaces, hyphens, apostrophes.
	namePattern = regexp.MustCompile(`^[\x{0590}-\x{05FF}a-zA-Z\s'-]+$`)

	dangerousPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)<script`),
		regexp.MustCompile(`(?i)<iframe`),
		regexp.MustCompile(`(?i)<object`),
		regexp.MustCompile(`(?i)<embed`),
		jsURIPattern,
		vbsURIPattern,
		dataHTMLPattern,
		eventAttrPattern,
	}

	entityReplacer = strings.NewReplacer(
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#x27;", "'",
		"&#x2F;", "/",
		"&#x60;", "`",
		"&#x3D;", "=",
		"&amp;", "&",
	)

	validate = validator.New()
)

// SanitizeString strips HTML tags and script-carrying patterns from a free-text
// field, then trims and collapses whitespace. Entities are decoded first so
// encoded payloads cannot survive the tag strip.
func SanitizeString(input string) string {
	decoded := entityReplacer.Replace(input)

	sanitized := htmlTagPattern.ReplaceAllString(decoded, "")
	sanitized = jsURIPattern.ReplaceAllString(sanitized, "")
	sanitized = eventAttrPattern.ReplaceAllString(sanitized, "")
	sanitized = dataHTMLPattern.ReplaceAllString(sanitized, "")
	sanitized = vbsURIPattern.ReplaceAllString(sanitized, "")

	return whitespacePattern.ReplaceAllString(strings.TrimSpace(sanitized), " ")
}

// SanitizeName validates and sanitizes a contact name. Returns "" when the
// sanitized value is too short, too long, or contains characters outside the
// Hebrew/Latin letter set (plus spaces, hyphens, apostrophes).
func SanitizeName(name string) string {
	sanitized := SanitizeString(name)

	length := utf8.RuneCountInString(sanitized)
	if length < MinNameLength || length > MaxNameLength {
		return ""
	}

	if !namePattern.MatchString(sanitized) {
		return ""
	}

	return sanitized
}

// SanitizePhone normalizes an Israeli mobile number. All non-digit characters
// are stripped; the result must be exactly 10 digits starting with "05",
// otherwise "" is returned.
func SanitizePhone(phone string) string {
	digitsOnly := nonDigitPattern.ReplaceAllString(phone, "")

	if len(digitsOnly) == 10 && strings.HasPrefix(digitsOnly, "05") {
		return digitsOnly
	}

	return ""
}

// SanitizeEmail lowercases and trims an email address. An address that fails
// format validation collapses to "" rather than erroring, since email is an
// optional lead field.
func SanitizeEmail(email string) string {
	trimmed := strings.ToLower(strings.TrimSpace(email))
	if trimmed == "" {
		return ""
	}

	if err := validate.Var(trimmed, "email"); err != nil {
		return ""
	}

	return trimmed
}

// ContainsDangerousContent reports whether the input carries common XSS
// payloads. Used for logging suspicious submissions; rejection is handled by
// the per-field sanitizers.
func ContainsDangerousContent(input string) bool {
	for _, pattern := range dangerousPatterns {
		if pattern.MatchString(input) {
			return true
		}
	}
	return false
}

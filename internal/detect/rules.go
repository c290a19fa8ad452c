package detect

import (
	"regexp"
	"strings"

	"github.com/Anas09876/FinDeIdentify/internal/document"
)

// Detector rule names.
const (
	RuleAadhaar = "aadhaar"
	RulePAN     = "pan"
	RulePhone   = "phone"
)

var (
	// Aadhaar number: exactly 12 digits, optionally grouped 4-4-4 with
	// spaces or hyphens, word-boundary delimited.
	aadhaarPattern = regexp.MustCompile(`\b\d{4}[ -]?\d{4}[ -]?\d{4}\b`)

	// PAN number: 5 letters, 4 digits, 1 letter, contiguous.
	panPattern = regexp.MustCompile(`\b[A-Z]{5}\d{4}[A-Z]\b`)

	// Phone number: optional +91/91 country-code prefix, then a 10-digit
	// run or a 5-5 grouping. Word boundaries are enforced separately
	// because RE2's \b cannot sit between a non-word prefix like "+" and
	// the surrounding text.
	phonePattern = regexp.MustCompile(`(\+?91[ -]?)?(\d{5}[ -]?\d{5}|\d{10})`)

	digitsOnly = regexp.MustCompile(`\d`)
)

// maskAadhaar keeps the last 4 digits and renders the canonical three-block
// display form regardless of how the input was grouped.
func maskAadhaar(match string) string {
	digits := digitsOnly.FindAllString(match, -1)
	lastFour := strings.Join(digits[len(digits)-4:], "")
	return "XXXX XXXX " + lastFour
}

// maskPAN keeps the last 4 characters and masks the leading 5 uniformly.
func maskPAN(match string) string {
	return "XXXXX" + match[len(match)-4:]
}

// maskPhone keeps the last 4 digits and preserves a matched country-code
// prefix verbatim.
func maskPhone(match, prefix string) string {
	body := strings.TrimPrefix(match, prefix)
	digits := digitsOnly.FindAllString(body, -1)
	lastFour := strings.Join(digits[len(digits)-4:], "")
	return prefix + "XXXXX" + lastFour
}

func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= '0' && b <= '9') ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z')
}

// wordBounded reports whether text[start:end] sits on word boundaries.
func wordBounded(text string, start, end int) bool {
	if start > 0 && isWordByte(text[start-1]) && isWordByte(text[start]) {
		return false
	}
	if end < len(text) && isWordByte(text[end-1]) && isWordByte(text[end]) {
		return false
	}
	return true
}

// scanAadhaar finds non-overlapping Aadhaar numbers, leftmost first.
func scanAadhaar(text string) []document.Match {
	matches := []document.Match{}
	for _, m := range aadhaarPattern.FindAllString(text, -1) {
		matches = append(matches, document.Match{Original: m, Masked: maskAadhaar(m)})
	}
	return matches
}

// scanPAN finds non-overlapping PAN numbers, leftmost first.
func scanPAN(text string) []document.Match {
	matches := []document.Match{}
	for _, m := range panPattern.FindAllString(text, -1) {
		matches = append(matches, document.Match{Original: m, Masked: maskPAN(m)})
	}
	return matches
}

// scanPhone finds non-overlapping phone numbers, leftmost first, enforcing
// word boundaries around each candidate.
func scanPhone(text string) []document.Match {
	matches := []document.Match{}
	for _, idx := range phonePattern.FindAllStringSubmatchIndex(text, -1) {
		start, end := idx[0], idx[1]
		if !wordBounded(text, start, end) {
			continue
		}
		match := text[start:end]
		var prefix string
		if idx[2] >= 0 {
			prefix = text[idx[2]:idx[3]]
		}
		matches = append(matches, document.Match{Original: match, Masked: maskPhone(match, prefix)})
	}
	return matches
}

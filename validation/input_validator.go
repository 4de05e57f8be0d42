// Package validation guards the HTTP edge: drug names, search limits and
// batch payloads are checked here before any engine call, so clients get
// useful 400s and junk stays out of the logs.
package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/snplmntn/ainay-companion-care-sub003/interfaces"
)

const (
	// MaxBatchNames bounds how many names one batch request may carry.
	MaxBatchNames = 50

	// DefaultSearchLimit applies when the limit parameter is absent.
	DefaultSearchLimit = 10

	// MaxSearchLimit bounds the limit parameter.
	MaxSearchLimit = 50
)

// drugNameRegex covers real medication spellings: letters, digits, spaces,
// and the punctuation that occurs in names like "tylenol (extra strength)",
// "amoxicillin/clavulanate" or "co-codamol 8/500".
var drugNameRegex = regexp.MustCompile(`^[a-zA-Z0-9\s\-\.\+'/(),]+$`)

// dangerousPatterns are matched as lowercase substrings; strings.Contains is
// considerably faster than a regex alternation of this size.
var dangerousPatterns = []string{
	"<script", "</script>", "javascript:", "vbscript:", "onload=", "onerror=",
	"onclick=", "onmouseover=", "onfocus=", "onblur=", "onchange=", "onsubmit=",
	"eval(", "expression(", "url(", "import ", "@import", "binding(", "behavior(",
	// SQL injection
	"' or ", "\" or ", "union select", "drop table", "delete from", "insert into",
	"update set", "--", "/*", "*/", "xp_", "sp_", "exec(", "execute(",
	// Command injection
	"`", "$(", "${",
	// Path traversal
	"../", "..\\", "%2e%2e", "file://",
	// NoSQL injection
	"{$ne:", "{$gt:", "{$where:", "{$or:", "{$regex:", "{$expr:",
}

// InputValidatorImpl implements interfaces.InputValidator.
type InputValidatorImpl struct{}

func NewInputValidator() interfaces.InputValidator {
	return &InputValidatorImpl{}
}

// ValidateDrugName checks one user-entered medication name or search query.
func (v *InputValidatorImpl) ValidateDrugName(input string) error {
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("input cannot be empty")
	}
	if len(input) < 2 {
		return fmt.Errorf("input too short: minimum 2 characters")
	}
	if len(input) > 100 {
		return fmt.Errorf("input too long: maximum 100 characters")
	}
	if words := strings.Fields(input); len(words) > 6 {
		return fmt.Errorf("input too complex: maximum 6 words allowed")
	}

	lowerInput := strings.ToLower(input)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lowerInput, pattern) {
			return fmt.Errorf("input contains potentially dangerous content")
		}
	}

	if !drugNameRegex.MatchString(input) {
		return fmt.Errorf("input contains invalid characters. Only letters, numbers, spaces and - . + ' / ( ) , are allowed")
	}

	if hasExcessiveRepetition(input) {
		return fmt.Errorf("input contains excessive character repetition")
	}

	return nil
}

// ValidateLimit parses the limit query parameter. Absent means the default;
// anything outside 1..MaxSearchLimit is rejected rather than clamped, so
// clients learn about their mistake.
func (v *InputValidatorImpl) ValidateLimit(input string) (int, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return DefaultSearchLimit, nil
	}
	limit, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("limit must be a number")
	}
	if limit < 1 || limit > MaxSearchLimit {
		return 0, fmt.Errorf("limit must be between 1 and %d", MaxSearchLimit)
	}
	return limit, nil
}

// ValidateNames checks a batch payload's name list as a whole.
func (v *InputValidatorImpl) ValidateNames(names []string) error {
	if len(names) == 0 {
		return fmt.Errorf("names list cannot be empty")
	}
	if len(names) > MaxBatchNames {
		return fmt.Errorf("too many names: maximum %d per request", MaxBatchNames)
	}
	for i, name := range names {
		if err := v.ValidateDrugName(name); err != nil {
			return fmt.Errorf("name %d: %w", i+1, err)
		}
	}
	return nil
}

// hasExcessiveRepetition flags the same byte repeated more than ten times in
// a row. No real drug name does that; flood inputs do.
func hasExcessiveRepetition(input string) bool {
	run := 1
	for i := 1; i < len(input); i++ {
		if input[i] == input[i-1] {
			run++
			if run > 10 {
				return true
			}
		} else {
			run = 1
		}
	}
	return false
}

var _ interfaces.InputValidator = (*InputValidatorImpl)(nil)

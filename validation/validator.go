// Package validation provides caller-input validation for the StatCan
// tables API.
package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shinysc/statcan-tables-api/interfaces"
)

// Pre-compiled patterns, built once at package initialization.
var (
	// Search input: alphanumeric + French accents + safe punctuation
	inputRegex = regexp.MustCompile(`^[a-zA-Z0-9\s\-\.\+,'àâäéèêëïîôöùûüÿç]+$`)

	// Dangerous substrings; strings.Contains is much cheaper than a regex here
	dangerousPatterns = []string{
		"<script", "</script>", "javascript:", "onload=", "onerror=",
		"eval(", "expression(", "@import",
		"' or ", "\" or ", "union select", "drop table", "delete from",
		"--", "/*", "*/",
		"../", "..\\", "%2e%2e", "file://",
		"$(", "${", "`",
	}
)

// DataValidatorImpl implements the interfaces.InputValidator interface
type DataValidatorImpl struct{}

// Compile-time check
var _ interfaces.InputValidator = (*DataValidatorImpl)(nil)

// NewInputValidator creates a new input validator
func NewInputValidator() interfaces.InputValidator {
	return &DataValidatorImpl{}
}

// ValidateInput validates user-supplied search strings
func (v *DataValidatorImpl) ValidateInput(input string) error {
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("input cannot be empty")
	}

	if len(input) > 200 {
		return fmt.Errorf("input too long: %d characters (max 200)", len(input))
	}

	lowered := strings.ToLower(input)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lowered, pattern) {
			return fmt.Errorf("input contains invalid sequence")
		}
	}

	if !inputRegex.MatchString(input) {
		return fmt.Errorf("input contains invalid characters")
	}

	return nil
}

// ValidateProductID validates a productId path parameter. WDS product ids
// are 8-digit positive integers (e.g. 34100292).
func (v *DataValidatorImpl) ValidateProductID(input string) (int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, fmt.Errorf("productId cannot be empty")
	}

	pid, err := strconv.Atoi(input)
	if err != nil {
		return 0, fmt.Errorf("productId must be numeric: %s", input)
	}

	if pid <= 0 {
		return 0, fmt.Errorf("productId must be positive: %d", pid)
	}

	if len(input) != 8 {
		return 0, fmt.Errorf("productId must have 8 digits: %s", input)
	}

	return pid, nil
}

// ValidateDate validates a YYYY-MM-DD date parameter; empty is allowed
// since every date parameter of the download URL defaults to empty.
func (v *DataValidatorImpl) ValidateDate(input string) error {
	if input == "" {
		return nil
	}

	if _, err := time.Parse("2006-01-02", input); err != nil {
		return fmt.Errorf("date must be YYYY-MM-DD: %s", input)
	}

	return nil
}

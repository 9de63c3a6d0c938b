package sqlguard

import (
	"fmt"
	"regexp"
	"strings"
)

// Reason is a machine-checkable rejection reason code. The codes are part of
// the audit contract: tooling greps for them and tests assert them verbatim.
type Reason string

const (
	// ReasonNotReadOnlyPrefix means the statement does not begin with an
	// allowed read-only keyword (SELECT, WITH, EXPLAIN).
	ReasonNotReadOnlyPrefix Reason = "not_read_only_prefix"
	// ReasonForbiddenKeyword means a mutating keyword was found as a whole
	// word anywhere in the statement body.
	ReasonForbiddenKeyword Reason = "forbidden_keyword"
	// ReasonMultipleStatements means a statement terminator remained in the
	// body after normalization, indicating statement stacking.
	ReasonMultipleStatements Reason = "multiple_statements"
)

// Classification is the immutable outcome of classifying one statement.
// When Accepted is true, Statement holds the normalized text that may be
// executed; otherwise Reason and Fragment describe the violation.
type Classification struct {
	Accepted  bool
	Statement string
	Reason    Reason
	Fragment  string
}

// allowedPrefixes are the only leading keywords that may reach the executor.
var allowedPrefixes = map[string]bool{
	"SELECT":  true,
	"WITH":    true,
	"EXPLAIN": true,
}

// forbiddenKeywords matches mutating keywords as whole words, case-insensitive.
// Word boundaries keep identifiers like updated_at or dropdown_id from matching.
var forbiddenKeywords = regexp.MustCompile(
	`(?i)\b(INSERT|UPDATE|DELETE|DROP|ALTER|CREATE|TRUNCATE|GRANT|REVOKE|EXEC|EXECUTE|CALL|COPY|LOAD)\b`,
)

// leadingKeyword extracts the first run of letters from the statement.
var leadingKeyword = regexp.MustCompile(`^[A-Za-z]+`)

// Classify decides whether query is a single read-only statement. It is pure
// and total: any input yields a Classification, never a panic or error.
//
// Checks run in a fixed order so the reported reason is deterministic:
// prefix whitelist, forbidden-keyword scan, then multi-statement detection.
func Classify(query string) Classification {
	cleaned := strings.TrimSpace(query)
	cleaned = strings.TrimSuffix(cleaned, ";")
	cleaned = strings.TrimSpace(cleaned)

	keyword := strings.ToUpper(leadingKeyword.FindString(cleaned))
	if !allowedPrefixes[keyword] {
		return Classification{
			Reason:   ReasonNotReadOnlyPrefix,
			Fragment: truncateFragment(cleaned),
		}
	}

	if match := forbiddenKeywords.FindString(cleaned); match != "" {
		return Classification{
			Reason:   ReasonForbiddenKeyword,
			Fragment: match,
		}
	}

	if strings.Contains(cleaned, ";") {
		return Classification{Reason: ReasonMultipleStatements}
	}

	return Classification{Accepted: true, Statement: cleaned}
}

// Message renders the audit-facing text for a rejection. The leading
// "❌ BLOCKED:" marker is stable so log tooling can grep for it. Calling
// Message on an accepted Classification returns the empty string.
func (c Classification) Message() string {
	if c.Accepted {
		return ""
	}
	switch c.Reason {
	case ReasonNotReadOnlyPrefix:
		return fmt.Sprintf("❌ BLOCKED: Only SELECT, WITH (CTE), and EXPLAIN queries are allowed. Got: '%s...'", c.Fragment)
	case ReasonForbiddenKeyword:
		return fmt.Sprintf("❌ BLOCKED: Detected forbidden keyword '%s' in query. Only read-only queries are allowed.", c.Fragment)
	case ReasonMultipleStatements:
		return "❌ BLOCKED: Multiple statements detected (semicolon in query body). Only single SELECT statements are allowed."
	default:
		return "❌ BLOCKED: Query rejected."
	}
}

func truncateFragment(s string) string {
	if len(s) > 50 {
		return s[:50]
	}
	return s
}

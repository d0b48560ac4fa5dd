package block

import (
	"fmt"
	"strings"
)

// Severity grades a validation issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is a single validation finding.
type Issue struct {
	BlockID  string   `json:"blockId"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Result is the outcome of Validate. Valid is false when any issue has
// error severity.
type Result struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues"`
}

// Errors returns the messages of the error-severity issues.
func (r Result) Errors() []string {
	out := []string{}
	for _, is := range r.Issues {
		if is.Severity == SeverityError {
			out = append(out, is.Message)
		}
	}
	return out
}

// Warnings returns the messages of the warning-severity issues.
func (r Result) Warnings() []string {
	out := []string{}
	for _, is := range r.Issues {
		if is.Severity == SeverityWarning {
			out = append(out, is.Message)
		}
	}
	return out
}

type rule func(b Block) []Issue

// rules holds the kind-specific checks. Kinds without an entry only get the
// generic checks.
var rules = map[Kind]rule{
	KindImage:   requireString("src"),
	KindVideo:   requireString("src"),
	KindEmbed:   requireString("url"),
	KindHeading: checkHeadingLevel,
}

// Validate inspects blocks and reports every problem it finds. It never
// stops at the first finding and never mutates its input.
func Validate(blocks []Block) Result {
	issues := []Issue{}
	seen := make(map[string]bool, len(blocks))
	for _, b := range blocks {
		if b.ID != "" {
			if seen[b.ID] {
				issues = append(issues, errorIssue(b, "Block %s is duplicated", b.ID))
			}
			seen[b.ID] = true
		}
		if b.Kind == "" {
			issues = append(issues, errorIssue(b, "Block %s is missing type", b.ID))
		} else if !b.Kind.Valid() {
			issues = append(issues, errorIssue(b, "Block %s has unknown type %s", b.ID, b.Kind))
		}
		if b.Content == nil {
			issues = append(issues, errorIssue(b, "Block %s is missing content", b.ID))
			continue
		}
		if r, ok := rules[b.Kind]; ok {
			issues = append(issues, r(b)...)
		}
	}
	valid := true
	for _, is := range issues {
		if is.Severity == SeverityError {
			valid = false
			break
		}
	}
	return Result{Valid: valid, Issues: issues}
}

func requireString(key string) rule {
	return func(b Block) []Issue {
		s, ok := b.Content[key].(string)
		if ok && s != "" {
			return nil
		}
		return []Issue{errorIssue(b, "%s block %s is missing %s", kindLabel(b.Kind), b.ID, key)}
	}
}

func checkHeadingLevel(b Block) []Issue {
	raw, present := b.Content["level"]
	if !present {
		return nil
	}
	if level, ok := Int(b.Content, "level"); ok && level >= 1 && level <= 6 {
		return nil
	}
	return []Issue{{
		BlockID:  b.ID,
		Message:  fmt.Sprintf("Heading block %s has invalid level %v", b.ID, raw),
		Severity: SeverityWarning,
	}}
}

func errorIssue(b Block, format string, args ...any) Issue {
	return Issue{
		BlockID:  b.ID,
		Message:  fmt.Sprintf(format, args...),
		Severity: SeverityError,
	}
}

// kindLabel capitalizes a kind for use at the start of a message.
func kindLabel(k Kind) string {
	s := string(k)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

package semantic

import (
	stderrors "errors"
	"fmt"

	"github.com/matzehuels/mcl/pkg/errors"
	"github.com/matzehuels/mcl/pkg/syntax"
)

// Severity grades a diagnostic. Only errors block a compilation.
type Severity uint8

const (
	SeverityError Severity = iota
	SeverityWarning
)

// String returns "error" or "warning".
func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(b []byte) error {
	switch string(b) {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	default:
		return fmt.Errorf("unknown severity %q", b)
	}
	return nil
}

// Diagnostic is one reported problem: where, what kind, and a message.
type Diagnostic struct {
	Span     syntax.Span `json:"span"`
	Code     errors.Code `json:"code"`
	Severity Severity    `json:"severity"`
	Message  string      `json:"message"`
}

// Error implements the error interface, so a single diagnostic can travel
// through error-returning helpers.
func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s %s at %s: %s", d.Severity, d.Code.Title(), d.Span, d.Message)
}

// ErrorCode returns the diagnostic code, so errors.Is and errors.GetCode
// see through a Diagnostic used as an error.
func (d Diagnostic) ErrorCode() errors.Code { return d.Code }

// Diagnostics is an ordered list of diagnostics, in emission order.
type Diagnostics []Diagnostic

// HasErrors reports whether any diagnostic has error severity.
func (ds Diagnostics) HasErrors() bool {
	for _, d := range ds {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Errors returns the error-severity diagnostics.
func (ds Diagnostics) Errors() Diagnostics { return ds.filter(SeverityError) }

// Warnings returns the warning-severity diagnostics.
func (ds Diagnostics) Warnings() Diagnostics { return ds.filter(SeverityWarning) }

func (ds Diagnostics) filter(s Severity) Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Severity == s {
			out = append(out, d)
		}
	}
	return out
}

// Collector accumulates diagnostics across analysis stages. Analyzers push
// into it instead of returning on the first problem, so one run reports as
// many independent errors as possible.
type Collector struct {
	list   Diagnostics
	errors int
}

// Errorf records an error diagnostic.
func (c *Collector) Errorf(span syntax.Span, code errors.Code, format string, args ...any) {
	c.push(Diagnostic{Span: span, Code: code, Severity: SeverityError, Message: fmt.Sprintf(format, args...)})
}

// Warnf records a warning diagnostic.
func (c *Collector) Warnf(span syntax.Span, code errors.Code, format string, args ...any) {
	c.push(Diagnostic{Span: span, Code: code, Severity: SeverityWarning, Message: fmt.Sprintf(format, args...)})
}

// Report records err at span. A [Diagnostic] is recorded as-is, a coded
// *errors.Error keeps its code and message, and anything else is recorded
// as an internal error. errReported is ignored.
func (c *Collector) Report(span syntax.Span, err error) {
	if err == nil || stderrors.Is(err, errReported) {
		return
	}
	var d Diagnostic
	if stderrors.As(err, &d) {
		c.push(d)
		return
	}
	code, msg := errors.GetCode(err), errors.UserMessage(err)
	if code == "" || code == errors.ErrCodeInternal {
		code, msg = errors.ErrCodeInternal, err.Error()
	}
	c.Errorf(span, code, "%s", msg)
}

func (c *Collector) push(d Diagnostic) {
	if d.Severity == SeverityError {
		c.errors++
	}
	c.list = append(c.list, d)
}

// ErrorCount returns the number of error diagnostics recorded so far.
func (c *Collector) ErrorCount() int { return c.errors }

// Diagnostics returns a copy of everything recorded.
func (c *Collector) Diagnostics() Diagnostics {
	out := make(Diagnostics, len(c.list))
	copy(out, c.list)
	return out
}

// errReported marks a failure whose diagnostic has already been recorded.
// Callers treat it as "no value" and must not report it again.
var errReported = stderrors.New("already reported")

// diag builds a positioned error diagnostic usable as an error value.
func diag(span syntax.Span, code errors.Code, format string, args ...any) error {
	return Diagnostic{Span: span, Code: code, Severity: SeverityError, Message: fmt.Sprintf(format, args...)}
}

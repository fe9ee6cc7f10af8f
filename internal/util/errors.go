package util

import (
	"fmt"
	"os"
)

// ErrorContext names the area a console error comes from. Lines read like
// "Mail error: sending Some Title - smtp connect failed: ...".
type ErrorContext string

const (
	ConfigError     ErrorContext = "Config"
	FileError       ErrorContext = "File"
	ValidationError ErrorContext = "Validation"
	MailError       ErrorContext = "Mail"
	AlertError      ErrorContext = "Alert"
	ArticleError    ErrorContext = "Article"
)

func FormatError(ctx ErrorContext, operation string, err error) string {
	return FormatErrorf(ctx, operation, "%v", err)
}

func FormatErrorf(ctx ErrorContext, operation, format string, args ...any) string {
	return fmt.Sprintf("%s error: %s - %s", ctx, operation, fmt.Sprintf(format, args...))
}

// LogError prints err in red on stderr, tagged with ctx and the operation
// that failed.
func LogError(ctx ErrorContext, operation string, err error) {
	LogErrorf(ctx, operation, "%v", err)
}

func LogErrorf(ctx ErrorContext, operation, format string, args ...any) {
	Red.Fprintln(os.Stderr, FormatErrorf(ctx, operation, format, args...))
}

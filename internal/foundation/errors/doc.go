// Package errors provides the classified error primitives used across postview.
//
// Every failure that crosses a package boundary is a ClassifiedError built with
// the fluent ErrorBuilder. The category drives presentation: the CLI adapter
// maps it to an exit code and the HTTP adapter maps it to a status code.
//
// Key features:
//   - ErrorCategory: broad classification (config, source, post_fetch, ...)
//   - ErrorSeverity: impact level (fatal, error, warning, info)
//   - RetryStrategy: retry hint for callers (postview itself never retries)
//   - ClassifiedError: structured error with category, severity and context
//   - ErrorBuilder: fluent API for creating classified errors
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategorySource, "source unavailable").
//		WithContext("location", manifestURL).
//		Build()
//
// Two classified errors compare equal under errors.Is when they share category
// and message, so package-level sentinels can be matched against errors that
// carry extra context or a cause.
package errors

// Package log builds the slog loggers used by blossomchef. Every logger
// is wrapped in a SecureHandler that masks secrets before they reach the
// output.
//
// The handler masks:
//   - attributes whose key names a credential (token, authorization, cookie)
//   - values shaped like bearer tokens, JWTs or long API keys
//   - signing parameters in URL query strings, such as the Signature and
//     Key-Pair-Id of signed CDN links
//
// Even in verbose mode, the content server token never appears in logs.
//
// # Usage
//
//	logger := log.New(os.Stderr, log.Options{Verbose: true})
//	slog.SetDefault(logger)
//	logger.Info("channel ready", "token", cfg.Token) // token=***REDACTED***
package log

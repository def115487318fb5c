// Package bcderrors provides structured error types for bcdtools.
//
// Import path: github.com/erraggy/bcdtools/bcderrors
//
// The types let callers branch on error categories with [errors.Is] and
// [errors.As] instead of matching message text.
//
// # Error Types
//
//   - [ParseError]: the compat document (or a node inside it) could not be decoded
//   - [ConfigError]: invalid options, schema files or environment values
//   - [ConflictError]: two feature records share a name or slug
//   - [ResourceLimitError]: a size or depth limit was exceeded
//
// # Sentinel Errors
//
//   - [ErrParse]: matches any [ParseError]
//   - [ErrConfig]: matches any [ConfigError]
//   - [ErrConflict]: matches any [ConflictError]
//   - [ErrResourceLimit]: matches any [ResourceLimitError]
//   - [ErrNotFound]: returned by stores when a slug is unknown
//
// # Usage
//
//	_, err := store.Put(ctx, rec)
//	var conflict *bcderrors.ConflictError
//	if errors.As(err, &conflict) {
//	    log.Printf("duplicate feature %s (slug %s)", conflict.Name, conflict.Slug)
//	}
package bcderrors

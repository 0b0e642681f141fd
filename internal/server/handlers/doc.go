// Package handlers contains the HTTP handlers of the post viewer.
//
// This package provides handlers for:
//   - HTML pages: the post list and single posts
//   - the JSON API over the same data
//   - health reporting
//
// Errors on the JSON API go through the foundation/errors HTTPErrorAdapter.
// HTML pages render a short message page with the matching status instead.
package handlers

// Package format renders sensor and business values as display strings.
//
// All formatters are locale-fixed to US English and never fail: malformed
// input renders a placeholder instead of returning an error, so they can be
// used inline while building dashboard cards.
package format

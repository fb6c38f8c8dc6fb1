// Package notify formats glyph-prefixed outcome messages.
//
// [Format] returns plain text (the form every provisioning step returns to its
// caller), while [WriteMessage] prints the same text with type-specific colors.
//
// Message types include success (✔), error (✗), warning (⚠), info (ℹ),
// activity (►) and title messages with customizable emojis.
package notify

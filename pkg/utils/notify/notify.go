package notify

import (
	"fmt"
	"io"
	"os"
	"strings"

	fcolor "github.com/fatih/color"
)

// Message type constants.
// Each type determines the message styling (color and symbol).
const (
	// ErrorType represents an error message (red, with ✗ symbol).
	ErrorType MessageType = iota
	// WarningType represents a warning message (yellow, with ⚠ symbol).
	WarningType
	// ActivityType represents an activity/progress message (default color, with ► symbol).
	ActivityType
	// SuccessType represents a success message (green, with ✔ symbol).
	SuccessType
	// InfoType represents an informational message (blue, with ℹ symbol).
	InfoType
)

// =============================================================================
// Message Types and Configuration
// =============================================================================

// MessageType defines the type of notification message.
type MessageType int

// Message represents a notification message to be displayed to the user.
type Message struct {
	// Type determines the message styling (color, symbol).
	Type MessageType
	// Content is the main message text to display.
	Content string
	// Writer is the output destination. If nil, defaults to os.Stdout.
	Writer io.Writer
	// Args are format arguments for Content if it contains format specifiers.
	Args []any
}

// =============================================================================
// Plain Formatting
// =============================================================================

// Format returns the message text prefixed with the symbol of msgType.
// Continuation lines are indented to align with the first line.
func Format(msgType MessageType, format string, args ...any) string {
	content := format
	if len(args) > 0 {
		content = fmt.Sprintf(format, args...)
	}

	symbol := getMessageConfig(msgType).symbol

	return symbol + indentMultilineContent(content, symbol)
}

// Lines joins non-empty messages with newlines.
func Lines(messages ...string) string {
	kept := make([]string, 0, len(messages))

	for _, message := range messages {
		if message != "" {
			kept = append(kept, message)
		}
	}

	return strings.Join(kept, "\n")
}

// =============================================================================
// Convenience Functions
// =============================================================================

// Errorf writes an error message to the writer.
func Errorf(writer io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: ErrorType, Content: format, Args: args, Writer: writer})
}

// Outcome prints an already formatted outcome string, coloring it by its leading glyph.
func Outcome(writer io.Writer, outcome string) {
	if writer == nil {
		writer = os.Stdout
	}

	config := messageConfig{symbol: "", color: fcolor.New(fcolor.Reset)}

	for _, msgType := range []MessageType{ErrorType, WarningType, SuccessType, InfoType, ActivityType} {
		candidate := getMessageConfig(msgType)
		if strings.HasPrefix(outcome, candidate.symbol) {
			config = candidate

			break
		}
	}

	_, err := config.color.Fprintln(writer, outcome)
	handleNotifyError(err)
}

// Failed reports whether outcome starts with the error glyph.
func Failed(outcome string) bool {
	return strings.HasPrefix(outcome, getMessageConfig(ErrorType).symbol)
}

// =============================================================================
// Core WriteMessage Function
// =============================================================================

// WriteMessage writes a formatted message based on the message configuration.
//
// For errors, prefer Errorf().
func WriteMessage(msg Message) {
	// Default to stdout if no writer specified
	if msg.Writer == nil {
		msg.Writer = os.Stdout
	}

	content := msg.Content
	if len(msg.Args) > 0 {
		content = fmt.Sprintf(msg.Content, msg.Args...)
	}

	config := getMessageConfig(msg.Type)

	_, err := config.color.Fprintf(
		msg.Writer,
		"%s%s\n",
		config.symbol,
		indentMultilineContent(content, config.symbol),
	)
	handleNotifyError(err)
}

// Message configuration helpers.

// messageConfig holds the styling configuration for each message type.
type messageConfig struct {
	symbol string
	color  *fcolor.Color
}

func getMessageConfig(msgType MessageType) messageConfig {
	switch msgType {
	case ErrorType:
		return messageConfig{symbol: "✗ ", color: fcolor.New(fcolor.FgRed)}
	case WarningType:
		return messageConfig{symbol: "⚠ ", color: fcolor.New(fcolor.FgYellow)}
	case ActivityType:
		return messageConfig{symbol: "► ", color: fcolor.New(fcolor.Reset)}
	case SuccessType:
		return messageConfig{symbol: "✔ ", color: fcolor.New(fcolor.FgGreen)}
	case InfoType:
		return messageConfig{symbol: "ℹ ", color: fcolor.New(fcolor.FgBlue)}
	default:
		return messageConfig{symbol: "", color: fcolor.New(fcolor.Reset)}
	}
}

// handleNotifyError handles errors that occur during notification printing.
// Errors are logged to stderr rather than returned to avoid disrupting the user experience.
func handleNotifyError(err error) {
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "notify: failed to print message: %v\n", err)
	}
}

// indentMultilineContent indents subsequent lines of multi-line content based on the symbol width.
func indentMultilineContent(content, symbol string) string {
	if symbol == "" || !strings.Contains(content, "\n") {
		return content
	}

	indent := strings.Repeat(" ", len([]rune(symbol)))
	lines := strings.Split(content, "\n")

	for i := 1; i < len(lines); i++ {
		if lines[i] == "" {
			continue
		}

		lines[i] = indent + lines[i]
	}

	return strings.Join(lines, "\n")
}

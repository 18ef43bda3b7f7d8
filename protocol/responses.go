package protocol

import (
	"strings"
)

// FormatData renders a read result as a data-channel line (without terminator).
//
// Example:
//
//	protocol.FormatData([]byte{0x6C}) // "6C"
func FormatData(data []byte) string {
	return EncodeSequence(data)
}

// FormatDiagnostic renders msg for the diagnostic channel.
// Every physical line of msg is prefixed with DiagnosticPrefix so that a
// consumer can separate diagnostics from data line by line. The result ends
// with a line terminator. LF, CRLF and a lone CR all count as line breaks.
//
// Example:
//
//	protocol.FormatDiagnostic("usage:\n  a <addr>")
//	// "[DBG] usage:\n[DBG]   a <addr>\n"
func FormatDiagnostic(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.TrimSuffix(msg, "\n")

	var sb strings.Builder
	for _, segment := range strings.Split(msg, "\n") {
		sb.WriteString(DiagnosticPrefix)
		sb.WriteString(segment)
		sb.WriteString(LineTerminator)
	}

	return sb.String()
}

// IsDiagnostic reports whether a received line belongs to the diagnostic channel.
func IsDiagnostic(line string) bool {
	return strings.HasPrefix(line, strings.TrimSpace(DiagnosticPrefix))
}

// TrimDiagnostic strips the diagnostic prefix from line, if present.
func TrimDiagnostic(line string) string {
	if !IsDiagnostic(line) {
		return line
	}
	return strings.TrimSpace(strings.TrimPrefix(line, strings.TrimSpace(DiagnosticPrefix)))
}

// ParseData decodes a data-channel line back into bytes.
// It is the inverse of FormatData up to letter case.
func ParseData(line string) ([]byte, error) {
	return DecodeSequence(line, -1)
}

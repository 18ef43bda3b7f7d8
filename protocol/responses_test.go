package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDiagnostic(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		want string
	}{
		{
			name: "single line",
			msg:  "address set to 0x6B",
			want: "[DBG] address set to 0x6B\n",
		},
		{
			name: "multi line",
			msg:  "usage:\n  a <addr>\n  r <count>",
			want: "[DBG] usage:\n[DBG]   a <addr>\n[DBG]   r <count>\n",
		},
		{
			name: "crlf breaks",
			msg:  "one\r\ntwo",
			want: "[DBG] one\n[DBG] two\n",
		},
		{
			name: "lone carriage return",
			msg:  "one\rtwo",
			want: "[DBG] one\n[DBG] two\n",
		},
		{
			name: "trailing newline",
			msg:  "done\n",
			want: "[DBG] done\n",
		},
		{
			name: "empty",
			msg:  "",
			want: "[DBG] \n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDiagnostic(tt.msg))
		})
	}
}

func TestFormatDiagnostic_EveryLineIsDiagnostic(t *testing.T) {
	out := FormatDiagnostic("first\n6C\nthird")
	for _, line := range splitLines(out) {
		assert.True(t, IsDiagnostic(line), "line %q", line)
	}
}

func TestIsDiagnostic(t *testing.T) {
	assert.True(t, IsDiagnostic("[DBG] hello"))
	assert.True(t, IsDiagnostic("[DBG]hello"))
	assert.False(t, IsDiagnostic("6C"))
	assert.False(t, IsDiagnostic(""))
	assert.False(t, IsDiagnostic(" [DBG] indented"))
}

func TestTrimDiagnostic(t *testing.T) {
	assert.Equal(t, "hello", TrimDiagnostic("[DBG] hello"))
	assert.Equal(t, "6C", TrimDiagnostic("6C"))
}

func TestFormatAndParseData(t *testing.T) {
	data := []byte{0x6C, 0x00, 0xFF}
	line := FormatData(data)
	assert.Equal(t, "6C 00 FF", line)

	back, err := ParseData(line)
	require.NoError(t, err)
	assert.Equal(t, data, back)
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

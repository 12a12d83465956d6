package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/yndnr/respkv/internal/protocol/resp"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"table", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewFormatter(t *testing.T) {
	if _, ok := NewFormatter(FormatJSON).(*JSONFormatter); !ok {
		t.Error("NewFormatter(json) should return *JSONFormatter")
	}
	if _, ok := NewFormatter(FormatYAML).(*YAMLFormatter); !ok {
		t.Error("NewFormatter(yaml) should return *YAMLFormatter")
	}
	if _, ok := NewFormatter("unknown").(*TextFormatter); !ok {
		t.Error("NewFormatter(unknown) should default to *TextFormatter")
	}
}

// ==================== Frames ====================

func TestFormat_Frames(t *testing.T) {
	tests := []struct {
		name  string
		frame resp.Frame
		text  string
		json  string
		yaml  string
	}{
		{"simple", resp.Simple("OK"), "OK\n", "\"OK\"\n", "OK\n"},
		{"bulk", resp.BulkString("v"), "\"v\"\n", "\"v\"\n", "v\n"},
		{"null", resp.Null(), "(nil)\n", "null\n", "null\n"},
		{"integer", resp.Integer(3), "(integer) 3\n", "3\n", "3\n"},
		{"error", resp.Error("ERR boom"), "(error) ERR boom\n", "{\n  \"error\": \"ERR boom\"\n}\n", "error: ERR boom\n"},
		{"empty array", resp.Array(), "(empty array)\n", "[]\n", "[]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for format, want := range map[Format]string{
				FormatText: tt.text,
				FormatJSON: tt.json,
				FormatYAML: tt.yaml,
			} {
				var buf bytes.Buffer
				if err := NewFormatter(format).Format(&buf, tt.frame); err != nil {
					t.Fatalf("%s Format() error = %v", format, err)
				}
				if buf.String() != want {
					t.Errorf("%s Format() = %q, want %q", format, buf.String(), want)
				}
			}
		})
	}
}

func TestPlain(t *testing.T) {
	f := resp.Array(resp.BulkString("a"), resp.Integer(2), resp.Null(), resp.Bulk([]byte{0xff}))

	got, ok := Plain(f).([]any)
	if !ok || len(got) != 4 {
		t.Fatalf("Plain(array) = %#v", Plain(f))
	}
	if got[0] != "a" {
		t.Errorf("got[0] = %#v, want \"a\"", got[0])
	}
	if got[1] != uint64(2) {
		t.Errorf("got[1] = %#v, want 2", got[1])
	}
	if got[2] != nil {
		t.Errorf("got[2] = %#v, want nil", got[2])
	}
	if b, ok := got[3].([]byte); !ok || len(b) != 1 {
		t.Errorf("got[3] = %#v, want raw bytes", got[3])
	}
}

func TestJSONFormatter_Struct(t *testing.T) {
	data := struct {
		Name  string `json:"name"`
		Value int    `json:"value"`
	}{"test", 42}

	var buf bytes.Buffer
	if err := (&JSONFormatter{}).Format(&buf, data); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"name": "test"`) || !strings.Contains(out, `"value": 42`) {
		t.Errorf("Format() = %q", out)
	}
}

func TestYAMLFormatter_Struct(t *testing.T) {
	data := struct {
		Status string `yaml:"status"`
		Keys   int    `yaml:"keys"`
	}{"ok", 7}

	var buf bytes.Buffer
	if err := (&YAMLFormatter{}).Format(&buf, data); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if want := "status: ok\nkeys: 7\n"; buf.String() != want {
		t.Errorf("Format() = %q, want %q", buf.String(), want)
	}
}

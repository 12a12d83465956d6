package repl

import (
	"errors"
	"reflect"
	"testing"
)

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"PING", []string{"PING"}},
		{"  SET  k   v ", []string{"SET", "k", "v"}},
		{`SET k "hello world"`, []string{"SET", "k", "hello world"}},
		{`SET k ""`, []string{"SET", "k", ""}},
		{`ECHO "a\nb\t\"c\"\\"`, []string{"ECHO", "a\nb\t\"c\"\\"}},
		{`ECHO "\x41\x4a"`, []string{"ECHO", "AJ"}},
		{`ECHO "\xZZ"`, []string{"ECHO", "xZZ"}},
		{`ECHO 'it\'s \n raw'`, []string{"ECHO", `it's \n raw`}},
		{"GET\tkey", []string{"GET", "key"}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := splitArgs(tt.line)
			if err != nil {
				t.Fatalf("splitArgs(%q) error = %v", tt.line, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitArgs(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestSplitArgs_Unbalanced(t *testing.T) {
	for _, line := range []string{
		`SET k "open`,
		`SET k 'open`,
		`SET k "closed"x`,
		`ECHO "trailing\`,
	} {
		if _, err := splitArgs(line); !errors.Is(err, ErrUnbalancedQuotes) {
			t.Errorf("splitArgs(%q) error = %v, want ErrUnbalancedQuotes", line, err)
		}
	}
}

package parser

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/ryanlewis/layerplot/internal/common"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantOK   bool
		wantName string
		wantRaw  string
		wantArgs []string
	}{
		{name: "blank", input: "", wantOK: false},
		{name: "whitespace_only", input: "   \t  ", wantOK: false},
		{name: "comment_line", input: "; generated by slicer", wantOK: false},
		{name: "indented_comment_line", input: "   ;G1 X10", wantOK: false},
		{name: "stray_token", input: "T0", wantOK: false},
		{name: "line_number_word", input: "N10 G1 X1", wantOK: false},
		{
			name: "motion", input: "G1 X10 Y0 E1",
			wantOK: true, wantName: "G1", wantRaw: "G1", wantArgs: []string{"X10", "Y0", "E1"},
		},
		{
			name: "inline_comment", input: "G1 X10 ; move right",
			wantOK: true, wantName: "G1", wantRaw: "G1", wantArgs: []string{"X10"},
		},
		{
			name: "comment_glued_to_operand", input: "G1 X10;move",
			wantOK: true, wantName: "G1", wantRaw: "G1", wantArgs: []string{"X10"},
		},
		{
			name: "leading_zero", input: "G01 X1",
			wantOK: true, wantName: "G1", wantRaw: "G01", wantArgs: []string{"X1"},
		},
		{
			name: "misc_no_args", input: "M84",
			wantOK: true, wantName: "M84", wantRaw: "M84", wantArgs: []string{},
		},
		{
			name: "crlf_and_tabs", input: "G28\tX0\r",
			wantOK: true, wantName: "G28", wantRaw: "G28", wantArgs: []string{"X0"},
		},
		{
			name: "non_integer_code_kept", input: "G1.5",
			wantOK: true, wantName: "G1.5", wantRaw: "G1.5", wantArgs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, ok := ParseLine(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseLine(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if cmd.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", cmd.Name, tt.wantName)
			}
			if cmd.Raw != tt.wantRaw {
				t.Errorf("Raw = %q, want %q", cmd.Raw, tt.wantRaw)
			}
			if !reflect.DeepEqual(cmd.Args, tt.wantArgs) {
				t.Errorf("Args = %q, want %q", cmd.Args, tt.wantArgs)
			}
		})
	}
}

func TestParseOperands(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    Operands
		wantErr bool
	}{
		{name: "none", args: nil, want: Operands{}},
		{
			name: "all_axes",
			args: []string{"X1.5", "Y-2", "Z0.2", "E0.05"},
			want: Operands{
				X: Value{Value: 1.5, Present: true},
				Y: Value{Value: -2, Present: true},
				Z: Value{Value: 0.2, Present: true},
				E: Value{Value: 0.05, Present: true},
			},
		},
		{
			name: "zero_is_present",
			args: []string{"Z0"},
			want: Operands{Z: Value{Value: 0, Present: true}},
		},
		{
			name: "order_insignificant",
			args: []string{"E1", "Y2", "X3"},
			want: Operands{
				X: Value{Value: 3, Present: true},
				Y: Value{Value: 2, Present: true},
				E: Value{Value: 1, Present: true},
			},
		},
		{
			name: "duplicate_last_wins",
			args: []string{"X1", "X7"},
			want: Operands{X: Value{Value: 7, Present: true}},
		},
		{
			name: "lowercase_letter_ignored",
			args: []string{"x4", "Y2"},
			want: Operands{Y: Value{Value: 2, Present: true}},
		},
		{
			name: "feedrate_ignored",
			args: []string{"F1800", "X1"},
			want: Operands{X: Value{Value: 1, Present: true}},
		},
		{name: "missing_number", args: []string{"X"}, wantErr: true},
		{name: "non_numeric", args: []string{"Xabc"}, wantErr: true},
		{name: "separator", args: []string{"X=10"}, wantErr: true},
		{name: "no_letter", args: []string{"10"}, wantErr: true},
		{name: "nan", args: []string{"XNaN"}, wantErr: true},
		{name: "inf", args: []string{"YInf"}, wantErr: true},
		{name: "bad_ignored_letter", args: []string{"X1", "Ffast"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOperands(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseOperands(%q) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, common.ErrMalformedOperand) {
					t.Errorf("error %v does not wrap ErrMalformedOperand", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseOperands(%q) = %+v, want %+v", tt.args, got, tt.want)
			}
		})
	}
}

func TestScanner(t *testing.T) {
	input := strings.Join([]string{
		"; header comment",
		"",
		"G91",
		"T0",
		"G1 X10 E1 ; first",
		"   ",
		"M117 Printing now",
	}, "\n")

	s := NewScanner(strings.NewReader(input))

	var got []Command
	for s.Scan() {
		got = append(got, s.Command())
	}
	if err := s.Err(); err != nil {
		t.Fatalf("Err() = %v", err)
	}

	wantNames := []string{"G91", "G1", "M117"}
	wantLines := []int{3, 5, 7}
	if len(got) != len(wantNames) {
		t.Fatalf("got %d commands, want %d", len(got), len(wantNames))
	}
	for i, cmd := range got {
		if cmd.Name != wantNames[i] {
			t.Errorf("command %d name = %q, want %q", i, cmd.Name, wantNames[i])
		}
		if cmd.Line != wantLines[i] {
			t.Errorf("command %d line = %d, want %d", i, cmd.Line, wantLines[i])
		}
	}
	if s.Lines() != 7 {
		t.Errorf("Lines() = %d, want 7", s.Lines())
	}
	if !reflect.DeepEqual(got[2].Args, []string{"Printing", "now"}) {
		t.Errorf("M117 args = %q", got[2].Args)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk on fire")
}

func TestScannerReadError(t *testing.T) {
	s := NewScanner(failingReader{})
	if s.Scan() {
		t.Fatal("Scan() = true on failing reader")
	}
	err := s.Err()
	if !errors.Is(err, common.ErrIO) {
		t.Fatalf("Err() = %v, want ErrIO", err)
	}
}

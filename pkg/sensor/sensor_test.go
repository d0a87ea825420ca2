package sensor

import (
	"errors"
	"fmt"
	"testing"
)

func testCatalog() Catalog {
	return Catalog{
		Formats: []FormatDescriptor{
			{Name: "a", Width: 640, Height: 480},
			{Name: "b", Width: 1280, Height: 720},
		},
		Default: 1,
	}
}

func TestCatalogLookup(t *testing.T) {
	cat := testCatalog()

	tests := []struct {
		id       FormatID
		wantName string
		wantErr  bool
	}{
		{id: 0, wantName: "a"},
		{id: 1, wantName: "b"},
		{id: FormatDefault, wantName: "b"},
		{id: 2, wantErr: true},
		{id: -2, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.id), func(t *testing.T) {
			f, err := cat.Lookup(tt.id)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownFormat) {
					t.Errorf("Lookup(%d) error = %v, want ErrUnknownFormat", tt.id, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Lookup(%d) error = %v", tt.id, err)
			}
			if f.Name != tt.wantName {
				t.Errorf("Lookup(%d) = %s, want %s", tt.id, f.Name, tt.wantName)
			}
		})
	}
}

func TestCatalogCopiesPrograms(t *testing.T) {
	cat := testCatalog()
	cat.Formats[0].Program = RegisterProgram{{Addr: 0x1000, Val: 0x01}, EndOfProgram}

	f, err := cat.Lookup(0)
	if err != nil {
		t.Fatalf("Lookup(0) error = %v", err)
	}
	f.Program[0].Val = 0xAA
	clone := cat.Clone()
	clone.Formats[0].Program[0].Val = 0xBB

	if got := cat.Formats[0].Program[0].Val; got != 0x01 {
		t.Errorf("catalog program[0].Val = 0x%02X, want 0x01", got)
	}
}

func TestCatalogByName(t *testing.T) {
	cat := testCatalog()

	if id, ok := cat.ByName("b"); !ok || id != 1 {
		t.Errorf("ByName(b) = %d, %v, want 1, true", id, ok)
	}
	if _, ok := cat.ByName("missing"); ok {
		t.Error("ByName(missing) found an entry")
	}
}

func TestParseParamID(t *testing.T) {
	for id, name := range paramNames {
		got, ok := ParseParamID(name)
		if !ok || got != id {
			t.Errorf("ParseParamID(%q) = %d, %v, want %d", name, got, ok, id)
		}
	}
	if _, ok := ParseParamID("zoom"); ok {
		t.Error("ParseParamID(zoom) succeeded")
	}
	if got := ParamID(99).String(); got != "param(99)" {
		t.Errorf("String() = %q, want param(99)", got)
	}
}

func TestParamDescriptorContains(t *testing.T) {
	d := ParamDescriptor{Min: 15, Max: 4094}

	tests := []struct {
		v    Value
		want bool
	}{
		{14, false},
		{15, true},
		{4094, true},
		{4095, false},
	}
	for _, tt := range tests {
		if got := d.Contains(tt.v); got != tt.want {
			t.Errorf("Contains(%d) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestErrorUnwrapping(t *testing.T) {
	cause := errors.New("nack")

	tests := []struct {
		name   string
		err    error
		target error
	}{
		{"identity", &IdentityError{Got: 0x0131, Want: 0x0130}, ErrIdentityMismatch},
		{"lookup", &FormatLookupError{ID: 7}, ErrUnknownFormat},
		{"format", &FormatError{Format: "a", Offset: 1, Err: cause}, cause},
		{"stream", &StreamError{Enable: true, Stage: StreamStageMode, Err: cause}, cause},
		{"group", &GroupError{Stage: GroupStageUpdate, Err: cause}, cause},
		{"param", &ParamError{ID: ParamGain, Err: &GroupError{Stage: GroupStageEnd, Err: cause}}, cause},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.target) {
				t.Errorf("errors.Is(%v, %v) = false", tt.err, tt.target)
			}
		})
	}
}

func TestStreamStateString(t *testing.T) {
	if got := StreamStreaming.String(); got != "streaming" {
		t.Errorf("String() = %q, want streaming", got)
	}
	if got := StreamState(42).String(); got != "unknown" {
		t.Errorf("String() = %q, want unknown", got)
	}
}

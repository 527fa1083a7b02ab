package uuid

import (
	"bytes"
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{
			name:    "canonical format",
			input:   "f47ac10b-58cc-4372-a567-0e02b2c3d479",
			wantErr: false,
		},
		{
			name:    "without hyphens",
			input:   "f47ac10b58cc4372a5670e02b2c3d479",
			wantErr: false,
		},
		{
			name:    "uppercase",
			input:   "F47AC10B-58CC-4372-A567-0E02B2C3D479",
			wantErr: false,
		},
		{
			name:    "with braces",
			input:   "{f47ac10b-58cc-4372-a567-0e02b2c3d479}",
			wantErr: false,
		},
		{
			name:    "with braces, no hyphens",
			input:   "{f47ac10b58cc4372a5670e02b2c3d479}",
			wantErr: false,
		},
		{
			name:    "hyphen after every group of four",
			input:   "f47a-c10b-58cc-4372-a567-0e02-b2c3-d479",
			wantErr: false,
		},
		{
			name:    "hyphen at a non-canonical group boundary",
			input:   "f47ac10b58cc-4372-a567-0e02b2c3d479",
			wantErr: false,
		},
		{
			name:    "hyphen inside a group",
			input:   "f4-7ac10b-58cc-4372-a567-0e02b2c3d479",
			wantErr: true,
		},
		{
			name:    "doubled hyphen",
			input:   "f47ac10b--58cc-4372-a567-0e02b2c3d479",
			wantErr: true,
		},
		{
			name:    "trailing hyphen",
			input:   "f47ac10b-58cc-4372-a567-0e02b2c3d479-",
			wantErr: true,
		},
		{
			name:    "one hex digit short",
			input:   "f47ac10b-58cc-4372-a567-0e02b2c3d47",
			wantErr: true,
		},
		{
			name:    "trailing garbage",
			input:   "f47ac10b-58cc-4372-a567-0e02b2c3d479ff",
			wantErr: true,
		},
		{
			name:    "non-hex digit",
			input:   "g47ac10b-58cc-4372-a567-0e02b2c3d479",
			wantErr: true,
		},
		{
			name:    "unclosed brace",
			input:   "{f47ac10b-58cc-4372-a567-0e02b2c3d479",
			wantErr: true,
		},
		{
			name:    "garbage after closing brace",
			input:   "{f47ac10b-58cc-4372-a567-0e02b2c3d479}x",
			wantErr: true,
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
		},
		{
			name:    "urn prefix rejected",
			input:   "urn:uuid:f47ac10b-58cc-4372-a567-0e02b2c3d479",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uuid, err := Parse(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("Parse() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr {
				if uuid.IsNil() {
					t.Error("Parse() returned nil UUID for valid input")
				}
				// Verify round-trip
				str := uuid.String()
				uuid2, err := Parse(str)
				if err != nil {
					t.Errorf("Round-trip parse failed: %v", err)
				}
				if uuid != uuid2 {
					t.Errorf("Round-trip UUID mismatch: got %v, want %v", uuid2, uuid)
				}
			}
		})
	}
}

func TestParse_EquivalentForms(t *testing.T) {
	want := MustParse("550e8400-e29b-41d4-a716-446655440000")
	forms := []string{
		"550e8400-e29b-41d4-a716-446655440000",
		"550E8400E29B41D4A716446655440000",
		"{550e8400-e29b-41d4-a716-446655440000}",
		"550e8400e29b-41d4-a716-446655440000",
	}
	for _, form := range forms {
		got, err := Parse(form)
		if err != nil {
			t.Errorf("Parse(%q) error = %v", form, err)
			continue
		}
		if got != want {
			t.Errorf("Parse(%q) = %v, want %v", form, got, want)
		}
	}
}

func TestParse_ErrorCarriesInput(t *testing.T) {
	input := "gg0e8400-e29b-41d4-a716-446655440000"
	_, err := Parse(input)
	if err == nil {
		t.Fatal("Parse() expected error")
	}

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Parse() error type = %T, want *ParseError", err)
	}
	if perr.Input != input {
		t.Errorf("ParseError.Input = %q, want %q", perr.Input, input)
	}
	if !errors.Is(err, ErrInvalidFormat) {
		t.Error("Parse() error should wrap ErrInvalidFormat")
	}
}

func TestUUID_String(t *testing.T) {
	testUUID := UUID{0xf4, 0x7a, 0xc1, 0x0b, 0x58, 0xcc, 0x43, 0x72, 0xa5, 0x67, 0x0e, 0x02, 0xb2, 0xc3, 0xd4, 0x79}
	want := "f47ac10b-58cc-4372-a567-0e02b2c3d479"
	got := testUUID.String()
	if got != want {
		t.Errorf("String() = %v, want %v", got, want)
	}

	// Output is always canonical even if the input used another form
	parsed := MustParse("{F47AC10B58CC4372A5670E02B2C3D479}")
	if parsed.String() != want {
		t.Errorf("String() after loose parse = %v, want %v", parsed.String(), want)
	}
}

func TestUUID_IsNil(t *testing.T) {
	nilUUID := Nil
	if !nilUUID.IsNil() {
		t.Error("Nil UUID should return true for IsNil()")
	}

	nonNilUUID := UUID{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	if nonNilUUID.IsNil() {
		t.Error("Non-nil UUID should return false for IsNil()")
	}
}

func TestMustParse(t *testing.T) {
	// Valid UUID should not panic
	uuid := MustParse("f47ac10b-58cc-4372-a567-0e02b2c3d479")
	if uuid.IsNil() {
		t.Error("MustParse() returned nil UUID")
	}

	// Invalid UUID should panic
	defer func() {
		if r := recover(); r == nil {
			t.Error("MustParse() did not panic on invalid input")
		}
	}()
	MustParse("invalid-uuid")
}

func TestUUID_Bytes(t *testing.T) {
	uuid := UUID{0xf4, 0x7a, 0xc1, 0x0b, 0x58, 0xcc, 0x43, 0x72, 0xa5, 0x67, 0x0e, 0x02, 0xb2, 0xc3, 0xd4, 0x79}
	b := uuid.Bytes()
	if len(b) != 16 {
		t.Errorf("Bytes() length = %d, want 16", len(b))
	}
	if !bytes.Equal(b, uuid[:]) {
		t.Error("Bytes() did not return correct byte slice")
	}
}

func TestFromBytes(t *testing.T) {
	raw := []byte{0xf4, 0x7a, 0xc1, 0x0b, 0x58, 0xcc, 0x43, 0x72, 0xa5, 0x67, 0x0e, 0x02, 0xb2, 0xc3, 0xd4, 0x79}
	uuid, err := FromBytes(raw)
	if err != nil {
		t.Fatalf("FromBytes() error = %v", err)
	}
	if !bytes.Equal(uuid.Bytes(), raw) {
		t.Error("FromBytes() did not preserve bytes")
	}

	if _, err := FromBytes(raw[:15]); !errors.Is(err, ErrInvalidLength) {
		t.Errorf("FromBytes() short input error = %v, want ErrInvalidLength", err)
	}
	if _, err := FromBytes(append(raw, 0x00)); !errors.Is(err, ErrInvalidLength) {
		t.Errorf("FromBytes() long input error = %v, want ErrInvalidLength", err)
	}
}

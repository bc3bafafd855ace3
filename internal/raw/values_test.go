package raw

import (
	"encoding"
	"testing"
	"time"
)

func TestTextUnmarshal(t *testing.T) {
	var v Text
	if err := v.UnmarshalText([]byte("sao paulo")); err != nil {
		t.Fatalf("UnmarshalText failed: %v", err)
	}
	if !v.Valid || v.String != "sao paulo" {
		t.Errorf("Expected valid 'sao paulo', got %+v", v)
	}

	if err := v.UnmarshalText(nil); err != nil {
		t.Fatalf("UnmarshalText failed: %v", err)
	}
	if v.Valid {
		t.Error("Empty field should decode as NULL")
	}
	if v.Any() != nil {
		t.Errorf("Expected nil for NULL, got %v", v.Any())
	}
}

func TestIntUnmarshal(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		valid   bool
		wantErr bool
	}{
		{"40", 40, true, false},
		{"40.0", 40, true, false},
		{" 7 ", 7, true, false},
		{"", 0, false, false},
		{"40.5", 0, false, true},
		{"abc", 0, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var v Int
			err := v.UnmarshalText([]byte(tt.in))
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error for %q, got nil", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if v.Valid != tt.valid || v.Int64 != tt.want {
				t.Errorf("Expected (%d, %v), got (%d, %v)", tt.want, tt.valid, v.Int64, v.Valid)
			}
		})
	}
}

func TestFloatUnmarshal(t *testing.T) {
	var v Float
	if err := v.UnmarshalText([]byte("-23.5456")); err != nil {
		t.Fatalf("UnmarshalText failed: %v", err)
	}
	if v.Any() != -23.5456 {
		t.Errorf("Expected -23.5456, got %v", v.Any())
	}
	if err := v.UnmarshalText([]byte("x")); err == nil {
		t.Error("Expected error for invalid number")
	}
}

func TestTimestampUnmarshal(t *testing.T) {
	var v Timestamp
	if err := v.UnmarshalText([]byte("2017-10-02 10:56:33")); err != nil {
		t.Fatalf("UnmarshalText failed: %v", err)
	}
	want := time.Date(2017, 10, 2, 10, 56, 33, 0, time.UTC)
	if !v.Time.Equal(want) {
		t.Errorf("Expected %v, got %v", want, v.Time)
	}

	if err := v.UnmarshalText([]byte("2017-10-02")); err != nil {
		t.Fatalf("Bare date should be accepted: %v", err)
	}
	if err := v.UnmarshalText([]byte("02/10/2017")); err == nil {
		t.Error("Expected error for unsupported layout")
	}

	b, err := NewTimestamp(want).MarshalText()
	if err != nil || string(b) != "2017-10-02 10:56:33" {
		t.Errorf("Expected '2017-10-02 10:56:33', got '%s' (%v)", b, err)
	}
}

func TestDateDropsTimeOfDay(t *testing.T) {
	var v Date
	if err := v.UnmarshalText([]byte("2017-10-18 00:00:00")); err != nil {
		t.Fatalf("UnmarshalText failed: %v", err)
	}
	if err := v.UnmarshalText([]byte("2017-10-18 13:45:00")); err != nil {
		t.Fatalf("UnmarshalText failed: %v", err)
	}
	want := time.Date(2017, 10, 18, 0, 0, 0, 0, time.UTC)
	if !v.Time.Equal(want) {
		t.Errorf("Expected %v, got %v", want, v.Time)
	}
}

func TestMarshalNull(t *testing.T) {
	for name, m := range map[string]encoding.TextMarshaler{
		"text":      Text{},
		"int":       Int{},
		"float":     Float{},
		"timestamp": Timestamp{},
		"date":      Date{},
	} {
		b, err := m.MarshalText()
		if err != nil {
			t.Errorf("%s: unexpected error: %v", name, err)
		}
		if len(b) != 0 {
			t.Errorf("%s: expected empty output for NULL, got '%s'", name, b)
		}
	}
}

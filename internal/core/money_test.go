package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"1.0", "1", true},
		{"1.23", "1.23", true},
		{"0.01", "0.01", true},
		{"0", "0", true},
		{"1000", "1000", true},
		{"12.345", "12.35", true}, // half-up rounding to scale 2
		{" 2.50 ", "2.5", true},
		{"-1", "", false},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"", "", false},
		{"  ", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil {
				t.Fatalf("%q unexpected error: %v", tc.in, err)
			}
			if got.String() != tc.out {
				t.Fatalf("%q expected %s, got %s", tc.in, tc.out, got)
			}
		} else if err == nil {
			t.Fatalf("%q expected error, got %s", tc.in, got)
		}
	}
}

func TestParseDateTime(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2024-01-05T10:30:00", true},
		{"2024-01-05T10:30", true}, // seconds optional
		{"2024-01-05", false},
		{"05/01/2024", false},
		{"", false},
	}
	for _, tc := range cases {
		d, err := ParseDateTime(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("%q unexpected error: %v", tc.in, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%q expected error, got %v", tc.in, d)
		}
	}

	d, err := ParseDateTime("2024-01-05T10:30:00")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.String() != "2024-01-05T10:30:00" {
		t.Fatalf("round trip mismatch: %s", d)
	}
}

func TestDateTimeJSONRoundTrip(t *testing.T) {
	d, err := ParseDateTime("2023-12-20T08:00:00")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	b, err := d.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2023-12-20T08:00:00"` {
		t.Fatalf("unexpected JSON: %s", b)
	}
	var back DateTime
	if err := back.UnmarshalJSON(b); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Fatalf("round trip mismatch: %v vs %v", back, d)
	}
}

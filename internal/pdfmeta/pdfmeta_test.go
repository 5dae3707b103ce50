package pdfmeta

import "testing"

func TestExtractGarbageYieldsNothing(t *testing.T) {
	inputs := [][]byte{
		nil,
		[]byte(""),
		[]byte("this is not a pdf at all"),
		[]byte("%PDF-1.7 but truncated right here"),
		{0x00, 0x01, 0x02, 0x03},
	}
	for _, in := range inputs {
		entries := Extract(in)
		if len(entries) != 0 {
			t.Fatalf("Extract(%q) = %v, want no entries", in, entries)
		}
	}
}

func TestHeaderVersion(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "%PDF-1.7\n...", want: "1.7"},
		{in: "%PDF-1.4", want: "1.4"},
		{in: "%PDF-2.0\r\nbody", want: "2.0"},
		{in: "no header", want: ""},
		{in: "", want: ""},
	}
	for _, tc := range cases {
		if got := headerVersion([]byte(tc.in)); got != tc.want {
			t.Fatalf("headerVersion(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

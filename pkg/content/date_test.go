package content

import (
	"errors"
	"testing"
)

func TestISODate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "2018-05-01", want: "2018-05-01T00:00:00.000Z"},
		{in: "2018-05-01T10:30:00Z", want: "2018-05-01T10:30:00.000Z"},
		{in: "2018-05-01T10:30:00+02:00", want: "2018-05-01T08:30:00.000Z"},
		{in: "2018-05-01T10:30:00.123456Z", want: "2018-05-01T10:30:00.123Z"},
		{in: "2018-05-01 10:30:00", want: "2018-05-01T10:30:00.000Z"},
		{in: "not a date", wantErr: true},
		{in: "2018-13-01", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ISODate(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDate) {
					t.Fatalf("ISODate(%q) error = %v, want ErrInvalidDate", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ISODate(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ISODate(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

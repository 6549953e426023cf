package sanitizer

import (
	"reflect"
	"testing"
)

func TestSanitizeAddress(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"  12 Ocean Drive,   Miami  ", "12 Ocean Drive Miami"},
		{"Main St. #4", "Main St 4"},
		{"\tRua	São João 7\n", "Rua São João 7"},
		{"", ""},
	}
	for _, c := range cases {
		if got := SanitizeAddress(c.in); got != c.want {
			t.Errorf("SanitizeAddress(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSanitizeAmenity(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Free  WiFi", "free_wifi"},
		{" Pool ", "pool"},
		{"A/C!!", "ac"},
		{"__sauna__", "sauna"},
	}
	for _, c := range cases {
		if got := SanitizeAmenity(c.in); got != c.want {
			t.Errorf("SanitizeAmenity(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSanitizeSliceDedupes(t *testing.T) {
	got := SanitizeSlice([]string{"Pool", " pool ", "", "WiFi", "wifi"}, SanitizeAmenity)
	want := []string{"pool", "wifi"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SanitizeSlice = %v, want %v", got, want)
	}
}

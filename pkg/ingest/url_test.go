package ingest

import "testing"

func TestNormalizeURL(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "tracking params stripped",
			in:   "https://example.com/a?utm_source=x&utm_medium=y&id=7",
			want: "https://example.com/a?id=7",
		},
		{
			name: "tracking params case-insensitive",
			in:   "https://example.com/a?UTM_Source=x&id=7",
			want: "https://example.com/a?id=7",
		},
		{
			name: "click ids stripped",
			in:   "https://example.com/a?fbclid=abc&gclid=def",
			want: "https://example.com/a",
		},
		{
			name: "fragment dropped",
			in:   "https://example.com/a#section-2",
			want: "https://example.com/a",
		},
		{
			name: "trailing slash removed",
			in:   "https://example.com/a/",
			want: "https://example.com/a",
		},
		{
			name: "root slash removed too",
			in:   "https://example.com/",
			want: "https://example.com",
		},
		{
			name: "surrounding whitespace trimmed",
			in:   "  https://example.com/a  ",
			want: "https://example.com/a",
		},
		{
			name: "ordinary params kept",
			in:   "https://example.com/a?page=2&sort=desc",
			want: "https://example.com/a?page=2&sort=desc",
		},
		{
			name: "empty stays empty",
			in:   "   ",
			want: "",
		},
		{
			name: "unparseable returned trimmed",
			in:   "http://bad url %zz",
			want: "http://bad url %zz",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeURL(tc.in); got != tc.want {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeURL_VariantsConverge(t *testing.T) {
	variants := []string{
		"https://example.com/post?x=1",
		"https://example.com/post/?x=1",
		"https://example.com/post?x=1&utm_source=newsletter",
		"https://example.com/post?x=1#comments",
	}
	want := NormalizeURL(variants[0])
	for _, v := range variants[1:] {
		if got := NormalizeURL(v); got != want {
			t.Errorf("NormalizeURL(%q) = %q, want %q", v, got, want)
		}
	}
}

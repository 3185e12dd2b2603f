package view

import (
	"reflect"
	"strings"
	"testing"
)

func TestParsePath(t *testing.T) {
	cases := []struct {
		path string
		want []string
	}{
		{path: "/foo/bar", want: []string{"foo", "bar"}},
		{path: "/", want: []string{}},
		{path: "", want: []string{}},
		{path: "//foo///bar/", want: []string{"foo", "bar"}},
		{path: "/caf%C3%A9", want: []string{"café"}},
		{path: "/bad%zzescape", want: []string{"bad%zzescape"}},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			got := ParsePath(tc.path)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("ParsePath(%q) = %v, want %v", tc.path, got, tc.want)
			}
		})
	}
}

func TestFormatPath_round_trip(t *testing.T) {
	if got := FormatPath(nil); got != "/" {
		t.Errorf("empty path = %q", got)
	}
	names := []string{"foo", "bar", "with space"}
	p := FormatPath(names)
	if p != "/foo/bar/with%20space" {
		t.Errorf("FormatPath = %q", p)
	}
	if got := ParsePath(p); !reflect.DeepEqual(got, names) {
		t.Errorf("round trip = %v", got)
	}
}

func TestIsChannelPath(t *testing.T) {
	cases := map[string]bool{
		"/":                     true,
		"/foo/bar":              true,
		"/caf%C3%A9":            true,
		"/robots.txt":           false,
		"/foo/favicon.ico":      false,
		"/apple-touch-icon.png": false,
		"/foo%2Ebar":            false,
	}
	for p, want := range cases {
		if got := IsChannelPath(p); got != want {
			t.Errorf("IsChannelPath(%q) = %v, want %v", p, got, want)
		}
	}
}

func TestTitle(t *testing.T) {
	if got := Title(nil); got != NoStreamsTitle {
		t.Errorf("Title(nil) = %q", got)
	}
	if got := Title([]string{"a", "b"}); got != "a/b" {
		t.Errorf("Title = %q", got)
	}
}

func TestTwitchEmbed(t *testing.T) {
	got := TwitchEmbed("viewer.example")("foo bar")
	for _, want := range []string{"channel=foo+bar", "parent=viewer.example", "muted=true"} {
		if !strings.Contains(got, want) {
			t.Errorf("embed %q missing %q", got, want)
		}
	}
}

package terminal

import (
	"bytes"
	"strings"
	"testing"
)

func TestPromptWidth(t *testing.T) {
	if PromptWidth != len(Prompt) {
		t.Errorf("PromptWidth = %d, want %d", PromptWidth, len(Prompt))
	}
}

func TestErase(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want string
	}{
		{"zero columns", 0, ""},
		{"negative columns", -3, ""},
		{"one column", 1, "\b \b"},
		{"three columns", 3, "\b \b\b \b\b \b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			d := NewDisplay(&out)

			d.Erase(tt.n)

			if out.String() != tt.want {
				t.Errorf("Erase(%d) emitted %q, want %q", tt.n, out.String(), tt.want)
			}
		})
	}
}

func TestShowPrompt(t *testing.T) {
	tests := []struct {
		name    string
		partial []byte
		want    string
	}{
		{"no partial input", nil, Prompt},
		{"empty partial input", []byte{}, Prompt},
		{"partial input", []byte("hel"), Prompt + "hel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			d := NewDisplay(&out)

			d.ShowPrompt(tt.partial)

			if out.String() != tt.want {
				t.Errorf("ShowPrompt(%q) emitted %q, want %q", tt.partial, out.String(), tt.want)
			}
		})
	}
}

func TestEcho(t *testing.T) {
	var out bytes.Buffer
	d := NewDisplay(&out)

	for _, ch := range []byte("ok") {
		d.Echo(ch)
	}

	if out.String() != "ok" {
		t.Errorf("echoed %q, want %q", out.String(), "ok")
	}
}

func TestAnnouncements(t *testing.T) {
	var out bytes.Buffer
	d := NewDisplay(&out)

	d.AnnounceReceived([]byte("pong"))
	d.AnnounceSaved(42)
	d.AnnounceSent("hello")
	d.AnnounceChunk(256, "data.bin")
	d.AnnounceRedirect("shell")
	d.Errorf("%s broke", "something")

	output := out.String()
	wantFragments := []string{
		"Received:",
		"pong",
		"saved 42 bytes to file",
		"sent->",
		"hello",
		"256 bytes transmitted from data.bin",
		"Redirection: to shell",
		"Error: something broke",
	}

	for _, fragment := range wantFragments {
		if !strings.Contains(output, fragment) {
			t.Errorf("output missing %q in %q", fragment, output)
		}
	}
}

func TestAnnounceReceivedKeepsRawBytes(t *testing.T) {
	var out bytes.Buffer
	d := NewDisplay(&out)

	data := []byte{0x01, 'a', 0xff}
	d.AnnounceReceived(data)

	if !bytes.Contains(out.Bytes(), data) {
		t.Error("inbound bytes were not passed through verbatim")
	}
}

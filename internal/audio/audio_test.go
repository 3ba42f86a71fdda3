package audio

import (
	"bytes"
	"encoding/base64"
	"testing"
)

func wavBytes(n int) []byte {
	b := make([]byte, n)
	copy(b, "RIFF")
	copy(b[8:], "WAVE")
	return b
}

func TestDecodeBase64PlainPayload(t *testing.T) {
	raw := []byte("hello audio")
	got, hint, err := DecodeBase64MaybeDataURL(base64.StdEncoding.EncodeToString(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(got, raw) {
		t.Errorf("decoded = %q, want %q", got, raw)
	}
	if hint != "" {
		t.Errorf("hint = %q, want empty", hint)
	}
}

func TestDecodeBase64DataURL(t *testing.T) {
	raw := wavBytes(16)
	payload := "data:audio/wav;base64," + base64.StdEncoding.EncodeToString(raw)

	got, hint, err := DecodeBase64MaybeDataURL(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(got, raw) {
		t.Errorf("decoded bytes do not match input")
	}
	if hint != "audio/wav" {
		t.Errorf("hint = %q, want audio/wav", hint)
	}
}

func TestDecodeBase64URLSafeFallback(t *testing.T) {
	raw := []byte{0xfb, 0xff, 0xfe, 0x01, 0x02}
	enc := base64.URLEncoding.EncodeToString(raw)

	got, _, err := DecodeBase64MaybeDataURL(enc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(got, raw) {
		t.Errorf("decoded = %v, want %v", got, raw)
	}
}

func TestDecodeBase64Invalid(t *testing.T) {
	if _, _, err := DecodeBase64MaybeDataURL("!!not-base64!!"); err == nil {
		t.Fatal("expected error for invalid base64")
	}
}

func TestSniffMIME(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"wav", wavBytes(12), "audio/wav"},
		{"ogg", []byte("OggS\x00\x02rest"), "audio/ogg"},
		{"webm", []byte{0x1A, 0x45, 0xDF, 0xA3, 0x00}, "audio/webm"},
		{"unknown", []byte("mp3?"), ""},
		{"short", []byte("RI"), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SniffMIME(tt.data); got != tt.want {
				t.Errorf("SniffMIME = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveMIMEPrecedence(t *testing.T) {
	data := wavBytes(12)

	if got := ResolveMIME("Audio/OGG", "audio/wav", data); got != "audio/ogg" {
		t.Errorf("explicit hint should win, got %q", got)
	}
	if got := ResolveMIME("", "Audio/Webm", data); got != "audio/webm" {
		t.Errorf("data-url hint should win over sniffing, got %q", got)
	}
	if got := ResolveMIME("", "", data); got != "audio/wav" {
		t.Errorf("sniffing fallback, got %q", got)
	}
}

func TestIsWebM(t *testing.T) {
	for _, mime := range []string{"audio/webm", "AUDIO/WEBM", "audio/webm;codecs=opus", "video/webm"} {
		if !IsWebM(mime) {
			t.Errorf("IsWebM(%q) = false, want true", mime)
		}
	}
	for _, mime := range []string{"audio/ogg", "audio/wav", ""} {
		if IsWebM(mime) {
			t.Errorf("IsWebM(%q) = true, want false", mime)
		}
	}
}

package audio

import (
	"bytes"
	"encoding/base64"
	"strings"
)

// MinBytes is the smallest decoded payload the upstream API can do anything
// with; shorter buffers are treated as empty recordings.
const MinBytes = 2000

// DecodeBase64MaybeDataURL decodes a base64 audio payload. If the payload is a
// data URL ("data:<mime>;base64,<payload>") the MIME from the prefix is
// returned as a hint alongside the decoded bytes.
func DecodeBase64MaybeDataURL(s string) ([]byte, string, error) {
	s = strings.TrimSpace(s)
	var hintMIME string
	if strings.HasPrefix(s, "data:") {
		if idx := strings.IndexByte(s, ','); idx > 0 {
			meta := s[len("data:"):idx] // "<mime>;base64"
			if semi := strings.IndexByte(meta, ';'); semi >= 0 {
				hintMIME = meta[:semi]
			} else {
				hintMIME = meta
			}
			s = s[idx+1:]
		}
	}
	// Standard base64 first, then URL-safe as a fallback for browser clients
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, hintMIME, nil
	} else if b2, err2 := base64.URLEncoding.DecodeString(s); err2 == nil {
		return b2, hintMIME, nil
	} else {
		return nil, "", err
	}
}

// SniffMIME detects the audio container from magic bytes.
func SniffMIME(b []byte) string {
	// RIFF....WAVE
	if len(b) >= 12 && bytes.Equal(b[:4], []byte("RIFF")) && bytes.Equal(b[8:12], []byte("WAVE")) {
		return "audio/wav"
	}
	// Ogg page header
	if len(b) >= 4 && bytes.Equal(b[:4], []byte("OggS")) {
		return "audio/ogg"
	}
	// EBML header, shared by WebM and Matroska
	if len(b) >= 4 && b[0] == 0x1A && b[1] == 0x45 && b[2] == 0xDF && b[3] == 0xA3 {
		return "audio/webm"
	}
	return ""
}

// ResolveMIME picks the container type: explicit client hint first, then the
// data-URL prefix, then magic-byte sniffing. The result is lowercased.
func ResolveMIME(explicit, hint string, data []byte) string {
	if exp := strings.TrimSpace(explicit); exp != "" {
		return strings.ToLower(exp)
	}
	if h := strings.TrimSpace(hint); h != "" {
		return strings.ToLower(h)
	}
	return SniffMIME(data)
}

// IsWebM reports whether the MIME string names the WebM container family,
// which the upstream REST API does not accept.
func IsWebM(mime string) bool {
	return strings.Contains(strings.ToLower(mime), "webm")
}

// IsOgg reports whether the MIME string names an Ogg container.
func IsOgg(mime string) bool {
	return strings.Contains(strings.ToLower(mime), "ogg")
}

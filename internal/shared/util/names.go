package util

import (
	"crypto/sha256"
	"encoding/hex"
	"path"
	"strings"
	"unicode"
)

const maxUploadNameLen = 128

// UploadName reduces a client-supplied file name to a bare name that is safe to
// send in a multipart header. Directory parts and control characters are dropped;
// an unusable name becomes fallback.
func UploadName(name, fallback string) string {
	s := strings.ReplaceAll(strings.TrimSpace(name), `\`, "/")
	s = path.Base(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || r == '"' {
			return -1
		}
		return r
	}, s)
	s = strings.TrimSpace(s)
	if s == "" || s == "." || s == "/" || strings.Trim(s, ".") == "" {
		return fallback
	}
	if len(s) > maxUploadNameLen {
		ext := path.Ext(s)
		if len(ext) > 16 {
			ext = ""
		}
		s = strings.ToValidUTF8(s[:maxUploadNameLen-len(ext)], "") + ext
	}
	return s
}

// SessionObjectKey is the object-store key of a per-session document. Only the
// sha256 of the session id reaches the key.
func SessionObjectKey(sessionID, name string) string {
	sum := sha256.Sum256([]byte(sessionID))
	return path.Join("sessions", hex.EncodeToString(sum[:]), name+".json")
}

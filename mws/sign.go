package mws

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

// Signature Version 2 constants sent with every request.
const (
	SignatureMethod  = "HmacSHA256"
	SignatureVersion = "2"
)

// percentEncode escapes a string per RFC 3986: unreserved characters
// (A-Z a-z 0-9 - _ . ~) pass through, everything else becomes %XX.
// This differs from url.QueryEscape, which emits '+' for spaces and
// leaves characters the signature scheme requires escaped.
func percentEncode(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			b.WriteByte(c)
		case c == '-' || c == '_' || c == '.' || c == '~':
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&0xf])
		}
	}
	return b.String()
}

const upperhex = "0123456789ABCDEF"

// stringToSign builds the Signature Version 2 canonical request string:
//
//	POST\n
//	{lowercase host}\n
//	{path}\n
//	{canonical query}
func stringToSign(method, host, path string, vals Values) string {
	if path == "" {
		path = "/"
	}
	return strings.Join([]string{
		method,
		strings.ToLower(host),
		path,
		vals.Encode(),
	}, "\n")
}

// sign computes the base64 HMAC-SHA256 signature over the canonical
// request string.
func sign(secretKey, toSign string) string {
	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(toSign))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// SignValues computes the Signature parameter for a request. The
// Signature key itself is excluded from the canonical string, so the
// parameter set may be signed in place.
func SignValues(vals Values, method, host, path, secretKey string) string {
	canonical := vals
	if _, ok := vals["Signature"]; ok {
		canonical = vals.Clone()
		delete(canonical, "Signature")
	}
	return sign(secretKey, stringToSign(method, host, path, canonical))
}

// Package analyzer implements the per-page HTML analysis step: charset
// decoding, the stop-pattern scan, regex/email extraction, and link
// collection for Admission. It makes a single pass over the body using
// x/net/html for structure, decomposed into the ordered operations a
// spider run needs.
package analyzer

import "golang.org/x/net/html/charset"

// decodeBody converts body to UTF-8 using charset.DetermineEncoding. That
// call checks, in order, a byte-order mark, a recognized charset in the
// Content-Type header, and then a <meta> charset declaration in the first
// 1024 bytes. A header charset therefore takes precedence over a
// conflicting <meta> declaration; the <meta> charset is used only when the
// header names none (or names one that is not recognized). A body that
// fails to decode is returned unchanged.
func decodeBody(body []byte, contentType string) []byte {
	enc, name, _ := charset.DetermineEncoding(body, contentType)
	if name == "utf-8" {
		return body
	}
	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return body
	}
	return decoded
}

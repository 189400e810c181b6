package httpclient

import (
	"bytes"
	"mime"

	"golang.org/x/net/html/charset"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decodeText converts body to a UTF-8 string using the charset declared in
// contentType. Unknown or undeclared charsets are treated as UTF-8.
func decodeText(contentType string, body []byte) string {
	if len(body) == 0 {
		return ""
	}

	if label := charsetLabel(contentType); label != "" {
		if enc, name := charset.Lookup(label); enc != nil && name != "utf-8" {
			if out, err := enc.NewDecoder().Bytes(body); err == nil {
				return string(out)
			}
		}
	}

	return string(bytes.TrimPrefix(body, utf8BOM))
}

func charsetLabel(contentType string) string {
	if contentType == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return params["charset"]
}

package fetcher

import (
	"bytes"
	"io"
	"mime"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// DecodeText converts a raw body to a UTF-8 string. The charset parameter
// of contentType wins; without one, valid UTF-8 is returned unchanged and
// anything else goes through charset sniffing.
func DecodeText(body []byte, contentType string) string {
	if enc := declaredEncoding(contentType); enc != nil {
		if decoded, err := decodeWith(body, enc); err == nil {
			return decoded
		}
		return string(body)
	}

	if utf8.Valid(body) {
		return string(body)
	}

	enc, _, _ := charset.DetermineEncoding(body, contentType)
	decoded, err := decodeWith(body, enc)
	if err != nil {
		return string(body)
	}
	return decoded
}

// declaredEncoding returns the encoding named by the charset parameter,
// or nil when there is none or it is unknown
func declaredEncoding(contentType string) encoding.Encoding {
	if contentType == "" {
		return nil
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil
	}
	name := strings.ToLower(strings.TrimSpace(params["charset"]))
	if name == "" {
		return nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil
	}
	return enc
}

func decodeWith(body []byte, enc encoding.Encoding) (string, error) {
	reader := transform.NewReader(bytes.NewReader(body), enc.NewDecoder())
	out, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

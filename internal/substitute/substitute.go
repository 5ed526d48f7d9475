// Package substitute implements the placeholder substitution engine shared
// by template preview generation and per-recipient certificate issuance.
// It is a pure transformation: (markup, ordered bindings) -> markup.
package substitute

import (
	"regexp"
	"strings"

	"github.com/Aswajit1997/Dicert/internal/model"
)

// PreviewUniqueID is the cosmetic stand-in rendered into template previews
// in place of the real unique code.
const PreviewUniqueID = "uniqueID"

var uniqueIDPattern = regexp.MustCompile(`{{\s*` + model.FieldUniqueID + `\s*}}`)

// tokenPattern matches the literal placeholder token for a field,
// whitespace-tolerant: {{ name }}, {{name}}, etc.
func tokenPattern(fieldName string) *regexp.Regexp {
	return regexp.MustCompile(`{{\s*` + regexp.QuoteMeta(fieldName) + `\s*}}`)
}

// imgSrcPattern matches an <img> tag whose src attribute is the field's
// token. Tokens outside an img src position are deliberately not matched.
func imgSrcPattern(fieldName string) *regexp.Regexp {
	return regexp.MustCompile(`<img\s+[^>]*src=\s*{{\s*` + regexp.QuoteMeta(fieldName) + `\s*}}`)
}

// cssURLPattern matches the field's token inside a CSS url(...) expression.
func cssURLPattern(fieldName string) *regexp.Regexp {
	return regexp.MustCompile(`url\(["']\s*{{\s*` + regexp.QuoteMeta(fieldName) + `\s*}}\s*["']\)`)
}

// Apply replaces every binding's tokens in markup, one single pass per
// field, in binding order. Strategy depends on the field kind:
//
//   - text/number/date: literal replacement of {{ name }} with the value
//   - file, reserved backgroundFrame/backgroundUrl: only inside url(...)
//   - file, any other name: only as the src attribute of an <img> tag
//   - file, reserved qrCode: skipped entirely; handled by EmbedQR after
//     the certificate identity is allocated
//
// Tokens with no matching binding are left untouched: templates may
// reference fields a particular data set does not supply.
func Apply(markup string, bindings []model.FieldBinding) string {
	out := markup
	for _, b := range bindings {
		switch {
		case b.IsFile() && b.FieldName == model.FieldQRCode:
			continue
		case b.IsFile() && (b.FieldName == model.FieldBackgroundFrame || b.FieldName == model.FieldBackgroundURL):
			out = cssURLPattern(b.FieldName).ReplaceAllLiteralString(out, `url("`+b.Value+`")`)
		case b.IsFile():
			out = imgSrcPattern(b.FieldName).ReplaceAllLiteralString(out, `<img src="`+b.Value+`"`)
		default:
			out = tokenPattern(b.FieldName).ReplaceAllLiteralString(out, b.Value)
		}
	}
	return out
}

// ApplyRow replaces bulk-data row values as literal text tokens. Row keys
// are column header names; values are trusted operator input and are not
// HTML-escaped.
func ApplyRow(markup string, row map[string]string) string {
	out := markup
	for key, value := range row {
		if strings.TrimSpace(key) == "" {
			continue
		}
		out = tokenPattern(key).ReplaceAllLiteralString(out, value)
	}
	return out
}

// EmbedQR substitutes the stored QR image URL for the reserved qrCode file
// field. Run after Apply, once the proof image exists.
func EmbedQR(markup, qrImageURL string) string {
	return imgSrcPattern(model.FieldQRCode).ReplaceAllLiteralString(markup, `<img src="`+qrImageURL+`"`)
}

// ReplaceUniqueID substitutes the reserved {{ uniqueId }} token. Previews
// pass PreviewUniqueID; issuance passes the allocated code.
func ReplaceUniqueID(markup, value string) string {
	return uniqueIDPattern.ReplaceAllLiteralString(markup, value)
}

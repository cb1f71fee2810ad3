package app

import (
	"net/url"
	"regexp"
)

var sheetPathRe = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)

// ExtractSheetID pulls a spreadsheet ID out of a sharable URL. Supported
// shapes: .../spreadsheets/d/{ID}[/edit] and drive open?id={ID}. Returns ""
// when nothing matches; never errors.
func ExtractSheetID(raw string) string {
	if raw == "" {
		return ""
	}
	if m := sheetPathRe.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Query().Get("id")
}

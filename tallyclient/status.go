package tallyclient

import (
	"regexp"
	"strings"

	"github.com/mmdatafocus/tally-warehouse-sync/utils"
)

var errorPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)<LINEERROR>(.*?)</LINEERROR>`),
	regexp.MustCompile(`(?is)<ERRORMSG>(.*?)</ERRORMSG>`),
	regexp.MustCompile(`(?is)<ERROR>(.*?)</ERROR>`),
}

var statusTag = regexp.MustCompile(`(?is)<STATUS>\s*(\S+?)\s*</STATUS>`)

// validateStatus reads the response's STATUS tag per spec.md §4.1: absent
// STATUS is treated as success (older Tally builds omit it); STATUS present
// and not "1" fails with the extracted LINEERROR/ERRORMSG/ERROR text.
func validateStatus(text string) error {
	m := statusTag.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	if strings.TrimSpace(m[1]) == "1" {
		return nil
	}
	return utils.NewError(utils.SourceLogicalError, extractError(text), nil)
}

func extractError(text string) string {
	for _, pattern := range errorPatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			return unescapeXMLEntities(strings.TrimSpace(m[1]))
		}
	}
	return "tally rejected the request"
}

func unescapeXMLEntities(s string) string {
	s = strings.ReplaceAll(s, "&apos;", "'")
	s = strings.ReplaceAll(s, "&quot;", `"`)
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&amp;", "&")
	return s
}

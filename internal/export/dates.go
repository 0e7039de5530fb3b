package export

import (
	"fmt"
	"strconv"
	"strings"
)

// dateSeparators are the punctuation and counter glyphs seen around dates
// on Japanese business forms.
func isDateSeparator(r rune) bool {
	switch r {
	case '/', '-', '.', ' ', '　', '年', '月', '日':
		return true
	}
	return false
}

// NormalizeDate reduces a near-yyyyMMdd date string to digits. A value that
// splits cleanly into year, month and day is zero-padded to eight digits
// ("2023年10月1日" → "20231001"); anything else only has the known
// separators removed. Era-based years ("R5.10.1") are not converted, and no
// calendar validation is performed.
func NormalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	parts := strings.FieldsFunc(s, isDateSeparator)
	if len(parts) == 3 {
		y, errY := strconv.Atoi(parts[0])
		m, errM := strconv.Atoi(parts[1])
		d, errD := strconv.Atoi(parts[2])
		if errY == nil && errM == nil && errD == nil {
			return fmt.Sprintf("%04d%02d%02d", y, m, d)
		}
	}
	return strings.Join(parts, "")
}

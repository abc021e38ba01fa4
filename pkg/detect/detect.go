// Package detect classifies a raw input value into a coarse PII type, which
// drives which dork templates apply to it.
package detect

import (
	"regexp"
	"strings"
	"unicode"
)

type Type string

const (
	Email        Type = "email"
	NIK          Type = "nik"
	Phone        Type = "phone"
	Date         Type = "date"
	NameDOB      Type = "name_dob"
	Numeric      Type = "numeric"
	Alphanumeric Type = "alphanumeric"
	Unknown      Type = "unknown"
)

// patterns are checked in order; the specific formats win over the generic
// fallbacks below.
var patterns = []struct {
	t  Type
	re *regexp.Regexp
}{
	{Email, regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)},
	{NIK, regexp.MustCompile(`^\d{16}$`)},
	{Phone, regexp.MustCompile(`^(?:\+62|62|0)8[1-9][0-9]{6,9}$`)},
	{Date, regexp.MustCompile(`^(?:\d{2}[-/]\d{2}[-/](?:19|20)\d{2})$`)},
}

var yearRe = regexp.MustCompile(`\d{4}`)

func Detect(value string) Type {
	v := strings.TrimSpace(value)

	if v == "" {
		return Unknown
	}

	// "Name|DOB" composite values
	if strings.Contains(v, "|") && yearRe.MatchString(v) {
		return NameDOB
	}

	for _, p := range patterns {
		if p.re.MatchString(v) {
			return p.t
		}
	}

	if isDigits(v) {
		return Numeric
	}

	if containsFunc(v, unicode.IsLetter) && containsFunc(v, unicode.IsDigit) {
		return Alphanumeric
	}

	return Unknown
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}

	return s != ""
}

func containsFunc(s string, fn func(rune) bool) bool {
	for _, r := range s {
		if fn(r) {
			return true
		}
	}

	return false
}

// Package dork builds site-scoped search queries from a detected PII value.
package dork

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aliwirawan/dorklens/pkg/detect"
)

var domainRe = regexp.MustCompile(`^(?:[a-zA-Z0-9-]+\.)+[a-zA-Z]{2,63}$`)

// ValidDomain reports whether s looks like a registrable domain name.
func ValidDomain(s string) bool {
	return domainRe.MatchString(strings.ToLower(strings.TrimSpace(s)))
}

// ForDomain expands a value into the dork variants worth running against one
// domain. Spreadsheet filetypes are added for identifiers that tend to leak
// in exports; PDFs for name+DOB documents.
func ForDomain(domain, value string, t detect.Type) []string {
	base := "site:" + domain

	switch t {
	case detect.Email:
		return []string{
			fmt.Sprintf(`%s "%s"`, base, value),
			fmt.Sprintf(`%s intext:"%s"`, base, value),
		}

	case detect.Phone, detect.NIK, detect.Numeric:
		return []string{
			fmt.Sprintf(`%s "%s"`, base, value),
			fmt.Sprintf(`%s intext:"%s"`, base, value),
			fmt.Sprintf(`%s filetype:xls intext:"%s"`, base, value),
		}

	case detect.NameDOB:
		name, dob, _ := strings.Cut(value, "|")

		return []string{
			fmt.Sprintf(`%s "%s" "%s"`, base, name, dob),
			fmt.Sprintf(`%s intext:"%s" filetype:pdf`, base, name),
		}

	default:
		return []string{
			fmt.Sprintf(`%s "%s"`, base, value),
			fmt.Sprintf(`%s intext:"%s"`, base, value),
		}
	}
}

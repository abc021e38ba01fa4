package dork

import (
	"testing"

	"github.com/aliwirawan/dorklens/pkg/detect"
)

func TestValidDomain(t *testing.T) {
	valid := []string{"example.com", "a.b.example.co.id", " Example.COM "}
	invalid := []string{"example", "http://example.com", "exa mple.com", ""}

	for _, d := range valid {
		if !ValidDomain(d) {
			t.Errorf("ValidDomain(%q) = false, want true", d)
		}
	}

	for _, d := range invalid {
		if ValidDomain(d) {
			t.Errorf("ValidDomain(%q) = true, want false", d)
		}
	}
}

func TestForDomain(t *testing.T) {
	t.Run("email", func(t *testing.T) {
		dorks := ForDomain("example.com", "user@example.com", detect.Email)

		if len(dorks) != 2 {
			t.Fatalf("got %d dorks, want 2", len(dorks))
		}

		if dorks[0] != `site:example.com "user@example.com"` {
			t.Errorf("got %q", dorks[0])
		}

		if dorks[1] != `site:example.com intext:"user@example.com"` {
			t.Errorf("got %q", dorks[1])
		}
	})

	t.Run("nik includes spreadsheet variant", func(t *testing.T) {
		dorks := ForDomain("example.com", "1234567890123456", detect.NIK)

		if len(dorks) != 3 {
			t.Fatalf("got %d dorks, want 3", len(dorks))
		}

		if dorks[2] != `site:example.com filetype:xls intext:"1234567890123456"` {
			t.Errorf("got %q", dorks[2])
		}
	})

	t.Run("name_dob splits the value", func(t *testing.T) {
		dorks := ForDomain("example.com", "Budi Santoso|1998", detect.NameDOB)

		if dorks[0] != `site:example.com "Budi Santoso" "1998"` {
			t.Errorf("got %q", dorks[0])
		}

		if dorks[1] != `site:example.com intext:"Budi Santoso" filetype:pdf` {
			t.Errorf("got %q", dorks[1])
		}
	})
}

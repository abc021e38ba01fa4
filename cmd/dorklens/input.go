package main

import (
	"bufio"
	"encoding/csv"
	"os"
	"strings"
)

// readLines returns the non-empty, non-comment lines of a text file.
func readLines(path string) ([]string, error) {
	f, err := os.Open(path)

	if err != nil {
		return nil, err
	}

	defer f.Close()

	var lines []string

	scanner := bufio.NewScanner(f)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		lines = append(lines, line)
	}

	return lines, scanner.Err()
}

// saveTemplates writes the generated dorks before execution, one row per
// dork, so a dry run leaves a reusable plan behind.
func saveTemplates(path string, tasks []task) error {
	f, err := os.Create(path)

	if err != nil {
		return err
	}

	defer f.Close()

	w := csv.NewWriter(f)

	if err := w.Write([]string{"domain", "value", "detected_type", "dork"}); err != nil {
		return err
	}

	for _, t := range tasks {
		if err := w.Write([]string{t.domain, t.value, string(t.detected), t.dork}); err != nil {
			return err
		}
	}

	w.Flush()

	return w.Error()
}

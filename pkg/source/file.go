package source

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"content-sync/pkg/domain"
)

// FileSource reads entries from a local file, one URL per line. A line may
// carry a title after a tab.
type FileSource struct {
	path string
}

// NewFileSource creates a new file source
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Entries reads the file. Blank lines and # comments are skipped.
func (s *FileSource) Entries(ctx context.Context) ([]domain.Entry, error) {
	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var entries []domain.Entry
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		location, title, _ := strings.Cut(line, "\t")
		location = strings.TrimRight(location, ", ")
		if location == "" {
			continue
		}

		entries = append(entries, domain.Entry{
			URL:   location,
			Title: strings.TrimSpace(title),
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file at line %d: %w", lineNum, err)
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("no URLs found in file")
	}

	return entries, nil
}

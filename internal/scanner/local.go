// Package scanner discovers quiz markdown documents in a local
// checkout of the source repository. The upstream layout is one
// directory per topic holding a "<topic>-quiz.md" file.
package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"quizdeck/internal/topicname"
)

// Candidate is one discovered quiz document: the topic slug inferred
// from the directory name, a name inferred from the slug, and the
// path of the markdown file.
type Candidate struct {
	Slug string
	Name string
	Path string
}

// ScanRepo walks the top-level directories of root and returns a
// candidate per directory that contains its "<dir>-quiz.md" file,
// sorted by slug. Directories without a quiz file are skipped, not
// errors; the upstream repo carries plenty of non-quiz directories.
func ScanRepo(root string) ([]Candidate, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read repo root %s: %w", root, err)
	}

	var candidates []Candidate
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		slug := strings.ToLower(entry.Name())
		path := filepath.Join(root, entry.Name(), entry.Name()+"-quiz.md")
		if _, err := os.Stat(path); err != nil {
			continue
		}

		candidates = append(candidates, Candidate{
			Slug: slug,
			Name: topicname.SlugToName(slug),
			Path: path,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Slug < candidates[j].Slug
	})
	return candidates, nil
}

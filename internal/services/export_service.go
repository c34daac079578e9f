package services

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/yargevad/filepathx"

	"aaruto/internal/models"
)

// ExportService writes character sheets as markdown files under the export
// directory and lists what has been written so far.
type ExportService interface {
	ExportResult(result models.GeneratedResult) (string, error)
	ListExports() ([]string, error)
	ExportDir() string
}

type exportService struct {
	baseDir string
}

// NewExportService uses dir when given, otherwise ~/Aaruto.
func NewExportService(dir string) (ExportService, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve export directory: %w", err)
		}
		dir = filepath.Join(home, "Aaruto")
	}
	return &exportService{baseDir: dir}, nil
}

func (s *exportService) ExportDir() string {
	return s.baseDir
}

var unsafeFilename = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// ExportResult writes the sheet and returns the path it landed at. The
// filename combines the character name with the creation timestamp so repeat
// exports never collide.
func (s *exportService) ExportResult(result models.GeneratedResult) (string, error) {
	if err := result.Design.Validate(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", s.baseDir, err)
	}

	name := unsafeFilename.ReplaceAllString(result.Design.Name, "_")
	if name == "" {
		name = "character"
	}
	path := filepath.Join(s.baseDir, fmt.Sprintf("%s_%d.md", name, result.Timestamp))

	if err := os.WriteFile(path, []byte(buildCharacterSheet(result)), 0644); err != nil {
		return "", fmt.Errorf("failed to write file %s: %w", path, err)
	}
	return path, nil
}

// ListExports returns every markdown sheet under the export directory,
// including subdirectories a user may have sorted sheets into.
func (s *exportService) ListExports() ([]string, error) {
	matches, err := filepathx.Glob(filepath.Join(s.baseDir, "**", "*.md"))
	if err != nil {
		return nil, fmt.Errorf("list exports: %w", err)
	}
	return matches, nil
}

func buildCharacterSheet(result models.GeneratedResult) string {
	d := result.Design
	var b strings.Builder

	b.WriteString(fmt.Sprintf("# %s\n\n", d.Name))
	b.WriteString(fmt.Sprintf("*%s*\n\n", d.Title))

	b.WriteString("---\n\n")
	b.WriteString(fmt.Sprintf("- Aesthetic: %s\n", d.Aesthetic))
	b.WriteString(fmt.Sprintf("- Homeworld: %s\n", d.Homeworld))
	b.WriteString(fmt.Sprintf("- Evolution Stage: %d\n", d.EvolutionStage))
	b.WriteString(fmt.Sprintf("- Quality: %s\n", result.Quality))
	b.WriteString(fmt.Sprintf("- Manifested: %s\n\n", time.UnixMilli(result.Timestamp).Format("2006-01-02 15:04")))

	b.WriteString("## Personality\n")
	b.WriteString(d.Personality + "\n\n")

	b.WriteString("## Powers\n")
	for _, p := range d.Powers {
		b.WriteString(fmt.Sprintf("- %s\n", p))
	}
	b.WriteString("\n")

	b.WriteString("## Stats\n")
	b.WriteString(fmt.Sprintf("- Strength: %d\n", d.Stats.Strength))
	b.WriteString(fmt.Sprintf("- Agility: %d\n", d.Stats.Agility))
	b.WriteString(fmt.Sprintf("- Intelligence: %d\n", d.Stats.Intelligence))
	b.WriteString(fmt.Sprintf("- Stamina: %d\n\n", d.Stats.Stamina))

	b.WriteString("## Visual Traits\n")
	b.WriteString(d.VisualTraits + "\n\n")

	b.WriteString("## Lore\n")
	b.WriteString(d.Lore + "\n")

	return b.String()
}

// Package skills reads SKILL.md skill definitions: a markdown body with an
// optional leading frontmatter block of key:value lines delimited by "---".
//
// The frontmatter grammar is deliberately lenient — it is not YAML. Lines
// without a colon are ignored, keys and values are whitespace-trimmed, and
// when a key repeats the last occurrence wins.
package skills

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// SkillFileName is the file a skill directory must contain.
const SkillFileName = "SKILL.md"

// ErrNotFound reports a missing skill directory or SKILL.md file.
var ErrNotFound = errors.New("skill not found")

// Skill is the parsed, read-only view of one SKILL.md file.
type Skill struct {
	Name        string
	Frontmatter map[string]string
	Body        string
}

// Description returns the frontmatter description, or fallback when the key
// is absent.
func (s *Skill) Description(fallback string) string {
	if d, ok := s.Frontmatter["description"]; ok {
		return d
	}
	return fallback
}

// Parse reads and parses the SKILL.md inside skillDir.
func Parse(skillDir string) (*Skill, error) {
	path := filepath.Join(skillDir, SkillFileName)

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNotFound, "%s not found in %s", SkillFileName, skillDir)
		}
		return nil, errors.Wrap(err, "failed to read skill file")
	}

	frontmatter, body := splitFrontmatter(string(content))

	return &Skill{
		Name:        filepath.Base(skillDir),
		Frontmatter: frontmatter,
		Body:        body,
	}, nil
}

// splitFrontmatter separates the leading frontmatter block from the body.
// Content that does not start with "---", or that contains fewer than two
// delimiters, is treated as all body with empty frontmatter.
func splitFrontmatter(content string) (map[string]string, string) {
	frontmatter := make(map[string]string)

	if !strings.HasPrefix(content, "---") {
		return frontmatter, content
	}

	parts := strings.SplitN(content, "---", 3)
	if len(parts) < 3 {
		return frontmatter, content
	}

	for _, line := range strings.Split(parts[1], "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		frontmatter[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	return frontmatter, strings.TrimSpace(parts[2])
}

// ResolveDir locates the directory for a named skill within a synced
// repository checkout: skills/<name> first, then <name> at the root.
func ResolveDir(repoPath, skillName string) (string, error) {
	candidates := []string{
		filepath.Join(repoPath, "skills", skillName),
		filepath.Join(repoPath, skillName),
	}

	for _, dir := range candidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir, nil
		}
	}

	return "", errors.Wrapf(ErrNotFound, "skill '%s' not found in %s", skillName, repoPath)
}

// Package artifacts renders parsed skills into their on-disk artifact
// forms — workflow files and workspace rule files — and lists/removes the
// installed files. Global rule blocks are rendered here but persisted by
// the rulesdoc package.
package artifacts

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"

	"github.com/antigravity-tools/antigravity-skills/pkg/skills"
)

// ErrNotFound reports a missing artifact file on removal.
var ErrNotFound = errors.New("artifact not found")

// Activation type values for workspace rules.
const (
	ActivationManual        = "manual"
	ActivationAlwaysOn      = "always-on"
	ActivationModelDecision = "model-decision"
	ActivationGlob          = "glob"
)

// Activation describes when a workspace rule applies.
type Activation struct {
	Type string
	Glob string
}

// Validate checks the activation type and, for glob activation, requires a
// well-formed pattern.
func (a Activation) Validate() error {
	switch a.Type {
	case ActivationManual, ActivationAlwaysOn, ActivationModelDecision:
		return nil
	case ActivationGlob:
		if a.Glob == "" {
			return errors.New("a glob pattern is required when activation type is 'glob'")
		}
		if !doublestar.ValidatePattern(a.Glob) {
			return errors.Errorf("invalid glob pattern %q", a.Glob)
		}
		return nil
	default:
		return errors.Errorf("unknown activation type %q", a.Type)
	}
}

// WriteWorkflow renders a skill as a workflow file <dir>/<name>.md,
// overwriting any existing file, and returns the written path.
func WriteWorkflow(dir, name string, skill *skills.Skill) (string, error) {
	description := skill.Description("Workflow for " + name)

	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("description: " + description + "\n")
	b.WriteString("---\n")
	b.WriteString(skill.Body + "\n")

	return writeArtifact(dir, name, b.String())
}

// WriteWorkspaceRule renders a skill as a workspace rule file
// <dir>/<name>.md. A nil activation omits the activation frontmatter; a
// non-nil one is validated before anything is written.
func WriteWorkspaceRule(dir, name string, skill *skills.Skill, activation *Activation) (string, error) {
	if activation != nil {
		if err := activation.Validate(); err != nil {
			return "", err
		}
	}

	description := skill.Description("Rule for " + name)

	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("description: " + description + "\n")
	if activation != nil {
		b.WriteString("activation:\n")
		b.WriteString("  type: " + activation.Type + "\n")
		if activation.Type == ActivationGlob {
			b.WriteString("  glob: " + activation.Glob + "\n")
		}
	}
	b.WriteString("---\n\n")
	b.WriteString(skill.Body)

	return writeArtifact(dir, name, b.String())
}

// GlobalRuleContent builds the block content for a global rule: the skill
// body, preceded by the description as an HTML comment when one is present.
func GlobalRuleContent(skill *skills.Skill) string {
	if description, ok := skill.Frontmatter["description"]; ok {
		return "<!-- " + description + " -->\n\n" + skill.Body
	}
	return skill.Body
}

func writeArtifact(dir, name, content string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "failed to create artifact directory")
	}

	path := filepath.Join(dir, name+".md")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", errors.Wrap(err, "failed to write artifact")
	}
	return path, nil
}

// List returns the sorted skill names with a .md artifact in dir. A missing
// directory lists as empty.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to read artifact directory")
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".md"))
	}
	sort.Strings(names)
	return names, nil
}

// Remove deletes <dir>/<name>.md. A missing file reports ErrNotFound.
func Remove(dir, name string) error {
	path := filepath.Join(dir, name+".md")
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(ErrNotFound, "%s", path)
		}
		return errors.Wrap(err, "failed to remove artifact")
	}
	return nil
}

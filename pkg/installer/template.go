package installer

import (
	"os"
	"path"
	"strings"

	"github.com/arthur-debert/driverinstall/pkg/config"
	"github.com/arthur-debert/driverinstall/pkg/errors"
	"github.com/arthur-debert/driverinstall/pkg/logging"
	"github.com/arthur-debert/driverinstall/pkg/types"
	"github.com/arthur-debert/driverinstall/pkg/ui"
)

// Template tokens.
const (
	TokenLibGLPath   = "__LIBGL_PATH__"
	TokenGeneratedBy = "__GENERATED_BY__"
	TokenUtilsPath   = "__UTILS_PATH__"
	TokenDocsPath    = "__DOCS_PATH__"
)

// ProgramName prefixes the __GENERATED_BY__ value.
const ProgramName = "driverinstall"

// Replacement substitutes every occurrence of Token with Value.
type Replacement struct {
	Token string
	Value string
}

// Substitute applies replacements in order as literal replace-all
// operations. Empty tokens are ignored.
func Substitute(content string, replacements []Replacement) string {
	for _, r := range replacements {
		if r.Token == "" {
			continue
		}
		content = strings.ReplaceAll(content, r.Token, r.Value)
	}
	return content
}

// Render loads src, applies replacements and writes the result to a new
// temporary file in tmpDir, returning its path.
func Render(src string, replacements []Replacement, tmpDir string) (string, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrTemplateRender, "unable to read template %s", src).
			WithDetail("path", src)
	}

	rendered := Substitute(string(data), replacements)

	name, err := WriteTemp(tmpDir, "template-*", []byte(rendered), 0600)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrTemplateRender, "unable to render template %s", src).
			WithDetail("path", src)
	}
	return name, nil
}

// TemplateReplacements returns the substitutions for a template entry, or
// nil when the category is not a template.
func TemplateReplacements(e *types.Entry, cfg *config.Config, version string) []Replacement {
	switch e.Category {
	case types.CategoryLibGLLa:
		return []Replacement{
			{Token: TokenLibGLPath, Value: path.Join(cfg.Prefixes.OpenGL, e.RelativePath)},
			{Token: TokenGeneratedBy, Value: ProgramName + ": " + version},
		}
	case types.CategoryDotDesktop:
		return []Replacement{
			{Token: TokenUtilsPath, Value: path.Join(cfg.Prefixes.Utility, "bin")},
			{Token: TokenDocsPath, Value: path.Join(cfg.Prefixes.Documentation, "share", "doc")},
		}
	}
	return nil
}

// RenderTemplates renders every template entry of pkg. Each template entry
// is excluded and a derived entry pointing at the rendered file is
// appended after the walk. A template that cannot be rendered is reported
// through u and stays excluded. version is the installer version written
// into libGL.la files. Rendered files are registered with temps. It returns
// the number of templates rendered.
func RenderTemplates(pkg *types.Package, cfg *config.Config, version string, temps *TempFiles, u ui.UI) int {
	logger := logging.GetLogger("installer")
	var derived []*types.Entry

	for _, e := range pkg.Entries {
		if e.Rendered || !e.Category.Caps().Template {
			continue
		}
		category := e.Category
		replacements := TemplateReplacements(e, cfg, version)

		e.Exclude()

		name, err := Render(e.SourcePath, replacements, temps.Dir)
		if err != nil {
			u.Warn("Unable to process template '%s'; it will not be installed (%v).", e.SourcePath, err)
			logger.Warn().Err(err).Str("template", e.SourcePath).Msg("Skipping template")
			continue
		}
		temps.Add(name)

		derived = append(derived, e.Derive(name, category))
		logger.Debug().
			Str("template", e.SourcePath).
			Str("rendered", name).
			Str("category", category.String()).
			Msg("Rendered template")
	}

	pkg.Append(derived...)
	return len(derived)
}

// Package values builds the Sceptre values YAML file describing an imported
// resource so the stack can be managed by Sceptre from then on.
package values

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ignoredTagKeys are tags the stack machinery applies itself; copying them
// into CommonTags would fight the next Sceptre run.
var ignoredTagKeys = map[string]struct{}{
	"template_version":     {},
	"sceptre_project_code": {},
}

// awsReservedPrefix marks tags owned by AWS services, e.g.
// aws:cloudformation:stack-name.
const awsReservedPrefix = "aws:"

// FilterTags returns the tags eligible for the CommonTags block: the fixed
// ignore set and every aws:-prefixed key are dropped.
func FilterTags(tags map[string]string) map[string]string {
	out := make(map[string]string, len(tags))
	for k, v := range tags {
		if _, ignored := ignoredTagKeys[k]; ignored {
			continue
		}
		if strings.HasPrefix(k, awsReservedPrefix) {
			continue
		}
		out[k] = v
	}
	return out
}

// CamelCase converts a dash/underscore/space separated name into CamelCase,
// ex. "my-service role" -> "MyServiceRole".
func CamelCase(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || r == '_' || r == ' ' || r == '.'
	})
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}

// Doc accumulates the values document. Plugins append resource-specific keys
// after the common source header.
type Doc struct {
	b strings.Builder
}

// NewDoc starts a document with the source header pointing at the Sceptre
// template and version the imported stack is pinned to.
func NewDoc(templatePath, version string) *Doc {
	d := &Doc{}
	d.Raw("source:")
	d.Raw("  path: " + scalar(templatePath))
	d.Raw("  version: " + scalar(version))
	d.Blank()
	return d
}

// Set appends a top-level key/value line.
func (d *Doc) Set(key string, value any) {
	d.Raw(key + ": " + scalar(value))
}

// Raw appends a verbatim line.
func (d *Doc) Raw(line string) {
	d.b.WriteString(line)
	d.b.WriteString("\n")
}

// Blank appends an empty line.
func (d *Doc) Blank() {
	d.b.WriteString("\n")
}

// Tags appends a CommonTags-style block with the filtered tags in sorted
// order. Nothing is written when no tags survive the filter.
func (d *Doc) Tags(key string, tags map[string]string) {
	filtered := FilterTags(tags)
	if len(filtered) == 0 {
		return
	}
	keys := make([]string, 0, len(filtered))
	for k := range filtered {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	d.Raw(key + ":")
	for _, k := range keys {
		d.Raw("  " + k + ": " + scalar(filtered[k]))
	}
}

// SkipDeploy marks the values file so CI skips the deploy step for this
// stack; the import already converged it.
func (d *Doc) SkipDeploy() {
	d.Set("gha_skip_deploy", true)
}

// Bytes renders the document with trailing blank lines collapsed to exactly
// one final newline.
func (d *Doc) Bytes() []byte {
	return TrimTrailingBlankLines([]byte(d.b.String()))
}

// TrimTrailingBlankLines drops trailing whitespace-only lines, leaving the
// content terminated by a single newline.
func TrimTrailingBlankLines(in []byte) []byte {
	out := strings.TrimRight(string(in), " \t\n")
	if out == "" {
		return []byte{}
	}
	return []byte(out + "\n")
}

// WriteFile writes the document, creating the output directory if needed.
func WriteFile(path string, d *Doc) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "creating output directory")
	}
	if err := os.WriteFile(path, d.Bytes(), 0o644); err != nil {
		return errors.Wrapf(err, "writing values file %s", path)
	}
	return nil
}

// scalar renders a value as a YAML scalar, quoting through the YAML encoder
// so ambiguous strings stay strings.
func scalar(value any) string {
	out, err := yaml.Marshal(value)
	if err != nil {
		return fmt.Sprint(value)
	}
	return strings.TrimSuffix(string(out), "\n")
}

// Package importer defines the contract a resource-type plugin fulfills and
// the orchestration that drives an import run. Plugins embed Base, which
// supplies Cloud Control API defaults for every hook except Values.
package importer

import (
	"context"

	"github.com/pkg/errors"

	"github.com/sceptre-tools/sceptre-resource-importer/internal/common"
	"github.com/sceptre-tools/sceptre-resource-importer/internal/values"
)

// Definition carries the per-resource-type constants a plugin must supply.
type Definition struct {
	// TypeName is the registry key and CLI argument, ex. "s3-bucket".
	TypeName string

	// ResourceType is the CloudFormation type, ex. AWS::S3::Bucket.
	ResourceType common.ResourceType

	// LogicalID is the resource's logical ID inside the Sceptre template.
	LogicalID common.LogicalResourceID

	// SceptreStack is the base Sceptre stack name; the full stack name is
	// derived from it and the resource name.
	SceptreStack string

	// Parameter is the resource property that identifies the live resource
	// during the import, ex. BucketName.
	Parameter common.ParameterName

	// OutputDir is the suggested directory under the environment dir for the
	// generated values file.
	OutputDir string

	// TemplatePath is the Sceptre template the values file points at.
	// Defaults to templates/<TypeName>.yaml.
	TemplatePath string
}

// Validate checks the required fields; an incomplete plugin definition aborts
// the run before anything touches AWS.
func (d Definition) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"type name", d.TypeName},
		{"resource type", string(d.ResourceType)},
		{"logical resource ID", string(d.LogicalID)},
		{"sceptre stack name", d.SceptreStack},
		{"parameter name", string(d.Parameter)},
		{"output directory", d.OutputDir},
	}
	for _, r := range required {
		if r.value == "" {
			return errors.Errorf("plugin definition is missing its %s", r.field)
		}
	}
	return nil
}

// Template returns the values-header template path, applying the default.
func (d Definition) Template() string {
	if d.TemplatePath != "" {
		return d.TemplatePath
	}
	return "templates/" + d.TypeName + ".yaml"
}

// Report is the listing of every live resource of the plugin's type.
type Report struct {
	// Identifiers are the primary identifiers returned by the listing call.
	Identifiers []string

	// Raw is a JSON dump of the listing kept for operator inspection.
	Raw []byte
}

// Contains reports whether the listing includes the given resource. Plugins
// whose listings are keyed differently override CheckExists instead.
func (r *Report) Contains(name common.ResourceName) bool {
	for _, id := range r.Identifiers {
		if id == string(name) {
			return true
		}
	}
	return false
}

// Description is the detailed state of the one resource being imported.
type Description struct {
	// Identifier is the primary identifier the describe call resolved,
	// which may differ from the operator-supplied name (ex. a security
	// group ID for a group name).
	Identifier string

	// Properties is the resource state as a property map.
	Properties map[string]any

	// Raw is the unparsed API response body.
	Raw []byte
}

// ValuesInput is everything Values needs to compose the final document.
type ValuesInput struct {
	Name            common.ResourceName
	StackName       common.StackName
	Description     *Description
	Tags            map[string]string
	TemplatePath    string
	TemplateVersion string
	Account         string
	Region          string
}

// Importer is the hook contract a resource-type plugin fulfills. Base
// provides defaults for everything except Definition and Values.
type Importer interface {
	// Definition returns the plugin's constants.
	Definition() Definition

	// Setup runs before any listing; plugins hook it for one-off
	// preparation. The default is a no-op.
	Setup(ctx context.Context, name common.ResourceName) error

	// ListResources dumps every live resource of the plugin's type.
	ListResources(ctx context.Context) (*Report, error)

	// CheckExists confirms the target appears in the listing.
	CheckExists(ctx context.Context, report *Report, name common.ResourceName) error

	// Describe fetches the live state of the target resource.
	Describe(ctx context.Context, name common.ResourceName) (*Description, error)

	// StackName computes the CloudFormation stack name for the import.
	StackName(name common.ResourceName) common.StackName

	// TemplateProperties returns the Properties block of the intermediate
	// template; it must include everything the type requires to validate.
	TemplateProperties(ctx context.Context, desc *Description, name common.ResourceName) (map[string]any, error)

	// ImportIdentifier returns the ResourceIdentifier map for the import
	// change set.
	ImportIdentifier(desc *Description, name common.ResourceName) map[string]string

	// Tags fetches the live tags used for the CommonTags block.
	Tags(ctx context.Context, name common.ResourceName, desc *Description) (map[string]string, error)

	// Values composes the final values document. Every plugin must
	// implement this.
	Values(ctx context.Context, in ValuesInput) (*values.Doc, error)

	// SkipDeploy marks the generated values file so CI skips deploying the
	// freshly imported stack.
	SkipDeploy() bool
}

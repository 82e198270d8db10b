package importer

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudcontrol"
	"github.com/pkg/errors"

	"github.com/sceptre-tools/sceptre-resource-importer/internal/common"
	"github.com/sceptre-tools/sceptre-resource-importer/internal/values"
)

// CloudControlAPI is the slice of the Cloud Control API the defaults use.
// The paginator accepts it directly.
type CloudControlAPI interface {
	ListResources(ctx context.Context, in *cloudcontrol.ListResourcesInput, optFns ...func(*cloudcontrol.Options)) (*cloudcontrol.ListResourcesOutput, error)
	GetResource(ctx context.Context, in *cloudcontrol.GetResourceInput, optFns ...func(*cloudcontrol.Options)) (*cloudcontrol.GetResourceOutput, error)
}

// Base carries the plugin definition and supplies Cloud Control-backed
// defaults for the hook contract. Resource types whose listings are shaped
// differently (maps, filters, name-to-ID lookups) override the relevant hook.
type Base struct {
	Def Definition
	CC  CloudControlAPI
}

// NewBase builds a Base with a real Cloud Control client.
func NewBase(def Definition, awsCfg aws.Config) Base {
	return Base{Def: def, CC: cloudcontrol.NewFromConfig(awsCfg)}
}

func (b Base) Definition() Definition { return b.Def }

// Setup is a no-op by default.
func (b Base) Setup(ctx context.Context, name common.ResourceName) error { return nil }

type listEntry struct {
	Identifier string         `json:"Identifier"`
	Properties map[string]any `json:"Properties,omitempty"`
}

// ListResources pages through Cloud Control ListResources for the plugin's
// type and captures every primary identifier.
func (b Base) ListResources(ctx context.Context) (*Report, error) {
	paginator := cloudcontrol.NewListResourcesPaginator(b.CC, &cloudcontrol.ListResourcesInput{
		TypeName: aws.String(string(b.Def.ResourceType)),
	})

	var entries []listEntry
	var identifiers []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, errors.Wrapf(err, "listing resources of type %s", b.Def.ResourceType)
		}
		for _, desc := range page.ResourceDescriptions {
			id := aws.ToString(desc.Identifier)
			if id == "" {
				continue
			}
			identifiers = append(identifiers, id)
			entries = append(entries, listEntry{
				Identifier: id,
				Properties: parseProperties(desc.Properties),
			})
		}
	}

	raw, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "encoding resource listing")
	}
	return &Report{Identifiers: identifiers, Raw: raw}, nil
}

// CheckExists is the generic line-match default: the name must appear
// verbatim among the listed identifiers.
func (b Base) CheckExists(ctx context.Context, report *Report, name common.ResourceName) error {
	if !report.Contains(name) {
		return errors.Errorf(
			"%s %q not found among %d resources of type %s; does it exist in this account and region?",
			b.Def.TypeName, name, len(report.Identifiers), b.Def.ResourceType,
		)
	}
	return nil
}

// Describe fetches the resource state through Cloud Control GetResource.
func (b Base) Describe(ctx context.Context, name common.ResourceName) (*Description, error) {
	out, err := b.CC.GetResource(ctx, &cloudcontrol.GetResourceInput{
		TypeName:   aws.String(string(b.Def.ResourceType)),
		Identifier: aws.String(string(name)),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "describing %s %q", b.Def.TypeName, name)
	}
	props := aws.ToString(out.ResourceDescription.Properties)
	return &Description{
		Identifier: aws.ToString(out.ResourceDescription.Identifier),
		Properties: parseProperties(out.ResourceDescription.Properties),
		Raw:        []byte(props),
	}, nil
}

// StackName defaults to <resource_name>-<sceptre_stack_name>.
func (b Base) StackName(name common.ResourceName) common.StackName {
	return common.StackName(string(name) + "-" + b.Def.SceptreStack)
}

// TemplateProperties defaults to just the identifying property.
func (b Base) TemplateProperties(ctx context.Context, desc *Description, name common.ResourceName) (map[string]any, error) {
	return map[string]any{string(b.Def.Parameter): string(name)}, nil
}

// ImportIdentifier defaults to {parameter: name}.
func (b Base) ImportIdentifier(desc *Description, name common.ResourceName) map[string]string {
	return map[string]string{string(b.Def.Parameter): string(name)}
}

// Tags defaults to the CloudFormation-style Tags list in the described
// properties, when present.
func (b Base) Tags(ctx context.Context, name common.ResourceName, desc *Description) (map[string]string, error) {
	if desc == nil {
		return nil, nil
	}
	return TagsFromProperties(desc.Properties), nil
}

// Values has no default: each resource type decides what its values file
// carries.
func (b Base) Values(ctx context.Context, in ValuesInput) (*values.Doc, error) {
	return nil, errors.Errorf("plugin %q does not implement values generation", b.Def.TypeName)
}

// SkipDeploy defaults to false.
func (b Base) SkipDeploy() bool { return false }

// TagsFromProperties converts a CloudFormation-style Tags list
// ([{Key: k, Value: v}, ...]) in a property map into a plain map.
func TagsFromProperties(props map[string]any) map[string]string {
	raw, ok := props["Tags"].([]any)
	if !ok {
		return nil
	}
	tags := make(map[string]string, len(raw))
	for _, entry := range raw {
		pair, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		key, _ := pair["Key"].(string)
		value, _ := pair["Value"].(string)
		if key != "" {
			tags[key] = value
		}
	}
	if len(tags) == 0 {
		return nil
	}
	return tags
}

func parseProperties(raw *string) map[string]any {
	if raw == nil || *raw == "" {
		return nil
	}
	var props map[string]any
	if err := json.Unmarshal([]byte(*raw), &props); err != nil {
		return nil
	}
	return props
}

package cfn

import (
	"encoding/json"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/sceptre-tools/sceptre-resource-importer/internal/common"
)

const templateFormatVersion = "2010-09-09"

// ImportTarget is one entry of the resources-to-import array handed to
// CreateChangeSet. The JSON shape matches what the CloudFormation API expects:
// [{"ResourceType":T,"LogicalResourceId":R,"ResourceIdentifier":{P:N}}]
type ImportTarget struct {
	ResourceType       string            `json:"ResourceType"`
	LogicalResourceId  string            `json:"LogicalResourceId"`
	ResourceIdentifier map[string]string `json:"ResourceIdentifier"`
}

// NewImportTarget builds the single-resource import array for one live
// resource identified by the given property map.
func NewImportTarget(
	resourceType common.ResourceType,
	logicalID common.LogicalResourceID,
	identifier map[string]string,
) []ImportTarget {
	return []ImportTarget{{
		ResourceType:       string(resourceType),
		LogicalResourceId:  string(logicalID),
		ResourceIdentifier: identifier,
	}}
}

// MarshalImportTargets renders the array as compact JSON, the form kept in the
// run report for operator inspection.
func MarshalImportTargets(targets []ImportTarget) ([]byte, error) {
	out, err := json.Marshal(targets)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling resources to import")
	}
	return out, nil
}

// TemplateInput describes the minimal intermediate template: a single resource
// declaration that CloudFormation matches against the live resource.
type TemplateInput struct {
	Description  string
	LogicalID    common.LogicalResourceID
	ResourceType common.ResourceType

	// Properties must include the identifying property plus anything the
	// resource type requires to validate, e.g. GroupDescription for a
	// security group.
	Properties map[string]any
}

type templateResource struct {
	Type string `yaml:"Type"`
	// Imported resources must carry a Retain policy or CreateChangeSet
	// rejects the template.
	DeletionPolicy string         `yaml:"DeletionPolicy"`
	Properties     map[string]any `yaml:"Properties,omitempty"`
}

type templateDoc struct {
	AWSTemplateFormatVersion string                      `yaml:"AWSTemplateFormatVersion"`
	Description              string                      `yaml:"Description,omitempty"`
	Resources                map[string]templateResource `yaml:"Resources"`
}

// RenderTemplate produces the intermediate CloudFormation YAML uploaded to the
// template bucket.
func RenderTemplate(in TemplateInput) ([]byte, error) {
	if in.LogicalID == "" || in.ResourceType == "" {
		return nil, errors.New("template requires a logical ID and a resource type")
	}
	doc := templateDoc{
		AWSTemplateFormatVersion: templateFormatVersion,
		Description:              in.Description,
		Resources: map[string]templateResource{
			string(in.LogicalID): {
				Type:           string(in.ResourceType),
				DeletionPolicy: "Retain",
				Properties:     in.Properties,
			},
		},
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "rendering intermediate template")
	}
	return out, nil
}

package importer

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudcontrol"
	cctypes "github.com/aws/aws-sdk-go-v2/service/cloudcontrol/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sceptre-tools/sceptre-resource-importer/internal/common"
)

type fakeCloudControl struct {
	listOut *cloudcontrol.ListResourcesOutput
	listErr error
	getOut  *cloudcontrol.GetResourceOutput
	getErr  error
}

func (f *fakeCloudControl) ListResources(_ context.Context, _ *cloudcontrol.ListResourcesInput, _ ...func(*cloudcontrol.Options)) (*cloudcontrol.ListResourcesOutput, error) {
	return f.listOut, f.listErr
}

func (f *fakeCloudControl) GetResource(_ context.Context, _ *cloudcontrol.GetResourceInput, _ ...func(*cloudcontrol.Options)) (*cloudcontrol.GetResourceOutput, error) {
	return f.getOut, f.getErr
}

func testDefinition() Definition {
	return Definition{
		TypeName:     "s3-bucket",
		ResourceType: "AWS::S3::Bucket",
		LogicalID:    "Bucket",
		SceptreStack: "storage",
		Parameter:    "BucketName",
		OutputDir:    "storage/values",
	}
}

func TestDefinitionValidate(t *testing.T) {
	assert.NoError(t, testDefinition().Validate())

	tests := []struct {
		name   string
		mutate func(*Definition)
	}{
		{"type name", func(d *Definition) { d.TypeName = "" }},
		{"resource type", func(d *Definition) { d.ResourceType = "" }},
		{"logical resource ID", func(d *Definition) { d.LogicalID = "" }},
		{"sceptre stack name", func(d *Definition) { d.SceptreStack = "" }},
		{"parameter name", func(d *Definition) { d.Parameter = "" }},
		{"output directory", func(d *Definition) { d.OutputDir = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := testDefinition()
			tt.mutate(&def)
			err := def.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.name)
		})
	}
}

func TestDefinitionTemplateDefault(t *testing.T) {
	def := testDefinition()
	assert.Equal(t, "templates/s3-bucket.yaml", def.Template())

	def.TemplatePath = "templates/custom.yaml"
	assert.Equal(t, "templates/custom.yaml", def.Template())
}

func TestBaseStackNameDefault(t *testing.T) {
	b := Base{Def: testDefinition()}
	assert.Equal(t, common.StackName("my-bucket-storage"), b.StackName("my-bucket"))
}

func TestBaseListResources(t *testing.T) {
	b := Base{
		Def: testDefinition(),
		CC: &fakeCloudControl{
			listOut: &cloudcontrol.ListResourcesOutput{
				ResourceDescriptions: []cctypes.ResourceDescription{
					{Identifier: aws.String("my-bucket"), Properties: aws.String(`{"BucketName":"my-bucket"}`)},
					{Identifier: aws.String("other-bucket")},
				},
			},
		},
	}

	report, err := b.ListResources(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"my-bucket", "other-bucket"}, report.Identifiers)
	assert.Contains(t, string(report.Raw), `"Identifier": "my-bucket"`)
}

func TestBaseCheckExists(t *testing.T) {
	b := Base{Def: testDefinition()}
	report := &Report{Identifiers: []string{"my-bucket", "other-bucket"}}

	assert.NoError(t, b.CheckExists(context.Background(), report, "my-bucket"))

	err := b.CheckExists(context.Background(), report, "missing-bucket")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.Contains(t, err.Error(), "missing-bucket")
}

func TestBaseDescribe(t *testing.T) {
	b := Base{
		Def: testDefinition(),
		CC: &fakeCloudControl{
			getOut: &cloudcontrol.GetResourceOutput{
				ResourceDescription: &cctypes.ResourceDescription{
					Identifier: aws.String("my-bucket"),
					Properties: aws.String(`{"BucketName":"my-bucket","Arn":"arn:aws:s3:::my-bucket"}`),
				},
			},
		},
	}

	desc, err := b.Describe(context.Background(), "my-bucket")
	require.NoError(t, err)
	assert.Equal(t, "my-bucket", desc.Identifier)
	assert.Equal(t, "arn:aws:s3:::my-bucket", desc.Properties["Arn"])
}

func TestBaseImportIdentifier(t *testing.T) {
	b := Base{Def: testDefinition()}
	assert.Equal(t, map[string]string{"BucketName": "my-bucket"}, b.ImportIdentifier(nil, "my-bucket"))
}

func TestBaseValuesIsMandatoryOverride(t *testing.T) {
	b := Base{Def: testDefinition()}
	_, err := b.Values(context.Background(), ValuesInput{})
	require.Error(t, err)
}

func TestTagsFromProperties(t *testing.T) {
	tags := TagsFromProperties(map[string]any{
		"Tags": []any{
			map[string]any{"Key": "Team", "Value": "infra"},
			map[string]any{"Key": "Env", "Value": "prod"},
			map[string]any{"Value": "dropped-without-key"},
		},
	})
	assert.Equal(t, map[string]string{"Team": "infra", "Env": "prod"}, tags)

	assert.Nil(t, TagsFromProperties(map[string]any{}))
	assert.Nil(t, TagsFromProperties(map[string]any{"Tags": "not-a-list"}))
}

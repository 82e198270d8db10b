package resources

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/pkg/errors"

	"github.com/sceptre-tools/sceptre-resource-importer/internal/common"
	"github.com/sceptre-tools/sceptre-resource-importer/internal/importer"
	"github.com/sceptre-tools/sceptre-resource-importer/internal/values"
)

type iamAPI interface {
	ListRoles(ctx context.Context, in *iam.ListRolesInput, optFns ...func(*iam.Options)) (*iam.ListRolesOutput, error)
	GetRole(ctx context.Context, in *iam.GetRoleInput, optFns ...func(*iam.Options)) (*iam.GetRoleOutput, error)
	ListRoleTags(ctx context.Context, in *iam.ListRoleTagsInput, optFns ...func(*iam.Options)) (*iam.ListRoleTagsOutput, error)
}

// IamRole imports pre-existing IAM roles.
type IamRole struct {
	importer.Base
	client iamAPI
}

func NewIamRole(awsCfg aws.Config) importer.Importer {
	def := importer.Definition{
		TypeName:     "iam-role",
		ResourceType: "AWS::IAM::Role",
		LogicalID:    "Role",
		SceptreStack: "iam-role",
		Parameter:    "RoleName",
		OutputDir:    "iam-role",
	}
	return &IamRole{
		Base:   importer.NewBase(def, awsCfg),
		client: iam.NewFromConfig(awsCfg),
	}
}

type roleEntry struct {
	RoleName string `json:"RoleName"`
	Arn      string `json:"Arn"`
	Path     string `json:"Path"`
}

func (r *IamRole) ListResources(ctx context.Context) (*importer.Report, error) {
	paginator := iam.NewListRolesPaginator(r.client, &iam.ListRolesInput{})

	var entries []roleEntry
	var identifiers []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "listing IAM roles")
		}
		for _, role := range page.Roles {
			name := aws.ToString(role.RoleName)
			identifiers = append(identifiers, name)
			entries = append(entries, roleEntry{
				RoleName: name,
				Arn:      aws.ToString(role.Arn),
				Path:     aws.ToString(role.Path),
			})
		}
	}

	raw, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, err
	}
	return &importer.Report{Identifiers: identifiers, Raw: raw}, nil
}

func (r *IamRole) Describe(ctx context.Context, name common.ResourceName) (*importer.Description, error) {
	out, err := r.client.GetRole(ctx, &iam.GetRoleInput{RoleName: aws.String(string(name))})
	if err != nil {
		return nil, errors.Wrapf(err, "describing IAM role %q", name)
	}
	role := out.Role
	return &importer.Description{
		Identifier: aws.ToString(role.RoleName),
		Properties: map[string]any{
			"RoleName":    aws.ToString(role.RoleName),
			"Arn":         aws.ToString(role.Arn),
			"Path":        aws.ToString(role.Path),
			"Description": aws.ToString(role.Description),
		},
	}, nil
}

func (r *IamRole) Tags(ctx context.Context, name common.ResourceName, _ *importer.Description) (map[string]string, error) {
	out, err := r.client.ListRoleTags(ctx, &iam.ListRoleTagsInput{RoleName: aws.String(string(name))})
	if err != nil {
		return nil, errors.Wrapf(err, "listing tags of IAM role %q", name)
	}
	tags := make(map[string]string, len(out.Tags))
	for _, tag := range out.Tags {
		tags[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
	}
	return tags, nil
}

func (r *IamRole) Values(ctx context.Context, in importer.ValuesInput) (*values.Doc, error) {
	d := values.NewDoc(in.TemplatePath, in.TemplateVersion)
	d.Set("role_name", string(in.Name))
	if arn, ok := in.Description.Properties["Arn"].(string); ok {
		d.Set("role_arn", arn)
	}
	if path, ok := in.Description.Properties["Path"].(string); ok && path != "/" {
		d.Set("path", path)
	}
	d.Blank()
	d.Tags("CommonTags", in.Tags)
	return d, nil
}

package resources

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/pkg/errors"

	"github.com/sceptre-tools/sceptre-resource-importer/internal/common"
	"github.com/sceptre-tools/sceptre-resource-importer/internal/importer"
	"github.com/sceptre-tools/sceptre-resource-importer/internal/values"
)

type ec2API interface {
	DescribeSecurityGroups(ctx context.Context, in *ec2.DescribeSecurityGroupsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeSecurityGroupsOutput, error)
}

// SecurityGroup imports pre-existing EC2 security groups. The operator names
// the group; CloudFormation identifies it by GroupId, so Describe resolves
// the name to an ID first.
type SecurityGroup struct {
	importer.Base
	client ec2API
}

func NewSecurityGroup(awsCfg aws.Config) importer.Importer {
	def := importer.Definition{
		TypeName:     "security-group",
		ResourceType: "AWS::EC2::SecurityGroup",
		LogicalID:    "SecurityGroup",
		SceptreStack: "security-group",
		Parameter:    "GroupId",
		OutputDir:    "security-group",
	}
	return &SecurityGroup{
		Base:   importer.NewBase(def, awsCfg),
		client: ec2.NewFromConfig(awsCfg),
	}
}

type groupEntry struct {
	GroupId   string `json:"GroupId"`
	GroupName string `json:"GroupName"`
	VpcId     string `json:"VpcId"`
}

func (g *SecurityGroup) ListResources(ctx context.Context) (*importer.Report, error) {
	paginator := ec2.NewDescribeSecurityGroupsPaginator(g.client, &ec2.DescribeSecurityGroupsInput{})

	var entries []groupEntry
	var identifiers []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "listing security groups")
		}
		for _, group := range page.SecurityGroups {
			identifiers = append(identifiers, aws.ToString(group.GroupName))
			entries = append(entries, groupEntry{
				GroupId:   aws.ToString(group.GroupId),
				GroupName: aws.ToString(group.GroupName),
				VpcId:     aws.ToString(group.VpcId),
			})
		}
	}

	raw, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, err
	}
	return &importer.Report{Identifiers: identifiers, Raw: raw}, nil
}

func (g *SecurityGroup) Describe(ctx context.Context, name common.ResourceName) (*importer.Description, error) {
	out, err := g.client.DescribeSecurityGroups(ctx, &ec2.DescribeSecurityGroupsInput{
		Filters: []ec2types.Filter{{
			Name:   aws.String("group-name"),
			Values: []string{string(name)},
		}},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "describing security group %q", name)
	}
	switch len(out.SecurityGroups) {
	case 0:
		return nil, errors.Errorf("security group %q not found", name)
	case 1:
	default:
		return nil, errors.Errorf("security group name %q matches %d groups; import by a unique name", name, len(out.SecurityGroups))
	}

	group := out.SecurityGroups[0]
	props := map[string]any{
		"GroupId":          aws.ToString(group.GroupId),
		"GroupName":        aws.ToString(group.GroupName),
		"GroupDescription": aws.ToString(group.Description),
		"VpcId":            aws.ToString(group.VpcId),
	}
	if len(group.Tags) > 0 {
		props["tags"] = ec2TagMap(group.Tags)
	}
	return &importer.Description{
		Identifier: aws.ToString(group.GroupId),
		Properties: props,
	}, nil
}

// ImportIdentifier uses the resolved GroupId, not the operator-supplied name.
func (g *SecurityGroup) ImportIdentifier(desc *importer.Description, _ common.ResourceName) map[string]string {
	return map[string]string{"GroupId": desc.Identifier}
}

// TemplateProperties includes GroupDescription: the type refuses to validate
// without it.
func (g *SecurityGroup) TemplateProperties(ctx context.Context, desc *importer.Description, _ common.ResourceName) (map[string]any, error) {
	description, ok := desc.Properties["GroupDescription"].(string)
	if !ok || description == "" {
		return nil, errors.New("security group has no description to carry into the template")
	}
	return map[string]any{"GroupDescription": description}, nil
}

func (g *SecurityGroup) Tags(_ context.Context, _ common.ResourceName, desc *importer.Description) (map[string]string, error) {
	if desc == nil {
		return nil, nil
	}
	tags, _ := desc.Properties["tags"].(map[string]string)
	return tags, nil
}

func (g *SecurityGroup) Values(ctx context.Context, in importer.ValuesInput) (*values.Doc, error) {
	d := values.NewDoc(in.TemplatePath, in.TemplateVersion)
	d.Set("group_name", string(in.Name))
	d.Set("group_id", in.Description.Identifier)
	if vpc, ok := in.Description.Properties["VpcId"].(string); ok && vpc != "" {
		d.Set("vpc_id", vpc)
	}
	d.Blank()
	d.Tags("CommonTags", in.Tags)
	return d, nil
}

func ec2TagMap(tags []ec2types.Tag) map[string]string {
	out := make(map[string]string, len(tags))
	for _, tag := range tags {
		out[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
	}
	return out
}

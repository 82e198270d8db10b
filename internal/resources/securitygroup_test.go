package resources

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEC2 struct {
	groups   []ec2types.SecurityGroup
	lastOpts *ec2.DescribeSecurityGroupsInput
}

func (f *fakeEC2) DescribeSecurityGroups(ctx context.Context, in *ec2.DescribeSecurityGroupsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeSecurityGroupsOutput, error) {
	f.lastOpts = in
	matched := f.groups
	for _, filter := range in.Filters {
		if aws.ToString(filter.Name) != "group-name" {
			continue
		}
		matched = nil
		for _, g := range f.groups {
			for _, want := range filter.Values {
				if aws.ToString(g.GroupName) == want {
					matched = append(matched, g)
				}
			}
		}
	}
	return &ec2.DescribeSecurityGroupsOutput{SecurityGroups: matched}, nil
}

func newTestSecurityGroup(client ec2API) *SecurityGroup {
	g := NewSecurityGroup(aws.Config{}).(*SecurityGroup)
	g.client = client
	return g
}

func sg(id, name, desc, vpc string) ec2types.SecurityGroup {
	return ec2types.SecurityGroup{
		GroupId:     aws.String(id),
		GroupName:   aws.String(name),
		Description: aws.String(desc),
		VpcId:       aws.String(vpc),
	}
}

func TestSecurityGroupDescribeResolvesID(t *testing.T) {
	g := newTestSecurityGroup(&fakeEC2{groups: []ec2types.SecurityGroup{
		sg("sg-0abc", "app-ingress", "app ingress rules", "vpc-1"),
		sg("sg-0def", "other", "other", "vpc-1"),
	}})

	desc, err := g.Describe(context.Background(), "app-ingress")
	require.NoError(t, err)
	assert.Equal(t, "sg-0abc", desc.Identifier)
	assert.Equal(t, "app ingress rules", desc.Properties["GroupDescription"])

	id := g.ImportIdentifier(desc, "app-ingress")
	assert.Equal(t, map[string]string{"GroupId": "sg-0abc"}, id)
}

func TestSecurityGroupDescribeNotFound(t *testing.T) {
	g := newTestSecurityGroup(&fakeEC2{})

	_, err := g.Describe(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSecurityGroupDescribeAmbiguous(t *testing.T) {
	g := newTestSecurityGroup(&fakeEC2{groups: []ec2types.SecurityGroup{
		sg("sg-1", "shared", "a", "vpc-1"),
		sg("sg-2", "shared", "b", "vpc-2"),
	}})

	_, err := g.Describe(context.Background(), "shared")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "matches 2 groups")
}

func TestSecurityGroupTemplateProperties(t *testing.T) {
	g := newTestSecurityGroup(&fakeEC2{groups: []ec2types.SecurityGroup{
		sg("sg-1", "app", "app rules", "vpc-1"),
	}})

	desc, err := g.Describe(context.Background(), "app")
	require.NoError(t, err)

	props, err := g.TemplateProperties(context.Background(), desc, "app")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"GroupDescription": "app rules"}, props)

	desc.Properties["GroupDescription"] = ""
	_, err = g.TemplateProperties(context.Background(), desc, "app")
	require.Error(t, err)
}

func TestSecurityGroupValues(t *testing.T) {
	g := newTestSecurityGroup(&fakeEC2{groups: []ec2types.SecurityGroup{
		sg("sg-1", "app", "app rules", "vpc-1"),
	}})

	desc, err := g.Describe(context.Background(), "app")
	require.NoError(t, err)

	doc, err := g.Values(context.Background(), valuesInput("app", desc))
	require.NoError(t, err)

	out := string(doc.Bytes())
	assert.Contains(t, out, "group_name: app")
	assert.Contains(t, out, "group_id: sg-1")
	assert.Contains(t, out, "vpc_id: vpc-1")
}

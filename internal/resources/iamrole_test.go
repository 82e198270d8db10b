package resources

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIAM struct {
	roles []iamtypes.Role
	tags  []iamtypes.Tag
}

func (f *fakeIAM) ListRoles(ctx context.Context, in *iam.ListRolesInput, optFns ...func(*iam.Options)) (*iam.ListRolesOutput, error) {
	return &iam.ListRolesOutput{Roles: f.roles}, nil
}

func (f *fakeIAM) GetRole(ctx context.Context, in *iam.GetRoleInput, optFns ...func(*iam.Options)) (*iam.GetRoleOutput, error) {
	for i := range f.roles {
		if aws.ToString(f.roles[i].RoleName) == aws.ToString(in.RoleName) {
			return &iam.GetRoleOutput{Role: &f.roles[i]}, nil
		}
	}
	return nil, &iamtypes.NoSuchEntityException{Message: aws.String("role not found")}
}

func (f *fakeIAM) ListRoleTags(ctx context.Context, in *iam.ListRoleTagsInput, optFns ...func(*iam.Options)) (*iam.ListRoleTagsOutput, error) {
	return &iam.ListRoleTagsOutput{Tags: f.tags}, nil
}

func newTestIamRole(client iamAPI) *IamRole {
	r := NewIamRole(aws.Config{}).(*IamRole)
	r.client = client
	return r
}

func testRole(name, path string) iamtypes.Role {
	return iamtypes.Role{
		RoleName: aws.String(name),
		Arn:      aws.String("arn:aws:iam::123456789012:role" + path + name),
		Path:     aws.String(path),
	}
}

func TestIamRoleListResources(t *testing.T) {
	r := newTestIamRole(&fakeIAM{roles: []iamtypes.Role{
		testRole("deployer", "/"),
		testRole("reader", "/service/"),
	}})

	report, err := r.ListResources(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"deployer", "reader"}, report.Identifiers)
	assert.True(t, report.Contains("deployer"))
	assert.False(t, report.Contains("writer"))
}

func TestIamRoleDescribe(t *testing.T) {
	r := newTestIamRole(&fakeIAM{roles: []iamtypes.Role{testRole("deployer", "/")}})

	desc, err := r.Describe(context.Background(), "deployer")
	require.NoError(t, err)
	assert.Equal(t, "deployer", desc.Identifier)
	assert.Equal(t, "arn:aws:iam::123456789012:role/deployer", desc.Properties["Arn"])

	_, err = r.Describe(context.Background(), "missing")
	require.Error(t, err)
}

func TestIamRoleTags(t *testing.T) {
	r := newTestIamRole(&fakeIAM{tags: []iamtypes.Tag{
		{Key: aws.String("owner"), Value: aws.String("platform")},
	}})

	tags, err := r.Tags(context.Background(), "deployer", nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"owner": "platform"}, tags)
}

func TestIamRoleValues(t *testing.T) {
	r := newTestIamRole(&fakeIAM{roles: []iamtypes.Role{testRole("deployer", "/")}})

	desc, err := r.Describe(context.Background(), "deployer")
	require.NoError(t, err)

	doc, err := r.Values(context.Background(), valuesInput("deployer", desc))
	require.NoError(t, err)

	out := string(doc.Bytes())
	assert.Contains(t, out, "role_name: deployer")
	assert.Contains(t, out, "role_arn: arn:aws:iam::123456789012:role/deployer")
	assert.NotContains(t, out, "path:", "default path stays out of the values file")
}

func TestIamRoleValuesNonDefaultPath(t *testing.T) {
	r := newTestIamRole(&fakeIAM{roles: []iamtypes.Role{testRole("reader", "/service/")}})

	desc, err := r.Describe(context.Background(), "reader")
	require.NoError(t, err)

	doc, err := r.Values(context.Background(), valuesInput("reader", desc))
	require.NoError(t, err)
	assert.Contains(t, string(doc.Bytes()), "path: /service/")
}

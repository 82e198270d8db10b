package resources

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/pkg/errors"

	"github.com/sceptre-tools/sceptre-resource-importer/internal/common"
	"github.com/sceptre-tools/sceptre-resource-importer/internal/importer"
	"github.com/sceptre-tools/sceptre-resource-importer/internal/values"
)

type dynamoAPI interface {
	ListTables(ctx context.Context, in *dynamodb.ListTablesInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ListTablesOutput, error)
	DescribeTable(ctx context.Context, in *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	ListTagsOfResource(ctx context.Context, in *dynamodb.ListTagsOfResourceInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ListTagsOfResourceOutput, error)
}

// DynamoTable imports pre-existing DynamoDB tables.
type DynamoTable struct {
	importer.Base
	client dynamoAPI
}

func NewDynamoTable(awsCfg aws.Config) importer.Importer {
	def := importer.Definition{
		TypeName:     "dynamodb-table",
		ResourceType: "AWS::DynamoDB::Table",
		LogicalID:    "Table",
		SceptreStack: "dynamodb-table",
		Parameter:    "TableName",
		OutputDir:    "dynamodb-table",
	}
	return &DynamoTable{
		Base:   importer.NewBase(def, awsCfg),
		client: dynamodb.NewFromConfig(awsCfg),
	}
}

func (t *DynamoTable) ListResources(ctx context.Context) (*importer.Report, error) {
	paginator := dynamodb.NewListTablesPaginator(t.client, &dynamodb.ListTablesInput{})

	var identifiers []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "listing DynamoDB tables")
		}
		identifiers = append(identifiers, page.TableNames...)
	}

	raw, err := json.MarshalIndent(identifiers, "", "  ")
	if err != nil {
		return nil, err
	}
	return &importer.Report{Identifiers: identifiers, Raw: raw}, nil
}

func (t *DynamoTable) Describe(ctx context.Context, name common.ResourceName) (*importer.Description, error) {
	out, err := t.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(string(name))})
	if err != nil {
		return nil, errors.Wrapf(err, "describing DynamoDB table %q", name)
	}
	table := out.Table
	return &importer.Description{
		Identifier: aws.ToString(table.TableName),
		Properties: map[string]any{
			"TableName": aws.ToString(table.TableName),
			"TableArn":  aws.ToString(table.TableArn),
			"Status":    string(table.TableStatus),
		},
	}, nil
}

func (t *DynamoTable) Tags(ctx context.Context, name common.ResourceName, desc *importer.Description) (map[string]string, error) {
	arn, _ := desc.Properties["TableArn"].(string)
	if arn == "" {
		return nil, nil
	}
	out, err := t.client.ListTagsOfResource(ctx, &dynamodb.ListTagsOfResourceInput{ResourceArn: aws.String(arn)})
	if err != nil {
		return nil, errors.Wrapf(err, "listing tags of table %q", name)
	}
	tags := make(map[string]string, len(out.Tags))
	for _, tag := range out.Tags {
		tags[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
	}
	return tags, nil
}

func (t *DynamoTable) Values(ctx context.Context, in importer.ValuesInput) (*values.Doc, error) {
	d := values.NewDoc(in.TemplatePath, in.TemplateVersion)
	d.Set("table_name", string(in.Name))
	if arn, ok := in.Description.Properties["TableArn"].(string); ok {
		d.Set("table_arn", arn)
	}
	d.Blank()
	d.Tags("CommonTags", in.Tags)
	return d, nil
}

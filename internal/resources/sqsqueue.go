package resources

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/pkg/errors"

	"github.com/sceptre-tools/sceptre-resource-importer/internal/common"
	"github.com/sceptre-tools/sceptre-resource-importer/internal/importer"
	"github.com/sceptre-tools/sceptre-resource-importer/internal/values"
)

type sqsAPI interface {
	ListQueues(ctx context.Context, in *sqs.ListQueuesInput, optFns ...func(*sqs.Options)) (*sqs.ListQueuesOutput, error)
	GetQueueUrl(ctx context.Context, in *sqs.GetQueueUrlInput, optFns ...func(*sqs.Options)) (*sqs.GetQueueUrlOutput, error)
	GetQueueAttributes(ctx context.Context, in *sqs.GetQueueAttributesInput, optFns ...func(*sqs.Options)) (*sqs.GetQueueAttributesOutput, error)
	ListQueueTags(ctx context.Context, in *sqs.ListQueueTagsInput, optFns ...func(*sqs.Options)) (*sqs.ListQueueTagsOutput, error)
}

// SqsQueue imports pre-existing SQS queues. The operator names the queue;
// the CloudFormation import identifier is the queue URL.
type SqsQueue struct {
	importer.Base
	client sqsAPI
}

func NewSqsQueue(awsCfg aws.Config) importer.Importer {
	def := importer.Definition{
		TypeName:     "sqs-queue",
		ResourceType: "AWS::SQS::Queue",
		LogicalID:    "Queue",
		SceptreStack: "sqs-queue",
		Parameter:    "QueueUrl",
		OutputDir:    "sqs-queue",
	}
	return &SqsQueue{
		Base:   importer.NewBase(def, awsCfg),
		client: sqs.NewFromConfig(awsCfg),
	}
}

func (q *SqsQueue) ListResources(ctx context.Context) (*importer.Report, error) {
	paginator := sqs.NewListQueuesPaginator(q.client, &sqs.ListQueuesInput{})

	var urls []string
	var identifiers []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "listing SQS queues")
		}
		for _, url := range page.QueueUrls {
			urls = append(urls, url)
			identifiers = append(identifiers, queueNameFromURL(url))
		}
	}

	raw, err := json.MarshalIndent(urls, "", "  ")
	if err != nil {
		return nil, err
	}
	return &importer.Report{Identifiers: identifiers, Raw: raw}, nil
}

func (q *SqsQueue) Describe(ctx context.Context, name common.ResourceName) (*importer.Description, error) {
	urlOut, err := q.client.GetQueueUrl(ctx, &sqs.GetQueueUrlInput{QueueName: aws.String(string(name))})
	if err != nil {
		return nil, errors.Wrapf(err, "resolving URL of queue %q", name)
	}
	url := aws.ToString(urlOut.QueueUrl)

	attrOut, err := q.client.GetQueueAttributes(ctx, &sqs.GetQueueAttributesInput{
		QueueUrl:       aws.String(url),
		AttributeNames: []sqstypes.QueueAttributeName{sqstypes.QueueAttributeNameAll},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "describing queue %q", name)
	}

	props := map[string]any{"QueueUrl": url, "QueueName": string(name)}
	for k, v := range attrOut.Attributes {
		props[k] = v
	}
	return &importer.Description{Identifier: url, Properties: props}, nil
}

// ImportIdentifier uses the resolved queue URL.
func (q *SqsQueue) ImportIdentifier(desc *importer.Description, _ common.ResourceName) map[string]string {
	return map[string]string{"QueueUrl": desc.Identifier}
}

func (q *SqsQueue) TemplateProperties(_ context.Context, _ *importer.Description, name common.ResourceName) (map[string]any, error) {
	return map[string]any{"QueueName": string(name)}, nil
}

func (q *SqsQueue) Tags(ctx context.Context, name common.ResourceName, desc *importer.Description) (map[string]string, error) {
	out, err := q.client.ListQueueTags(ctx, &sqs.ListQueueTagsInput{QueueUrl: aws.String(desc.Identifier)})
	if err != nil {
		return nil, errors.Wrapf(err, "listing tags of queue %q", name)
	}
	return out.Tags, nil
}

func (q *SqsQueue) Values(ctx context.Context, in importer.ValuesInput) (*values.Doc, error) {
	d := values.NewDoc(in.TemplatePath, in.TemplateVersion)
	d.Set("queue_name", string(in.Name))
	d.Set("queue_url", in.Description.Identifier)
	if arn, ok := in.Description.Properties["QueueArn"].(string); ok {
		d.Set("queue_arn", arn)
	}
	d.Blank()
	d.Tags("CommonTags", in.Tags)
	return d, nil
}

func queueNameFromURL(url string) string {
	if i := strings.LastIndex(url, "/"); i >= 0 {
		return url[i+1:]
	}
	return url
}

package resources

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/pkg/errors"

	"github.com/sceptre-tools/sceptre-resource-importer/internal/common"
	"github.com/sceptre-tools/sceptre-resource-importer/internal/importer"
	"github.com/sceptre-tools/sceptre-resource-importer/internal/values"
)

type s3BucketAPI interface {
	ListBuckets(ctx context.Context, in *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error)
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	GetBucketTagging(ctx context.Context, in *s3.GetBucketTaggingInput, optFns ...func(*s3.Options)) (*s3.GetBucketTaggingOutput, error)
}

// S3Bucket imports pre-existing S3 buckets.
type S3Bucket struct {
	importer.Base
	client s3BucketAPI
}

func NewS3Bucket(awsCfg aws.Config) importer.Importer {
	def := importer.Definition{
		TypeName:     "s3-bucket",
		ResourceType: "AWS::S3::Bucket",
		LogicalID:    "Bucket",
		SceptreStack: "s3-bucket",
		Parameter:    "BucketName",
		OutputDir:    "s3-bucket",
	}
	return &S3Bucket{
		Base:   importer.NewBase(def, awsCfg),
		client: s3.NewFromConfig(awsCfg),
	}
}

func (b *S3Bucket) ListResources(ctx context.Context) (*importer.Report, error) {
	out, err := b.client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, errors.Wrap(err, "listing S3 buckets")
	}

	identifiers := make([]string, 0, len(out.Buckets))
	for _, bucket := range out.Buckets {
		identifiers = append(identifiers, aws.ToString(bucket.Name))
	}
	raw, err := json.MarshalIndent(identifiers, "", "  ")
	if err != nil {
		return nil, err
	}
	return &importer.Report{Identifiers: identifiers, Raw: raw}, nil
}

func (b *S3Bucket) Describe(ctx context.Context, name common.ResourceName) (*importer.Description, error) {
	_, err := b.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(string(name))})
	if err != nil {
		return nil, errors.Wrapf(err, "describing S3 bucket %q", name)
	}
	return &importer.Description{
		Identifier: string(name),
		Properties: map[string]any{
			"BucketName": string(name),
			"Arn":        "arn:aws:s3:::" + string(name),
		},
	}, nil
}

// Tags tolerates buckets without a tag set; S3 reports NoSuchTagSet instead
// of an empty list.
func (b *S3Bucket) Tags(ctx context.Context, name common.ResourceName, _ *importer.Description) (map[string]string, error) {
	out, err := b.client.GetBucketTagging(ctx, &s3.GetBucketTaggingInput{Bucket: aws.String(string(name))})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchTagSet" {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "fetching tags of S3 bucket %q", name)
	}
	tags := make(map[string]string, len(out.TagSet))
	for _, tag := range out.TagSet {
		tags[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
	}
	return tags, nil
}

func (b *S3Bucket) Values(ctx context.Context, in importer.ValuesInput) (*values.Doc, error) {
	d := values.NewDoc(in.TemplatePath, in.TemplateVersion)
	d.Set("bucket_name", string(in.Name))
	d.Set("bucket_arn", "arn:aws:s3:::"+string(in.Name))
	d.Blank()
	d.Tags("CommonTags", in.Tags)
	return d, nil
}

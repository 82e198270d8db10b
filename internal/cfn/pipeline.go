package cfn

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	cftypes "github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/pkg/errors"

	"github.com/sceptre-tools/sceptre-resource-importer/internal/common"
)

// versionTagKey is attached to the stack after a successful import so later
// Sceptre runs know which template release performed it.
const versionTagKey = "template_version"

const projectTagKey = "sceptre_project_code"

// defaultWaitTimeout bounds each blocking wait on a remote operation.
const defaultWaitTimeout = 30 * time.Minute

// cfnAPI is the slice of the CloudFormation API the pipeline uses. It also
// satisfies the SDK waiter client interfaces, so fakes drive the waiters too.
type cfnAPI interface {
	CreateChangeSet(ctx context.Context, in *cloudformation.CreateChangeSetInput, optFns ...func(*cloudformation.Options)) (*cloudformation.CreateChangeSetOutput, error)
	DescribeChangeSet(ctx context.Context, in *cloudformation.DescribeChangeSetInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DescribeChangeSetOutput, error)
	ExecuteChangeSet(ctx context.Context, in *cloudformation.ExecuteChangeSetInput, optFns ...func(*cloudformation.Options)) (*cloudformation.ExecuteChangeSetOutput, error)
	DescribeStacks(ctx context.Context, in *cloudformation.DescribeStacksInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DescribeStacksOutput, error)
	UpdateStack(ctx context.Context, in *cloudformation.UpdateStackInput, optFns ...func(*cloudformation.Options)) (*cloudformation.UpdateStackOutput, error)
}

type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Pipeline drives the linear import sequence: upload template, create an
// IMPORT change set, wait, execute, wait, tag. Every failure is terminal;
// partially applied AWS state is the operator's to clean up.
type Pipeline struct {
	cfn         cfnAPI
	s3          s3API
	log         *slog.Logger
	account     string
	region      string
	waitTimeout time.Duration
}

// NewPipeline builds a pipeline from the resolved AWS config and records the
// caller identity for downstream ARN construction.
func NewPipeline(ctx context.Context, awsCfg aws.Config, log *slog.Logger) (*Pipeline, error) {
	stsClient := sts.NewFromConfig(awsCfg)
	ident, err := stsClient.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return nil, errors.Wrap(err, "resolving caller identity")
	}
	return &Pipeline{
		cfn:         cloudformation.NewFromConfig(awsCfg),
		s3:          s3.NewFromConfig(awsCfg),
		log:         log,
		account:     aws.ToString(ident.Account),
		region:      awsCfg.Region,
		waitTimeout: defaultWaitTimeout,
	}, nil
}

func (p *Pipeline) Account() string { return p.account }
func (p *Pipeline) Region() string  { return p.region }

// ImportInput carries everything one import run needs.
type ImportInput struct {
	StackName       common.StackName
	TemplateBucket  string
	TemplateBody    []byte
	Targets         []ImportTarget
	TemplateVersion string
	ProjectCode     string
}

func (in ImportInput) validate() error {
	if in.StackName == "" {
		return errors.New("stack name is required")
	}
	if in.TemplateBucket == "" {
		return errors.New("no template bucket configured; set template_bucket_name in the common env file")
	}
	if len(in.TemplateBody) == 0 {
		return errors.New("intermediate template is empty")
	}
	if len(in.Targets) == 0 {
		return errors.New("no resources to import")
	}
	return nil
}

// Run executes the full import sequence against live AWS state.
func (p *Pipeline) Run(ctx context.Context, in ImportInput) error {
	if err := in.validate(); err != nil {
		return err
	}

	templateURL, err := p.uploadTemplate(ctx, in)
	if err != nil {
		return err
	}

	changeSetName := fmt.Sprintf("import-%s-%d", in.StackName, time.Now().Unix())
	if err := p.createChangeSet(ctx, in, changeSetName, templateURL); err != nil {
		return err
	}

	if err := p.executeChangeSet(ctx, in.StackName, changeSetName); err != nil {
		return err
	}

	return p.tagStack(ctx, in)
}

func (p *Pipeline) uploadTemplate(ctx context.Context, in ImportInput) (string, error) {
	key := fmt.Sprintf("imports/%s/%s/template.yaml", in.StackName, in.TemplateVersion)
	p.log.Info("Uploading intermediate template", "bucket", in.TemplateBucket, "key", key)
	_, err := p.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(in.TemplateBucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(in.TemplateBody),
		ContentType: aws.String("application/x-yaml"),
	})
	if err != nil {
		return "", errors.Wrapf(err, "uploading template to s3://%s/%s", in.TemplateBucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", in.TemplateBucket, p.region, key), nil
}

func (p *Pipeline) createChangeSet(ctx context.Context, in ImportInput, changeSetName, templateURL string) error {
	p.log.Info("Creating import change set", "stack", string(in.StackName), "changeSet", changeSetName)

	resources := make([]cftypes.ResourceToImport, 0, len(in.Targets))
	for _, t := range in.Targets {
		resources = append(resources, cftypes.ResourceToImport{
			ResourceType:       aws.String(t.ResourceType),
			LogicalResourceId:  aws.String(t.LogicalResourceId),
			ResourceIdentifier: t.ResourceIdentifier,
		})
	}

	_, err := p.cfn.CreateChangeSet(ctx, &cloudformation.CreateChangeSetInput{
		StackName:         aws.String(string(in.StackName)),
		ChangeSetName:     aws.String(changeSetName),
		ChangeSetType:     cftypes.ChangeSetTypeImport,
		TemplateURL:       aws.String(templateURL),
		ResourcesToImport: resources,
		Capabilities:      []cftypes.Capability{cftypes.CapabilityCapabilityNamedIam},
	})
	if err != nil {
		return errors.Wrap(err, "creating import change set")
	}

	waiter := cloudformation.NewChangeSetCreateCompleteWaiter(p.cfn)
	describeIn := &cloudformation.DescribeChangeSetInput{
		StackName:     aws.String(string(in.StackName)),
		ChangeSetName: aws.String(changeSetName),
	}
	if err := waiter.Wait(ctx, describeIn, p.waitTimeout); err != nil {
		return errors.Wrap(p.changeSetFailure(ctx, describeIn), "import change set did not reach CREATE_COMPLETE")
	}
	return nil
}

// changeSetFailure fetches the change-set status reason so the operator sees
// why CloudFormation rejected the import instead of a bare waiter error.
func (p *Pipeline) changeSetFailure(ctx context.Context, describeIn *cloudformation.DescribeChangeSetInput) error {
	out, err := p.cfn.DescribeChangeSet(ctx, describeIn)
	if err != nil {
		return errors.Wrap(err, "describing failed change set")
	}
	reason := aws.ToString(out.StatusReason)
	if reason == "" {
		reason = "no status reason reported"
	}
	p.log.Error("Change set failed", "status", string(out.Status), "reason", reason)
	return errors.Errorf("status %s: %s", out.Status, reason)
}

func (p *Pipeline) executeChangeSet(ctx context.Context, stackName common.StackName, changeSetName string) error {
	p.log.Info("Executing import change set", "stack", string(stackName), "changeSet", changeSetName)
	_, err := p.cfn.ExecuteChangeSet(ctx, &cloudformation.ExecuteChangeSetInput{
		StackName:     aws.String(string(stackName)),
		ChangeSetName: aws.String(changeSetName),
	})
	if err != nil {
		return errors.Wrap(err, "executing import change set")
	}

	waiter := cloudformation.NewStackImportCompleteWaiter(p.cfn)
	err = waiter.Wait(ctx, &cloudformation.DescribeStacksInput{
		StackName: aws.String(string(stackName)),
	}, p.waitTimeout)
	if err != nil {
		return errors.Wrap(err, "waiting for stack import to complete")
	}
	return nil
}

// tagStack records the template version on the now-managed stack. UpdateStack
// with UsePreviousTemplate changes nothing but the tags.
func (p *Pipeline) tagStack(ctx context.Context, in ImportInput) error {
	p.log.Info("Tagging stack", "stack", string(in.StackName), versionTagKey, in.TemplateVersion)
	tags := []cftypes.Tag{
		{Key: aws.String(versionTagKey), Value: aws.String(in.TemplateVersion)},
	}
	if in.ProjectCode != "" {
		tags = append(tags, cftypes.Tag{Key: aws.String(projectTagKey), Value: aws.String(in.ProjectCode)})
	}

	_, err := p.cfn.UpdateStack(ctx, &cloudformation.UpdateStackInput{
		StackName:           aws.String(string(in.StackName)),
		UsePreviousTemplate: aws.Bool(true),
		Tags:                tags,
		Capabilities:        []cftypes.Capability{cftypes.CapabilityCapabilityNamedIam},
	})
	if err != nil {
		return errors.Wrap(err, "adding version tag to stack")
	}

	waiter := cloudformation.NewStackUpdateCompleteWaiter(p.cfn)
	err = waiter.Wait(ctx, &cloudformation.DescribeStacksInput{
		StackName: aws.String(string(in.StackName)),
	}, p.waitTimeout)
	if err != nil {
		return errors.Wrap(err, "waiting for version tag update")
	}
	return nil
}

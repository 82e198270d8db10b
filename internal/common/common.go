package common

// CloudFormation stack name the resource is imported into, ex. my-bucket-storage
type StackName string

// The CloudFormation type of the resource, ex. AWS::S3::Bucket
type ResourceType string

// The CloudFormation Logical ID of the resource inside the Sceptre template
// See https://docs.aws.amazon.com/AWSCloudFormation/latest/UserGuide/resources-section-structure.html#resources-section-logical-id
type LogicalResourceID string

// The name of the resource property that identifies the live resource during
// an import, ex. BucketName or GroupId
type ParameterName string

// The name of the live, unmanaged resource as the operator knows it,
// ex. my-bucket or my-service-role
type ResourceName string

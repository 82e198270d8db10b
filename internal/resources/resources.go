// Package resources holds the built-in resource-type plugins. Each plugin
// embeds importer.Base and overrides the hooks its AWS service shapes
// differently, one file per resource type.
package resources

import (
	"github.com/sceptre-tools/sceptre-resource-importer/internal/importer"
)

// DefaultRegistry returns a registry with every built-in plugin registered.
func DefaultRegistry() *importer.Registry {
	r := importer.NewRegistry()
	register := func(name string, f importer.Factory) {
		if err := r.Register(name, f); err != nil {
			panic(err)
		}
	}
	register("iam-role", NewIamRole)
	register("s3-bucket", NewS3Bucket)
	register("security-group", NewSecurityGroup)
	register("sqs-queue", NewSqsQueue)
	register("dynamodb-table", NewDynamoTable)
	return r
}

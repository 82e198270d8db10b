package resources

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sceptre-tools/sceptre-resource-importer/internal/common"
	"github.com/sceptre-tools/sceptre-resource-importer/internal/importer"
)

func valuesInput(name string, desc *importer.Description) importer.ValuesInput {
	return importer.ValuesInput{
		Name:            common.ResourceName(name),
		Description:     desc,
		TemplatePath:    "templates/test.yaml",
		TemplateVersion: "1.0.0",
	}
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t,
		[]string{"dynamodb-table", "iam-role", "s3-bucket", "security-group", "sqs-queue"},
		r.Names())
}

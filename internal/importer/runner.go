package importer

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/sceptre-tools/sceptre-resource-importer/internal/cfn"
	"github.com/sceptre-tools/sceptre-resource-importer/internal/common"
	"github.com/sceptre-tools/sceptre-resource-importer/internal/config"
	"github.com/sceptre-tools/sceptre-resource-importer/internal/gitsync"
	"github.com/sceptre-tools/sceptre-resource-importer/internal/values"
)

// StackPipeline is the import sequence against live AWS state.
type StackPipeline interface {
	Run(ctx context.Context, in cfn.ImportInput) error
	Account() string
	Region() string
}

// Runner drives one import: validate, list, check, describe, import, generate.
// The sequence is strictly linear; any failure aborts the run.
type Runner struct {
	Importer Importer
	Config   *config.Config
	Pipeline StackPipeline
	Log      *slog.Logger

	// SyncCheck validates the template repository before any mutation;
	// defaults to gitsync.Verify.
	SyncCheck func(dir, branch string) error
}

// RunOptions selects the target resource and the mode.
type RunOptions struct {
	Name common.ResourceName

	// GenerateOnly skips the import pipeline and only writes the values
	// file, for stacks that were already imported.
	GenerateOnly bool
}

// Run executes the orchestration sequence and returns the path of the
// generated values file.
func (r *Runner) Run(ctx context.Context, opts RunOptions) (string, error) {
	if opts.Name == "" {
		return "", errors.New("resource name is required")
	}
	def := r.Importer.Definition()
	if err := def.Validate(); err != nil {
		return "", err
	}

	syncCheck := r.SyncCheck
	if syncCheck == nil {
		syncCheck = gitsync.Verify
	}
	if r.Config.DevMode {
		r.Log.Warn("Dev mode: skipping template repository sync check")
	} else if err := syncCheck(r.Config.TemplateDir, r.Config.TemplateVersion); err != nil {
		return "", err
	}

	if err := r.Importer.Setup(ctx, opts.Name); err != nil {
		return "", errors.Wrap(err, "plugin setup")
	}

	r.Log.Info("Listing resources", "type", string(def.ResourceType))
	report, err := r.Importer.ListResources(ctx)
	if err != nil {
		return "", err
	}
	r.Log.Debug("Resource listing", "count", len(report.Identifiers))

	if err := r.Importer.CheckExists(ctx, report, opts.Name); err != nil {
		return "", err
	}

	desc, err := r.Importer.Describe(ctx, opts.Name)
	if err != nil {
		return "", err
	}

	stackName := r.Importer.StackName(opts.Name)

	tags, err := r.Importer.Tags(ctx, opts.Name, desc)
	if err != nil {
		return "", errors.Wrap(err, "fetching resource tags")
	}

	if opts.GenerateOnly {
		r.Log.Info("Generate-only mode: skipping import pipeline", "stack", string(stackName))
	} else if err := r.runPipeline(ctx, def, desc, stackName, opts.Name); err != nil {
		return "", err
	}

	doc, err := r.Importer.Values(ctx, ValuesInput{
		Name:            opts.Name,
		StackName:       stackName,
		Description:     desc,
		Tags:            tags,
		TemplatePath:    def.Template(),
		TemplateVersion: r.Config.TemplateVersion,
		Account:         r.Pipeline.Account(),
		Region:          r.Pipeline.Region(),
	})
	if err != nil {
		return "", errors.Wrap(err, "generating values file")
	}
	if r.Importer.SkipDeploy() {
		doc.SkipDeploy()
	}

	outPath := filepath.Join(r.Config.OutputPath, string(stackName)+".yaml")
	if err := values.WriteFile(outPath, doc); err != nil {
		return "", err
	}
	r.Log.Info("Wrote values file", "path", outPath)

	r.finalLaunchSteps(outPath, stackName)
	return outPath, nil
}

func (r *Runner) runPipeline(
	ctx context.Context,
	def Definition,
	desc *Description,
	stackName common.StackName,
	name common.ResourceName,
) error {
	props, err := r.Importer.TemplateProperties(ctx, desc, name)
	if err != nil {
		return errors.Wrap(err, "building template properties")
	}
	body, err := cfn.RenderTemplate(cfn.TemplateInput{
		Description:  "Import of " + def.TypeName + " " + string(name),
		LogicalID:    def.LogicalID,
		ResourceType: def.ResourceType,
		Properties:   props,
	})
	if err != nil {
		return err
	}

	targets := cfn.NewImportTarget(def.ResourceType, def.LogicalID, r.Importer.ImportIdentifier(desc, name))
	if encoded, err := cfn.MarshalImportTargets(targets); err == nil {
		r.Log.Debug("Resources to import", "targets", string(encoded))
	}

	return r.Pipeline.Run(ctx, cfn.ImportInput{
		StackName:       stackName,
		TemplateBucket:  r.Config.TemplateBucket,
		TemplateBody:    body,
		Targets:         targets,
		TemplateVersion: r.Config.TemplateVersion,
		ProjectCode:     r.Config.ProjectCode,
	})
}

// finalLaunchSteps tells the operator how to take over with Sceptre.
func (r *Runner) finalLaunchSteps(outPath string, stackName common.StackName) {
	r.Log.Info("Import finished; review the values file before the next deploy",
		"values", outPath,
		"next", "sceptre launch "+string(stackName),
	)
}

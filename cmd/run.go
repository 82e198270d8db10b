package cmd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/pkg/errors"

	"github.com/sceptre-tools/sceptre-resource-importer/internal/cfn"
	"github.com/sceptre-tools/sceptre-resource-importer/internal/common"
	"github.com/sceptre-tools/sceptre-resource-importer/internal/config"
	"github.com/sceptre-tools/sceptre-resource-importer/internal/importer"
	"github.com/sceptre-tools/sceptre-resource-importer/internal/logging"
	"github.com/sceptre-tools/sceptre-resource-importer/internal/resources"
)

type runConfig struct {
	resourceType string
	name         string
	generateOnly bool
	commonEnv    string
	output       string
}

func validateConfig(cfg runConfig) error {
	if cfg.resourceType == "" {
		return errors.New("resource type is required")
	}
	if cfg.name == "" {
		return errors.New("resource name is required")
	}
	return nil
}

func run(ctx context.Context, cfg runConfig) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	log := logging.New(os.Stderr, verbose)

	awsCfg, err := loadAWSConfig(ctx)
	if err != nil {
		return errors.Wrap(err, "loading AWS configuration")
	}

	plugin, err := resources.DefaultRegistry().Get(cfg.resourceType, awsCfg)
	if err != nil {
		return err
	}
	def := plugin.Definition()

	invocationDir, err := os.Getwd()
	if err != nil {
		return err
	}

	conf, err := config.Load(config.Options{
		CommonEnvPath:      resolvePath(invocationDir, cfg.commonEnv),
		OutputPath:         resolvePath(invocationDir, cfg.output),
		SuggestedOutputDir: def.OutputDir,
		DevMode:            devMode,
	})
	if err != nil {
		return err
	}

	pipeline, err := cfn.NewPipeline(ctx, awsCfg, log)
	if err != nil {
		return err
	}

	runner := &importer.Runner{
		Importer: plugin,
		Config:   conf,
		Pipeline: pipeline,
		Log:      log,
	}
	_, err = runner.Run(ctx, importer.RunOptions{
		Name:         common.ResourceName(cfg.name),
		GenerateOnly: cfg.generateOnly,
	})
	return err
}

func loadAWSConfig(ctx context.Context) (aws.Config, error) {
	var optFns []func(*awsconfig.LoadOptions) error
	if profile := os.Getenv(config.EnvAwsProfile); profile != "" {
		optFns = append(optFns, awsconfig.WithSharedConfigProfile(profile))
	}
	return awsconfig.LoadDefaultConfig(ctx, optFns...)
}

func resolvePath(baseDir, path string) string {
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

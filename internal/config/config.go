package config

import (
	"os"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Environment variables understood by the importer.
const (
	EnvSceptreEnvDir      = "SCEPTRE_ENV_DIR"
	EnvSceptreTemplateDir = "SCEPTRE_TEMPLATE_DIR"
	EnvAwsProfile         = "AWS_PROFILE"
	EnvDevMode            = "DEV_MODE"
)

// versionFile sits at the root of the template repository and names the
// template release the import is pinned to.
const versionFile = "VERSION"

// commonEnvCandidates are tried in order when -c is not given, relative to the
// environment directory.
var commonEnvCandidates = []string{
	filepath.Join("common", "env.yaml"),
	"env.yaml",
}

// Config is the fully resolved run configuration. It replaces ad-hoc process
// state: everything the orchestrator needs is decided here, once, up front.
type Config struct {
	// EnvDir is the Sceptre environment repository; generated values files
	// land under it.
	EnvDir string

	// TemplateDir is the Sceptre template repository; VERSION and the tracked
	// branch live here.
	TemplateDir string

	// CommonEnvPath is the account-level YAML config consulted for the
	// template bucket and project code.
	CommonEnvPath string

	// OutputPath is the directory the generated values file is written to.
	OutputPath string

	// TemplateBucket receives the intermediate import template.
	TemplateBucket string

	// ProjectCode tags imported stacks with the owning Sceptre project.
	ProjectCode string

	// TemplateVersion is the contents of the template repository VERSION file.
	TemplateVersion string

	// Profile is the AWS shared-config profile, when set.
	Profile string

	// DevMode bypasses the repository branch-sync check.
	DevMode bool
}

// Options carries the caller-supplied overrides for Load.
type Options struct {
	CommonEnvPath      string // -c flag
	OutputPath         string // -o flag
	SuggestedOutputDir string // plugin-suggested directory under EnvDir
	DevMode            bool   // --dev flag; DEV_MODE env also honored
}

// Load resolves the run configuration from the environment and the given
// overrides. Missing directories, an unreadable common env file, or an empty
// VERSION are configuration errors and abort the run.
func Load(opts Options) (*Config, error) {
	envDir, err := resolveDir(os.Getenv(EnvSceptreEnvDir), ".")
	if err != nil {
		return nil, errors.Wrap(err, "resolving sceptre environment directory")
	}

	templateDir, err := resolveDir(os.Getenv(EnvSceptreTemplateDir), envDir)
	if err != nil {
		return nil, errors.Wrap(err, "resolving sceptre template directory")
	}

	commonEnv, err := resolveCommonEnv(envDir, opts.CommonEnvPath)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		EnvDir:        envDir,
		TemplateDir:   templateDir,
		CommonEnvPath: commonEnv,
		Profile:       os.Getenv(EnvAwsProfile),
		DevMode:       opts.DevMode || devModeEnv(),
	}

	if err := cfg.readCommonEnv(); err != nil {
		return nil, err
	}

	version, err := readVersion(templateDir)
	if err != nil {
		return nil, err
	}
	cfg.TemplateVersion = version

	cfg.OutputPath = opts.OutputPath
	if cfg.OutputPath == "" {
		cfg.OutputPath = filepath.Join(envDir, opts.SuggestedOutputDir)
	}

	return cfg, nil
}

// readCommonEnv loads the account-level YAML config. The template bucket is
// only required for the import pipeline, so its absence is checked there, not
// here.
func (c *Config) readCommonEnv() error {
	v := viper.New()
	v.SetConfigFile(c.CommonEnvPath)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "reading common env %s", c.CommonEnvPath)
	}
	c.TemplateBucket = v.GetString("template_bucket_name")
	c.ProjectCode = v.GetString("project_code")
	return nil
}

func resolveDir(path, fallback string) (string, error) {
	if path == "" {
		path = fallback
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", errors.Errorf("%s is not a directory", abs)
	}
	return abs, nil
}

func resolveCommonEnv(envDir, override string) (string, error) {
	if override != "" {
		expanded, err := homedir.Expand(override)
		if err != nil {
			return "", err
		}
		if _, err := os.Stat(expanded); err != nil {
			return "", errors.Wrap(err, "common env file")
		}
		return expanded, nil
	}
	for _, candidate := range commonEnvCandidates {
		path := filepath.Join(envDir, candidate)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", errors.Errorf("no common env file found under %s; pass one with -c", envDir)
}

func readVersion(templateDir string) (string, error) {
	raw, err := os.ReadFile(filepath.Join(templateDir, versionFile))
	if err != nil {
		return "", errors.Wrap(err, "reading template VERSION")
	}
	version := strings.TrimSpace(string(raw))
	if version == "" {
		return "", errors.Errorf("template VERSION file in %s is empty", templateDir)
	}
	return version, nil
}

func devModeEnv() bool {
	switch strings.ToLower(os.Getenv(EnvDevMode)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

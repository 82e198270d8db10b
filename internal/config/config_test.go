package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

func setupDirs(t *testing.T) (envDir, templateDir string) {
	t.Helper()
	envDir = t.TempDir()
	templateDir = t.TempDir()
	writeFile(t, filepath.Join(envDir, "common", "env.yaml"), "template_bucket_name: my-templates\nproject_code: storage\n")
	writeFile(t, filepath.Join(templateDir, "VERSION"), "1.4.0\n")
	t.Setenv(EnvSceptreEnvDir, envDir)
	t.Setenv(EnvSceptreTemplateDir, templateDir)
	t.Setenv(EnvDevMode, "")
	return envDir, templateDir
}

func TestLoadResolvesEverything(t *testing.T) {
	envDir, _ := setupDirs(t)

	cfg, err := Load(Options{SuggestedOutputDir: "storage/values"})
	require.NoError(t, err)

	assert.Equal(t, envDir, cfg.EnvDir)
	assert.Equal(t, "my-templates", cfg.TemplateBucket)
	assert.Equal(t, "storage", cfg.ProjectCode)
	assert.Equal(t, "1.4.0", cfg.TemplateVersion)
	assert.Equal(t, filepath.Join(envDir, "storage/values"), cfg.OutputPath)
	assert.False(t, cfg.DevMode)
}

func TestLoadOutputPathOverride(t *testing.T) {
	setupDirs(t)

	cfg, err := Load(Options{SuggestedOutputDir: "storage/values", OutputPath: "/tmp/out"})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/out", cfg.OutputPath)
}

func TestLoadCommonEnvOverride(t *testing.T) {
	_, templateDir := setupDirs(t)
	override := filepath.Join(templateDir, "alt-env.yaml")
	writeFile(t, override, "template_bucket_name: other-bucket\n")

	cfg, err := Load(Options{CommonEnvPath: override, SuggestedOutputDir: "x"})
	require.NoError(t, err)
	assert.Equal(t, override, cfg.CommonEnvPath)
	assert.Equal(t, "other-bucket", cfg.TemplateBucket)
}

func TestLoadMissingCommonEnv(t *testing.T) {
	envDir := t.TempDir()
	templateDir := t.TempDir()
	writeFile(t, filepath.Join(templateDir, "VERSION"), "1.0.0")
	t.Setenv(EnvSceptreEnvDir, envDir)
	t.Setenv(EnvSceptreTemplateDir, templateDir)

	_, err := Load(Options{SuggestedOutputDir: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no common env file")
}

func TestLoadEmptyVersionFails(t *testing.T) {
	_, templateDir := setupDirs(t)
	writeFile(t, filepath.Join(templateDir, "VERSION"), "  \n")

	_, err := Load(Options{SuggestedOutputDir: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "VERSION file")
}

func TestLoadMissingTemplateDir(t *testing.T) {
	setupDirs(t)
	t.Setenv(EnvSceptreTemplateDir, "/does/not/exist")

	_, err := Load(Options{SuggestedOutputDir: "x"})
	require.Error(t, err)
}

func TestDevModeFromEnvironment(t *testing.T) {
	setupDirs(t)

	for _, val := range []string{"1", "true", "YES", "on"} {
		t.Setenv(EnvDevMode, val)
		cfg, err := Load(Options{SuggestedOutputDir: "x"})
		require.NoError(t, err)
		assert.True(t, cfg.DevMode, "DEV_MODE=%s", val)
	}

	t.Setenv(EnvDevMode, "0")
	cfg, err := Load(Options{SuggestedOutputDir: "x"})
	require.NoError(t, err)
	assert.False(t, cfg.DevMode)
}

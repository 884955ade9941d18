package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/CarlosCampa21/aura-api/pkg/cli/config"
	"github.com/CarlosCampa21/aura-api/pkg/service/chunker"
	"github.com/CarlosCampa21/aura-api/pkg/service/rag"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "academic.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestAcademicLoad_Defaults(t *testing.T) {
	var a config.Academic

	cfg, err := a.Load()
	gt.NoError(t, err)

	gt.Value(t, cfg.Chunking.MaxChars).Equal(chunker.DefaultMaxChars)
	gt.Value(t, cfg.Chunking.Overlap).Equal(chunker.DefaultOverlap)
	gt.Value(t, cfg.Retrieval.TopK).Equal(rag.DefaultTopK)
	gt.Value(t, cfg.RateLimit.Requests).Equal(30)
	gt.Value(t, cfg.RateLimit.WindowSeconds).Equal(60)
}

func TestAcademicLoad_File(t *testing.T) {
	path := writeConfig(t, `
department = "Ingeniería en Sistemas"
campus = "norte"
timezone = "America/Mexico_City"
context = "Instituto Tecnológico, campus norte."

[chunking]
max_chars = 800
overlap = 150

[retrieval]
top_k = 12

[rate_limit]
requests = 10
window_seconds = 120
`)

	var a config.Academic
	a.SetPath(path)

	cfg, err := a.Load()
	gt.NoError(t, err)

	gt.Value(t, cfg.Department).Equal("Ingeniería en Sistemas")
	gt.Value(t, cfg.Campus).Equal("norte")
	gt.Value(t, cfg.Timezone).Equal("America/Mexico_City")
	gt.Value(t, cfg.Chunking.MaxChars).Equal(800)
	gt.Value(t, cfg.Chunking.Overlap).Equal(150)
	gt.Value(t, cfg.Retrieval.TopK).Equal(12)
	gt.Value(t, cfg.RateLimit.Requests).Equal(10)
	gt.Value(t, cfg.RateLimit.WindowSeconds).Equal(120)
}

func TestAcademicLoad_InvalidOverlap(t *testing.T) {
	path := writeConfig(t, `
[chunking]
max_chars = 100
overlap = 100
`)

	var a config.Academic
	a.SetPath(path)

	_, err := a.Load()
	gt.Error(t, err)
}

func TestAcademicLoad_InvalidTimezone(t *testing.T) {
	path := writeConfig(t, `timezone = "Marte/Olympus"`)

	var a config.Academic
	a.SetPath(path)

	_, err := a.Load()
	gt.Error(t, err)
}

func TestAcademicLoad_MissingFile(t *testing.T) {
	var a config.Academic
	a.SetPath(filepath.Join(t.TempDir(), "no-such.toml"))

	_, err := a.Load()
	gt.Error(t, err)
}

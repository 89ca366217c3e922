package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "cohere", cfg.Embedder.Type)
	assert.Equal(t, "embed-v4.0", cfg.Embedder.Cohere.Model)
	assert.Equal(t, 1536, cfg.Embedder.Cohere.Dimension)
	assert.Equal(t, "qdrant", cfg.VectorStore.Type)
	assert.Equal(t, "office_incidents", cfg.VectorStore.Qdrant.IncidentsCollection)
	assert.Equal(t, "solutions_guide", cfg.VectorStore.Qdrant.SolutionsCollection)
	assert.Equal(t, "groq", cfg.LLM.Type)
	assert.Equal(t, "llama3-70b-8192", cfg.LLM.Groq.Model)

	require.NotNil(t, cfg.Pipeline.ThresholdFloor)
	assert.Equal(t, 0.6, *cfg.Pipeline.ThresholdFloor)
	assert.Equal(t, 0.7, cfg.Pipeline.ThresholdMultiplier)
	require.NotNil(t, cfg.Pipeline.KeywordMatchRatio)
	assert.Equal(t, 0.3, *cfg.Pipeline.KeywordMatchRatio)
	assert.Equal(t, 3, cfg.Pipeline.MinKeywordLength)
	assert.Equal(t, 10, cfg.Pipeline.TopResolvers)
	assert.Equal(t, 8, cfg.Pipeline.TopGroups)
	assert.Equal(t, 6, cfg.Pipeline.TopCIClasses)

	assert.Equal(t, 10, cfg.Retrieval.TopK)
	assert.Equal(t, 500, cfg.Chunker.WordsPerChunk)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadAppliesDefaultsToPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
vector_store:
  type: qdrant
  qdrant:
    url: http://localhost:6333
    incidents_collection: custom_incidents
pipeline:
  threshold_floor: 0.5
  top_resolvers: 3
retrieval:
  top_k: 25
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:6333", cfg.VectorStore.Qdrant.URL)
	assert.Equal(t, "custom_incidents", cfg.VectorStore.Qdrant.IncidentsCollection)
	assert.Equal(t, "solutions_guide", cfg.VectorStore.Qdrant.SolutionsCollection)
	require.NotNil(t, cfg.Pipeline.ThresholdFloor)
	assert.Equal(t, 0.5, *cfg.Pipeline.ThresholdFloor)
	assert.Equal(t, 0.7, cfg.Pipeline.ThresholdMultiplier)
	assert.Equal(t, 3, cfg.Pipeline.TopResolvers)
	assert.Equal(t, 25, cfg.Retrieval.TopK)
	// embedder and llm sections absent entirely, fully defaulted
	assert.Equal(t, "cohere", cfg.Embedder.Type)
	assert.Equal(t, "groq", cfg.LLM.Type)
}

func TestLoadKeepsExplicitZeroTunings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
pipeline:
  threshold_floor: 0
  keyword_match_ratio: 0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Pipeline.ThresholdFloor)
	assert.Equal(t, 0.0, *cfg.Pipeline.ThresholdFloor)
	require.NotNil(t, cfg.Pipeline.KeywordMatchRatio)
	assert.Equal(t, 0.0, *cfg.Pipeline.KeywordMatchRatio)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("embedder: [not a mapping"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := defaultConfig()
	cfg.Retrieval.TopK = 42
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 42, loaded.Retrieval.TopK)
	assert.Equal(t, cfg.Embedder.Cohere.Model, loaded.Embedder.Cohere.Model)
}

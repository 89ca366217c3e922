// Package app assembles the configured components into an assist service.
package app

import (
	"fmt"
	"os"
	"time"

	"incidentassist/internal/analytics"
	"incidentassist/internal/chunker"
	"incidentassist/internal/config"
	"incidentassist/internal/embedding"
	"incidentassist/internal/embedding/cohere"
	"incidentassist/internal/llm"
	"incidentassist/internal/llm/groq"
	"incidentassist/internal/pipeline"
	"incidentassist/internal/relevance"
	"incidentassist/internal/service"
	"incidentassist/internal/summarizer"
	"incidentassist/internal/vectorstore"
	"incidentassist/internal/vectorstore/memory"
	"incidentassist/internal/vectorstore/qdrant"
)

// Build wires an AssistService from the loaded configuration. It fails fast on
// unknown component types, missing credentials and invalid pipeline tuning.
func Build(cfg *config.AppConfig) (*service.AssistService, error) {
	var emb embedding.Embedder
	switch cfg.Embedder.Type {
	case "cohere":
		client, err := cohere.NewClient(cohere.Config{
			BaseURL:   cfg.Embedder.Cohere.BaseURL,
			APIKeyEnv: cfg.Embedder.Cohere.APIKeyEnv,
			Model:     cfg.Embedder.Cohere.Model,
			Dimension: cfg.Embedder.Cohere.Dimension,
			Timeout:   time.Duration(cfg.Embedder.Cohere.TimeoutSecs) * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("cohere embedder init: %w", err)
		}
		emb = client
	default:
		return nil, fmt.Errorf("unknown embedder: %s", cfg.Embedder.Type)
	}

	var incidents, solutions vectorstore.Store
	switch cfg.VectorStore.Type {
	case "qdrant":
		q := cfg.VectorStore.Qdrant
		apiKey := os.Getenv(q.APIKeyEnv)
		timeout := time.Duration(q.TimeoutSecs) * time.Second
		incidents = qdrant.New(qdrant.Config{
			URL: q.URL, APIKey: apiKey, Collection: q.IncidentsCollection, Timeout: timeout,
		})
		solutions = qdrant.New(qdrant.Config{
			URL: q.URL, APIKey: apiKey, Collection: q.SolutionsCollection, Timeout: timeout,
		})
	case "memory":
		incidents = memory.New()
		solutions = memory.New()
	default:
		return nil, fmt.Errorf("unknown vector store: %s", cfg.VectorStore.Type)
	}

	var chat llm.ChatModel
	switch cfg.LLM.Type {
	case "groq":
		client, err := groq.NewClient(groq.Config{
			BaseURL:     cfg.LLM.Groq.BaseURL,
			APIKeyEnv:   cfg.LLM.Groq.APIKeyEnv,
			Model:       cfg.LLM.Groq.Model,
			Temperature: cfg.LLM.Groq.Temperature,
			MaxTokens:   cfg.LLM.Groq.MaxTokens,
			Timeout:     time.Duration(cfg.LLM.Groq.TimeoutSecs) * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("groq chat init: %w", err)
		}
		chat = client
	default:
		return nil, fmt.Errorf("unknown llm: %s", cfg.LLM.Type)
	}

	pipe, err := pipeline.New(pipeline.Params{
		Relevance: relevance.Params{
			ThresholdFloor:      *cfg.Pipeline.ThresholdFloor,
			ThresholdMultiplier: cfg.Pipeline.ThresholdMultiplier,
			KeywordMatchRatio:   *cfg.Pipeline.KeywordMatchRatio,
			MinKeywordLength:    cfg.Pipeline.MinKeywordLength,
		},
		Analytics: analytics.Params{
			TopResolvers: cfg.Pipeline.TopResolvers,
			TopGroups:    cfg.Pipeline.TopGroups,
			TopCIClasses: cfg.Pipeline.TopCIClasses,
		},
	})
	if err != nil {
		return nil, err
	}

	return service.New(
		emb,
		incidents,
		solutions,
		chat,
		pipe,
		summarizer.NewFrequency(),
		chunker.NewWordChunker(cfg.Chunker.WordsPerChunk, cfg.Chunker.OverlapWords),
		service.Options{
			TopK:            cfg.Retrieval.TopK,
			SolutionTopK:    cfg.Retrieval.SolutionTopK,
			DigestSentences: cfg.Summarizer.MaxSentences,
		},
	), nil
}

package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation error [%s]: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	if len(errs) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("found %d configuration error(s):\n", len(errs)))
	for i, err := range errs {
		b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Message))
	}
	return b.String()
}

// Validate validates the complete configuration
func (c *Config) Validate() error {
	var errs ValidationErrors

	errs = append(errs, c.validateChat()...)
	errs = append(errs, c.validateLLM()...)
	errs = append(errs, c.validateSearch()...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// validateChat validates turn-loop configuration
func (c *Config) validateChat() ValidationErrors {
	var errs ValidationErrors

	if c.Chat.NumChunks <= 0 {
		errs = append(errs, ValidationError{
			Field:   "chat.num_chunks",
			Message: fmt.Sprintf("chat.num_chunks must be positive, got %d", c.Chat.NumChunks),
		})
	}

	if c.Chat.NumChunks > 100 {
		errs = append(errs, ValidationError{
			Field:   "chat.num_chunks",
			Message: fmt.Sprintf("chat.num_chunks %d is too large (max recommended: 100)", c.Chat.NumChunks),
		})
	}

	if c.Chat.MaxSuggestions < 0 || c.Chat.MaxSuggestions > 10 {
		errs = append(errs, ValidationError{
			Field:   "chat.max_suggestions",
			Message: fmt.Sprintf("chat.max_suggestions must be in [0, 10], got %d", c.Chat.MaxSuggestions),
		})
	}

	return errs
}

// validateLLM validates completion model configuration
func (c *Config) validateLLM() ValidationErrors {
	var errs ValidationErrors

	if c.LLM.Provider == "" {
		errs = append(errs, ValidationError{
			Field:   "llm.provider",
			Message: "llm provider is required",
		})
	}

	if c.LLM.Model == "" {
		errs = append(errs, ValidationError{
			Field:   "llm.model",
			Message: "llm model is required",
		})
	}

	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errs = append(errs, ValidationError{
			Field:   "llm.temperature",
			Message: fmt.Sprintf("llm.temperature must be in [0, 2], got %.2f", c.LLM.Temperature),
		})
	}

	return errs
}

// validateSearch validates retrieval backend configuration
func (c *Config) validateSearch() ValidationErrors {
	var errs ValidationErrors

	switch strings.ToLower(c.Search.Provider) {
	case "cortex":
		if c.Search.Endpoint == "" {
			errs = append(errs, ValidationError{
				Field:   "search.endpoint",
				Message: "search endpoint is required for the cortex provider",
			})
		}
	case "milvus":
		if c.VectorDB.Host == "" {
			errs = append(errs, ValidationError{
				Field:   "vectordb.host",
				Message: "vectordb host is required for the milvus provider",
			})
		}
		if c.VectorDB.Collection == "" {
			errs = append(errs, ValidationError{
				Field:   "vectordb.collection",
				Message: "collection name is required for the milvus provider",
			})
		}
		if c.Embedding.Provider == "" {
			errs = append(errs, ValidationError{
				Field:   "embedding.provider",
				Message: "embedding provider is required for the milvus provider",
			})
		}
		if c.Embedding.Model == "" {
			errs = append(errs, ValidationError{
				Field:   "embedding.model",
				Message: "embedding model is required for the milvus provider",
			})
		}
		if c.Embedding.Dimensions <= 0 {
			errs = append(errs, ValidationError{
				Field:   "embedding.dimensions",
				Message: fmt.Sprintf("embedding dimensions must be positive, got %d", c.Embedding.Dimensions),
			})
		}
	case "":
		errs = append(errs, ValidationError{
			Field:   "search.provider",
			Message: "search provider is required",
		})
	default:
		errs = append(errs, ValidationError{
			Field:   "search.provider",
			Message: fmt.Sprintf("unknown search provider %q (expected cortex or milvus)", c.Search.Provider),
		})
	}

	return errs
}

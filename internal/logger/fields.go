package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldProvider is the structured log field key for the LLM provider name.
	FieldProvider = "ai_provider"
	// FieldModel is the structured log field key for the LLM model identifier.
	FieldModel = "ai_model"
)

// WithProvider attaches the common provider and model fields to the logger,
// skipping empty values to keep entries compact. A nil logger is replaced
// with a no-op logger to avoid panics.
func WithProvider(logger *zap.Logger, provider, model string) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	fields := make([]zap.Field, 0, 2)
	if provider = strings.TrimSpace(provider); provider != "" {
		fields = append(fields, zap.String(FieldProvider, provider))
	}
	if model = strings.TrimSpace(model); model != "" {
		fields = append(fields, zap.String(FieldModel, model))
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

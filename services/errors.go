package services

import "errors"

var (
	// ErrCorpusDirMissing means the configured corpus directory does not exist.
	ErrCorpusDirMissing = errors.New("corpus directory not found")
	// ErrEmptyCorpus means no document in the corpus directory produced a chunk.
	ErrEmptyCorpus = errors.New("no valid text data found in corpus directory")

	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	ErrModelMismatch     = errors.New("embedding model does not match index")

	// Request-scoped failures, classified by the ask controller.
	ErrTranslation = errors.New("translation failed")
	ErrRetrieval   = errors.New("retrieval failed")
	ErrGeneration  = errors.New("generation failed")
)

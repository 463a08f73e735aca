// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - TextExtractor / ExtractorRegistry: Page text out of a document file
//   - Chunker: Splits a document into overlapping chunks
//   - EmbeddingService: Maps text to a fixed-length vector
//   - VectorIndex: In-memory nearest-neighbour search over chunk vectors
//   - IndexStore: Durable storage of vector index snapshots
//   - LLMService: Maps a prompt to an answer string
//   - PromptStore: User-editable prompt templates
//   - ConfigStore: Application configuration
//   - AIConfigValidator: Connectivity checks for configured providers
//
// Embedding and LLM providers are opaque: any implementation of the
// capability is substitutable, which is how tests supply deterministic doubles.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or postprocessor package
package driven

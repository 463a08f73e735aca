// Package extractors provides implementations of the TextExtractor interface
// for the document formats docqa can answer questions about. Each extractor
// knows how to pull page text out of files with specific extensions.
//
// Extractors are registered with a Registry at startup; see RegisterDefaults.
package extractors

// Package services is the question-answering core.
//
// IndexBuilder turns a file into a Session: extract pages, chunk, embed,
// persist, or load a stored snapshot when the content hash and embedding
// model match. A Session pairs a Retriever (embed the question, search
// the index) with a Synthesizer (prompt the model with the passages).
// IndexService and SettingsService back the admin commands.
package services

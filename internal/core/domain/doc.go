// Package domain holds docqa's entities: documents and their pages,
// chunks, scored retrieval results, answers, index metadata, settings and
// the sentinel errors every layer wraps.
//
// It imports the standard library only; everything else imports it.
package domain

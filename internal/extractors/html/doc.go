// Package html extracts the visible text of HTML documents with the
// golang.org/x/net/html tokenizer. Block elements become line breaks so
// the chunker can split on them.
package html

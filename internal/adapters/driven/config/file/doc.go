// Package file keeps docqa's user-editable state on disk: config.toml
// (ConfigStore) and the prompts/ directory (PromptStore), both under
// ~/.docqa by default.
package file

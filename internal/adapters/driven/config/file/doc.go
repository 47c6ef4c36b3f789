// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML configuration at ~/.algomaster/config.toml
//   - PromptStore: editable prompt templates under ~/.algomaster/prompts
//   - PromptWatcher: reloads the PromptStore when templates change
package file

// Package genai implements the explanation generator and the chat tutor
// on top of a driven.LLMService.
//
// Both collaborators build their requests from prompt templates. When a
// driven.PromptStore is set they load the user-editable templates from it,
// otherwise the short built-in templates in this package apply.
package genai

// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - ExplanationGenerator: Produces explanation documents for a topic
//   - ChatAssistant: Answers tutor questions
//   - ExplanationCache: Local explanation persistence
//   - ConfigStore: Application configuration
//   - TopicCatalog: Suggested categories and topics
//   - Clock: Time source and recurring timers
//
// # Optional Interfaces
//
//   - LLMService: Raw model access used by the genai collaborators.
//   - PromptStore: Customisable prompt templates. Built-in defaults apply when nil.
//   - AIConfigValidator: Connectivity checks for settings.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven

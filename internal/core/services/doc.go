// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The learning session composes the explanation service, the step
// player, the term router and the chat session. Services depend only on
// ports and the domain; adapters are injected by the composition root.
package services

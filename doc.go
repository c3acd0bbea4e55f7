// Package amoserver implements Amo, a conversational shopping assistant.
//
// The module provides:
//   - Chat, voice round-trip, speech and transcription relays to the provider
//   - Ephemeral realtime voice credentials with short-lived leases
//   - Keyword-driven visual content for product categories
//   - A CLI client with a live WebRTC voice session
package amoserver

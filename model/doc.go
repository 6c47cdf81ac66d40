// Package model defines the provider-agnostic abstractions for the language
// models that drive Agentry entities.
//
// Core goals:
//   - Keep request/response shapes minimal and transport independent
//   - Normalize tool exposure and tool-call representation across vendors
//   - Facilitate deterministic mocking for tests (MockModel)
//
// Providers (OpenAI, Anthropic, Gemini) implement the Model interface in
// their own subpackages so higher layers stay decoupled from vendor SDKs.
package model

// Package script generates podcast scripts with a hosted language model.
// Two backends are available: Gemini through the genai SDK and any
// OpenAI-compatible chat completion endpoint through go-openai.
package script

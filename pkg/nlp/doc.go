// Package nlp provides language model access for the conversational
// layer: decomposing user questions into lookup terms, detecting the
// question language, and rendering biographical facts into prose
// answers.
//
// The only concrete client speaks the OpenAI chat API, which also
// covers OpenAI-compatible services such as a local Ollama instance
// via a custom base URL. RetryClient wraps any Client with exponential
// backoff for transient failures.
package nlp

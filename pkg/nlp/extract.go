package nlp

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	jsonrepair "github.com/kaptinlin/jsonrepair"
)

// Extraction is the structured reading of a free-text question: the
// entity and property mentions to resolve against Wikidata, an
// optional year, and the question's language.
type Extraction struct {
	Entity   string `json:"entity"`
	Property string `json:"property"`
	Year     *int   `json:"year,omitempty"`
	Language string `json:"language,omitempty"`
}

const extractionPrompt = `You are an expert in analyzing questions about facts in a knowledge graph.
Given the following question, identify:
- "entity": the subject the question is about (an organization, team, place, or person)
- "property": the relationship or attribute being asked for (e.g. "head coach", "chief executive officer")
- "year": the year the question refers to as an integer, or null if no year is mentioned
Respond ONLY with a JSON object containing exactly the keys "entity", "property", and "year".
Question: '''%s'''`

// ExtractQuery asks the model to decompose a user question into its
// entity mention, property mention, and optional year. Model output
// that is not quite valid JSON is repaired before parsing.
func ExtractQuery(ctx context.Context, client Client, question string) (*Extraction, error) {
	resp, err := client.ChatJSON(ctx, []Message{
		NewUserMessage(fmt.Sprintf(extractionPrompt, question)),
	})
	if err != nil {
		return nil, fmt.Errorf("extracting query terms: %w", err)
	}

	var extraction Extraction
	if err := unmarshalRepaired(resp.Content, &extraction); err != nil {
		return nil, err
	}
	extraction.Entity = strings.TrimSpace(extraction.Entity)
	extraction.Property = strings.TrimSpace(extraction.Property)
	if extraction.Entity == "" || extraction.Property == "" {
		return nil, &MalformedOutputError{
			Message: fmt.Sprintf("extraction is missing entity or property: %q", resp.Content),
		}
	}
	return &extraction, nil
}

const languagePrompt = `You are an expert in natural language analysis with expertise in recognizing the language of a given text.
Given the following message, identify the language used.
Respond ONLY with a JSON object containing a single key "language"
and value being the detected language as a BCP 47 tag (e.g., "de", "en").
Message: '''%s'''`

// DetectLanguage asks the model for the language of a message and
// returns it as a lowercase tag. Falls back to "en" when the model
// output cannot be parsed.
func DetectLanguage(ctx context.Context, client Client, message string) (string, error) {
	resp, err := client.ChatJSON(ctx, []Message{
		NewUserMessage(fmt.Sprintf(languagePrompt, message)),
	})
	if err != nil {
		return "", fmt.Errorf("detecting language: %w", err)
	}

	var out struct {
		Language string `json:"language"`
	}
	if err := unmarshalRepaired(resp.Content, &out); err != nil {
		return "en", nil
	}
	language := strings.ToLower(strings.TrimSpace(out.Language))
	if language == "" {
		return "en", nil
	}
	return language, nil
}

const answerPrompt = `You are a helpful assistant answering questions about people using verified biographical facts.
Answer the question below using ONLY the facts provided. Do not invent facts.
Answer in the language tagged "%s", in a short conversational paragraph.

Facts:
%s

Question: '''%s'''`

// GenerateAnswer turns assembled biographical facts into a prose
// answer to the user's question.
func GenerateAnswer(ctx context.Context, client Client, question, facts, language string) (string, error) {
	if language == "" {
		language = "en"
	}
	resp, err := client.Chat(ctx, []Message{
		NewUserMessage(fmt.Sprintf(answerPrompt, language, facts, question)),
	})
	if err != nil {
		return "", fmt.Errorf("generating answer: %w", err)
	}
	answer := strings.TrimSpace(removeThinkTags(resp.Content))
	if answer == "" {
		return "", &EmptyResponseError{Message: "empty answer from model"}
	}
	return answer, nil
}

var thinkTagPattern = regexp.MustCompile(`(?s)<think>.*?</think>`)

// removeThinkTags strips reasoning blocks that some local models emit
// before their actual answer.
func removeThinkTags(s string) string {
	return thinkTagPattern.ReplaceAllString(s, "")
}

// unmarshalRepaired parses model JSON output, repairing common
// malformations (trailing commas, unquoted keys, fenced code blocks)
// on a first-parse failure.
func unmarshalRepaired(content string, v any) error {
	content = strings.TrimSpace(removeThinkTags(content))
	if err := json.Unmarshal([]byte(content), v); err == nil {
		return nil
	}

	repaired, err := jsonrepair.JSONRepair(content)
	if err != nil {
		return &MalformedOutputError{Message: fmt.Sprintf("unrepairable model output: %q", content)}
	}
	if err := json.Unmarshal([]byte(repaired), v); err != nil {
		return &MalformedOutputError{Message: fmt.Sprintf("model output is not valid JSON: %q", content)}
	}
	return nil
}

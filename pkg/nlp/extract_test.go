package nlp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedClient returns canned responses in order.
type scriptedClient struct {
	responses []string
	err       error
	prompts   []string
}

func (s *scriptedClient) next(messages []Message) (*Response, error) {
	if len(messages) > 0 {
		s.prompts = append(s.prompts, messages[len(messages)-1].Content)
	}
	if s.err != nil {
		return nil, s.err
	}
	if len(s.responses) == 0 {
		return &Response{}, nil
	}
	content := s.responses[0]
	s.responses = s.responses[1:]
	return &Response{Content: content, FinishReason: "stop"}, nil
}

func (s *scriptedClient) Chat(ctx context.Context, messages []Message) (*Response, error) {
	return s.next(messages)
}

func (s *scriptedClient) ChatJSON(ctx context.Context, messages []Message) (*Response, error) {
	return s.next(messages)
}

func (s *scriptedClient) Close() error { return nil }

func TestExtractQuery(t *testing.T) {
	client := &scriptedClient{responses: []string{
		`{"entity": "FC Bayern Munich", "property": "head coach", "year": 2017}`,
	}}

	got, err := ExtractQuery(context.Background(), client, "who coached bayern in 2017?")
	require.NoError(t, err)
	assert.Equal(t, "FC Bayern Munich", got.Entity)
	assert.Equal(t, "head coach", got.Property)
	require.NotNil(t, got.Year)
	assert.Equal(t, 2017, *got.Year)
	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "who coached bayern in 2017?")
}

func TestExtractQueryNoYear(t *testing.T) {
	client := &scriptedClient{responses: []string{
		`{"entity": "Germany", "property": "head of state", "year": null}`,
	}}

	got, err := ExtractQuery(context.Background(), client, "who is the german head of state?")
	require.NoError(t, err)
	assert.Nil(t, got.Year)
}

func TestExtractQueryRepairsSloppyJSON(t *testing.T) {
	client := &scriptedClient{responses: []string{
		"```json\n{entity: 'FC Bayern Munich', property: 'head coach', year: 2017,}\n```",
	}}

	got, err := ExtractQuery(context.Background(), client, "who coached bayern in 2017?")
	require.NoError(t, err)
	assert.Equal(t, "FC Bayern Munich", got.Entity)
	assert.Equal(t, "head coach", got.Property)
}

func TestExtractQueryMissingFields(t *testing.T) {
	client := &scriptedClient{responses: []string{`{"entity": "", "property": "head coach"}`}}

	_, err := ExtractQuery(context.Background(), client, "hm?")
	var malformed *MalformedOutputError
	assert.ErrorAs(t, err, &malformed)
}

func TestExtractQueryClientError(t *testing.T) {
	client := &scriptedClient{err: errors.New("connection refused")}

	_, err := ExtractQuery(context.Background(), client, "who coached bayern?")
	assert.ErrorContains(t, err, "connection refused")
}

func TestDetectLanguage(t *testing.T) {
	client := &scriptedClient{responses: []string{`{"language": "DE"}`}}

	got, err := DetectLanguage(context.Background(), client, "Wer war Trainer?")
	require.NoError(t, err)
	assert.Equal(t, "de", got)
}

func TestDetectLanguageFallsBackToEnglish(t *testing.T) {
	client := &scriptedClient{responses: []string{"I think it's German"}}

	got, err := DetectLanguage(context.Background(), client, "Wer war Trainer?")
	require.NoError(t, err)
	assert.Equal(t, "en", got)
}

func TestGenerateAnswer(t *testing.T) {
	client := &scriptedClient{responses: []string{
		"<think>check facts</think>Carlo Ancelotti was the head coach in 2017.",
	}}

	got, err := GenerateAnswer(context.Background(), client,
		"who coached bayern in 2017?", "Name: Carlo Ancelotti", "en")
	require.NoError(t, err)
	assert.Equal(t, "Carlo Ancelotti was the head coach in 2017.", got)
	assert.Contains(t, client.prompts[0], "Name: Carlo Ancelotti")
}

func TestGenerateAnswerEmpty(t *testing.T) {
	client := &scriptedClient{responses: []string{"  <think>hm</think>  "}}

	_, err := GenerateAnswer(context.Background(), client, "q", "facts", "en")
	assert.ErrorIs(t, err, &EmptyResponseError{})
}

package core

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

const (
	defaultTitleModelName = "gemini-2.0-flash-lite"

	titleSystemInstruction = "You are a helpful assistant that generates concise titles for chat conversations. " +
		"The title should be 3-5 words maximum. Just return the title itself, nothing else."
)

// RemoteServiceError wraps any failure at the generation-service boundary:
// network errors, quota exhaustion, malformed requests, safety blocks. It is
// recoverable at the turn level; the caller surfaces it and the user decides
// whether to retry or rephrase.
type RemoteServiceError struct {
	Op  string
	Err error
}

func (e *RemoteServiceError) Error() string {
	return fmt.Sprintf("remote generation service: %s: %v", e.Op, e.Err)
}

func (e *RemoteServiceError) Unwrap() error {
	return e.Err
}

// FragmentStream is a finite, ordered, non-restartable pull sequence of text
// fragments from one generation. Next returns io.EOF after the last fragment
// and a *RemoteServiceError if the stream fails mid-flight. Fetching the next
// fragment may block on the network for an arbitrary time.
type FragmentStream interface {
	Next() (string, error)
}

// ConversationHandle is a stateful remote conversation context. Each
// successful Send grows the remote-side history with the transmitted prompt
// and the assembled reply, mirroring the session's local protocol history.
type ConversationHandle interface {
	Send(ctx context.Context, prompt string) FragmentStream
}

// ChatStreamer opens conversation handles seeded with prior turns and
// performs secondary one-shot generations. The production implementation is
// GeminiClient; tests substitute scripted streams.
type ChatStreamer interface {
	Open(priorTurns []ModelTurn) ConversationHandle
	GenerateTitle(ctx context.Context, basis string) (string, error)
}

// GeminiClient is the production ChatStreamer backed by the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, apiKey, modelName string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiClient{client: client, model: modelName}, nil
}

func (c *GeminiClient) Close() {
	if c.client != nil {
		if err := c.client.Close(); err != nil {
			log.Printf("Error closing GenAI client: %v", err)
		} else {
			log.Println("GenAI client closed.")
		}
	}
}

// Open starts a remote chat context seeded with the session's prior turns so
// the full history is not re-sent on every call.
func (c *GeminiClient) Open(priorTurns []ModelTurn) ConversationHandle {
	model := c.client.GenerativeModel(c.model)
	chatSession := model.StartChat()
	chatSession.History = toGenaiHistory(priorTurns)
	return &geminiHandle{session: chatSession}
}

func toGenaiHistory(turns []ModelTurn) []*genai.Content {
	history := make([]*genai.Content, 0, len(turns))
	for _, t := range turns {
		parts := make([]genai.Part, 0, len(t.Parts))
		for _, p := range t.Parts {
			parts = append(parts, genai.Text(p))
		}
		history = append(history, &genai.Content{Role: string(t.Role), Parts: parts})
	}
	return history
}

type geminiHandle struct {
	session *genai.ChatSession
}

func (h *geminiHandle) Send(ctx context.Context, prompt string) FragmentStream {
	iter := h.session.SendMessageStream(ctx, genai.Text(prompt))
	return &geminiStream{iter: iter}
}

type geminiStream struct {
	iter *genai.GenerateContentResponseIterator
}

func (s *geminiStream) Next() (string, error) {
	resp, err := s.iter.Next()
	if err == iterator.Done {
		return "", io.EOF
	}
	if err != nil {
		return "", &RemoteServiceError{Op: "stream", Err: err}
	}
	return responseText(resp), nil
}

// responseText flattens the text parts of one streamed chunk. Non-text parts
// are logged and skipped; an all-empty chunk yields an empty fragment, which
// is harmless to concatenate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		} else {
			log.Printf("Gemini response part was not text: %T", part)
		}
	}
	return b.String()
}

// GenerateTitle asks the model for a short session title based on the first
// user message. Non-streaming; failures here never affect the conversation.
func (c *GeminiClient) GenerateTitle(ctx context.Context, basis string) (string, error) {
	model := c.client.GenerativeModel(defaultTitleModelName)

	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(titleSystemInstruction)},
	}

	temp := float32(0.3)
	maxTokens := int32(20)
	model.GenerationConfig = genai.GenerationConfig{
		MaxOutputTokens: &maxTokens,
		Temperature:     &temp,
	}

	prompt := fmt.Sprintf("Generate a very concise title (3-5 words maximum) for a conversation that starts with or is about: %q.", basis)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &RemoteServiceError{Op: "title generation", Err: err}
	}

	title := responseText(resp)
	if title == "" {
		return "", fmt.Errorf("model generated an empty title string")
	}
	return strings.Trim(title, "\"'\n\r\t ."), nil
}

package genai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ══════════════════════════════════════════════════════════════════════════════
// WIRE TYPES
// ══════════════════════════════════════════════════════════════════════════════

// chatMessage is a single message in a chat completion request.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the chat completion request body.
type chatRequest struct {
	Model    string        `json:"model,omitempty"`
	Messages []chatMessage `json:"messages"`
}

// chatResponse is the chat completion response body.
type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// challengePayload is the JSON document the model is instructed to return.
type challengePayload struct {
	Challenge string `json:"challenge"`
	Category  string `json:"category"`
}

// parseChallengeContent parses and validates the model output.
// The content must be a JSON object with a non-empty "challenge" string;
// anything else is a schema violation.
func parseChallengeContent(content string) (*challengePayload, error) {
	content = stripCodeFence(strings.TrimSpace(content))

	var payload challengePayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, fmt.Errorf("invalid challenge json: %w", err)
	}

	if strings.TrimSpace(payload.Challenge) == "" {
		return nil, fmt.Errorf("challenge text is empty")
	}

	payload.Challenge = strings.TrimSpace(payload.Challenge)
	payload.Category = strings.TrimSpace(payload.Category)
	return &payload, nil
}

// stripCodeFence removes a surrounding markdown code fence. Models often
// wrap JSON in ```json ... ``` despite instructions.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[idx+1:] // Drop the language tag line
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

package services_test

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// chatBody wraps content in an OpenAI-style chat completion body.
func chatBody(content string) []byte {
	b, err := json.Marshal(openai.ChatCompletionResponse{
		ID:    "chatcmpl-test",
		Model: "llama-3.3-70b-versatile",
		Choices: []openai.ChatCompletionChoice{{
			Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content},
		}},
	})
	if err != nil {
		panic(err)
	}
	return b
}

// questionArray renders n valid questions whose correct option is always 0.
func questionArray(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf(`{"question":"Pregunta %d","options":["A","B","C","D"],"correct":0}`, i+1)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

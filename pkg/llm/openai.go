package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const tagSystemPrompt = `You are a helpful assistant that extracts relevant tags from content summaries.
Extract 3-5 short, relevant tags that categorize the content.
Return ONLY a comma-separated list of tags, nothing else.
Example: technology, programming, web development, javascript`

const summarySystemPrompt = `You are a helpful assistant that creates concise, informative summaries of web content.
Your summaries should:
- Be 2-3 paragraphs long
- Capture the main points and key takeaways
- Be written in a clear, professional tone`

const maxTags = 5

// OpenAIClient derives tags and summaries from saved content.
type OpenAIClient struct {
	client *openai.Client
	model  openai.ChatModel
}

// NewOpenAIClient creates an LLM client for the given API key and model.
// An empty model falls back to gpt-4o-mini.
func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	chatModel := openai.ChatModel(model)
	if model == "" {
		chatModel = openai.ChatModelGPT4oMini
	}
	return &OpenAIClient{
		client: &client,
		model:  chatModel,
	}
}

// ExtractTags asks the model for 3-5 short tags categorizing the summary.
func (c *OpenAIClient) ExtractTags(ctx context.Context, summary string) ([]string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(tagSystemPrompt),
			openai.UserMessage(fmt.Sprintf("Extract tags from this summary: \n\n%s", summary)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from openai")
	}

	return ParseTagList(resp.Choices[0].Message.Content), nil
}

// Summarize produces a short prose summary of the given content.
func (c *OpenAIClient) Summarize(ctx context.Context, content string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(summarySystemPrompt),
			openai.UserMessage(fmt.Sprintf("Please summarize the following content:\n\n%s", content)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from openai")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// ParseTagList turns a comma-separated model response into at most five
// cleaned, lowercase tags. Tolerant of sloppy output: empty entries are
// dropped, surrounding whitespace trimmed.
func ParseTagList(raw string) []string {
	var tags []string
	for _, part := range strings.Split(raw, ",") {
		tag := strings.ToLower(strings.TrimSpace(part))
		if tag == "" {
			continue
		}
		tags = append(tags, tag)
		if len(tags) == maxTags {
			break
		}
	}
	return tags
}

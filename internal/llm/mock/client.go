package mock

import (
	"context"
	"time"

	"github.com/annagav/essaycoach/internal/llm"
)

// DefaultResponse - корректно отформатированный ответ проверки,
// чтобы тесты сервиса по умолчанию шли по счастливому пути
const DefaultResponse = `Content (4/5): All the points of the task are covered.
Communicative Achievement (4/5): Register is consistent.
Organisation (4/5): Clear structure with linked paragraphs.
Language (4/5): Good range, minor slips.
ERRORS:
[]`

type Client struct {
	Response string
	Error    error
	Delay    time.Duration

	CallCount  int
	LastSystem string
	LastPrompt string
	AllCalls   []LLMCall
}

type LLMCall struct {
	System string
	Prompt string
}

func New() *Client {
	return &Client{Response: DefaultResponse}
}

func (c *Client) WithResponse(response string) *Client {
	c.Response = response
	return c
}

func (c *Client) WithError(err error) *Client {
	c.Error = err
	return c
}

func (c *Client) WithDelay(delay time.Duration) *Client {
	c.Delay = delay
	return c
}

func (c *Client) CompleteWithSystem(ctx context.Context, system, prompt string) (string, error) {
	c.CallCount++
	c.LastSystem = system
	c.LastPrompt = prompt
	c.AllCalls = append(c.AllCalls, LLMCall{System: system, Prompt: prompt})

	if c.Delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.Delay):
		}
	}

	if c.Error != nil {
		return "", c.Error
	}

	return c.Response, nil
}

func (c *Client) Reset() {
	c.CallCount = 0
	c.LastSystem = ""
	c.LastPrompt = ""
	c.AllCalls = nil
}

var _ llm.Client = (*Client)(nil)

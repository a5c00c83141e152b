package openai

import "net/http"

type options struct {
	token       string
	model       string
	baseURL     string
	httpClient  *http.Client
	temperature float32
	maxTokens   int
}

type Option func(*options)

func WithToken(token string) Option {
	return func(o *options) { o.token = token }
}

func WithModel(model string) Option {
	return func(o *options) {
		if model != "" {
			o.model = model
		}
	}
}

// WithBaseURL points the client at an OpenAI-compatible endpoint.
func WithBaseURL(url string) Option {
	return func(o *options) {
		if url != "" {
			o.baseURL = url
		}
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

func WithTemperature(t float32) Option {
	return func(o *options) { o.temperature = t }
}

func WithMaxTokens(n int) Option {
	return func(o *options) { o.maxTokens = n }
}

package adapter

import (
	"context"
	"fmt"
)

// MockAdapter returns deterministic responses for local runs and tests.
type MockAdapter struct {
	responses       map[string]string
	failures        map[string]error
	defaultResponse string
	usage           Usage
	calls           []Request
}

// NewMockAdapter creates a mock adapter with a default response.
func NewMockAdapter() *MockAdapter {
	return &MockAdapter{
		responses:       make(map[string]string),
		failures:        make(map[string]error),
		defaultResponse: "mock response:",
	}
}

// NewMockAdapterWithResponses creates a mock adapter with predefined
// responses keyed by prompt.
func NewMockAdapterWithResponses(responses map[string]string, defaultResponse string) *MockAdapter {
	if defaultResponse == "" {
		defaultResponse = "mock response:"
	}
	return &MockAdapter{
		responses:       responses,
		failures:        make(map[string]error),
		defaultResponse: defaultResponse,
	}
}

// FailModel makes every call for the given model return err.
func (a *MockAdapter) FailModel(model string, err error) {
	a.failures[model] = err
}

// SetUsage sets the usage reported with each response.
func (a *MockAdapter) SetUsage(u Usage) {
	a.usage = u
}

// Calls returns the requests received so far.
func (a *MockAdapter) Calls() []Request {
	return a.calls
}

// Name returns the adapter identifier.
func (a *MockAdapter) Name() string {
	return "mock"
}

// Models returns the list of supported mock models.
func (a *MockAdapter) Models() []string {
	return []string{"mock-1"}
}

// Generate returns a deterministic response for the request.
func (a *MockAdapter) Generate(_ context.Context, req Request) (*Response, error) {
	a.calls = append(a.calls, req)

	model := req.Model
	if model == "" {
		model = "mock-1"
	}
	if err, ok := a.failures[model]; ok {
		return nil, err
	}
	if response, ok := a.responses[req.Prompt]; ok {
		return &Response{Text: response, Model: model, Usage: a.usage}, nil
	}
	content := fmt.Sprintf("%s\n%s", a.defaultResponse, req.Prompt)
	return &Response{Text: content, Model: model, Usage: a.usage}, nil
}

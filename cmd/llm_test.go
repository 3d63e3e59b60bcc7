package cmd

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/abhisek/sqlpad/internal/store"
)

func llmEvent(id int, purpose string, ok bool) store.LLMRequestEvent {
	e := store.LLMRequestEvent{
		ID:        id,
		Timestamp: time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC),
		LLMRequestEventData: store.LLMRequestEventData{
			Provider: "gemini", Model: "gemini-2.5-flash", Purpose: purpose,
			InputTokens: 120, OutputTokens: 40, LatencyMs: 850, Success: ok,
		},
	}
	if !ok {
		e.ErrorMessage = "rate limited"
	}
	return e
}

func TestFilterLLMEvents(t *testing.T) {
	events := []store.LLMRequestEvent{
		llmEvent(1, "problem-gen", true),
		llmEvent(2, "hint", false),
		llmEvent(3, "hint", true),
	}

	assert.Len(t, filterLLMEvents(events, "", false), 3)
	assert.Len(t, filterLLMEvents(events, "hint", false), 2)

	failed := filterLLMEvents(events, "", true)
	if assert.Len(t, failed, 1) {
		assert.Equal(t, 2, failed[0].ID)
	}
	assert.Empty(t, filterLLMEvents(events, "problem-gen", true))
}

func TestWriteLLMEvents(t *testing.T) {
	var out bytes.Buffer
	writeLLMEvents(&out, nil)
	assert.Contains(t, out.String(), "No LLM calls recorded.")

	out.Reset()
	writeLLMEvents(&out, []store.LLMRequestEvent{llmEvent(7, "hint", false)})
	s := out.String()
	assert.Contains(t, s, "hint")
	assert.Contains(t, s, "120/40")
	assert.Contains(t, s, "✗ rate limited")
}

func TestWriteLLMEventIndentsJSON(t *testing.T) {
	e := llmEvent(3, "problem-gen", true)
	e.RequestBody = `{"system":"You are an expert SQL problem generator"}`
	e.ResponseBody = "plain text"

	var out bytes.Buffer
	writeLLMEvent(&out, &e)
	s := out.String()
	assert.Contains(t, s, "#3")
	assert.Contains(t, s, "gemini-2.5-flash (gemini)")
	assert.Contains(t, s, "{\n  \"system\"")
	assert.Contains(t, s, "plain text")
	assert.NotContains(t, s, "error")
}

func TestWriteLLMUsage(t *testing.T) {
	var out bytes.Buffer
	writeLLMUsage(&out, nil, nil)
	assert.Contains(t, out.String(), "No LLM usage recorded yet.")

	out.Reset()
	writeLLMUsage(&out,
		[]store.PurposeUsage{
			{Purpose: "problem-gen", Calls: 2, InputTokens: 1000, OutputTokens: 400, AvgLatencyMs: 900},
			{Purpose: "hint", Calls: 1, InputTokens: 200, OutputTokens: 50, AvgLatencyMs: 400},
		},
		[]store.ModelUsage{{Model: "unknown-model-x", Calls: 3, InputTokens: 1200, OutputTokens: 450}},
	)
	s := out.String()
	assert.Contains(t, s, "total")
	assert.Contains(t, s, "1200")
	assert.Contains(t, s, "total (partial)")
	assert.Contains(t, s, "No pricing for: unknown-model-x")
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

const analysisPrompt = `Analyze the following YouTube video transcript and return your response as a strict JSON object with the following structure:

{
  "summary": "A concise summary of the video content.",
  "keypoints": ["Important point 1", "Important point 2"],
  "topics": ["Topic 1", "Topic 2"],
  "topic_explanations": {
    "Topic 1": "A brief explanation of Topic 1 based on the transcript.",
    "Topic 2": "A brief explanation of Topic 2 based on the transcript."
  },
  "transcript": "The full transcript of the video."
}

For each topic identified, provide a concise explanation of two to three lines based on the information present in the transcript.

Transcript: %s`

const questionPrompt = `Based on the following YouTube video transcript, answer the question asked by the user.
Keep your answer concise and directly related to the content of the transcript.

Transcript: %s

Question: %s

Answer:`

// answerFallback is returned for any failure in the question path; that
// endpoint never surfaces an error to the client.
const answerFallback = "Sorry, I could not generate an answer at this time."

var errNoJSON = errors.New("model response contains no JSON object")

// extractJSON recovers a JSON object from free-form model output. It takes
// the substring from the first '{' to the last '}' and attempts a strict
// parse; on failure it repeatedly drops the final byte and retries, so a
// valid object followed by trailing junk still parses. Pure function, no
// schema enforcement: the result is whatever the recovered JSON holds.
func extractJSON(raw string) (map[string]any, error) {
	raw = strings.TrimSpace(raw)

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || start > end {
		return nil, errNoJSON
	}

	candidate := raw[start : end+1]
	var lastErr error
	for len(candidate) > 0 {
		var result map[string]any
		err := json.Unmarshal([]byte(candidate), &result)
		if err == nil {
			return result, nil
		}
		lastErr = err
		candidate = candidate[:len(candidate)-1]
	}

	return nil, fmt.Errorf("no valid JSON prefix in model response: %w", lastErr)
}

// analyzeTranscript asks the model for a structured analysis of the
// transcript. It always returns a usable map: on any LLM or parse failure
// the map degrades to a single "error" entry instead.
func analyzeTranscript(ctx context.Context, llm completer, transcript string) map[string]any {
	ctx, cancel := context.WithTimeout(ctx, llmTimeout)
	defer cancel()

	raw, err := llm.Complete(ctx, fmt.Sprintf(analysisPrompt, transcript))
	if err != nil {
		logError("analysis completion failed", slog.String("error", err.Error()))
		return map[string]any{"error": err.Error()}
	}

	raw = strings.TrimSpace(raw)
	logDebug("raw model response", slog.Int("length", len(raw)), slog.String("response", raw))

	analysis, err := extractJSON(raw)
	if err != nil {
		logError("failed to recover JSON from model response", slog.String("error", err.Error()))
		return map[string]any{"error": fmt.Sprintf("The model's response was not valid JSON: %v", err)}
	}

	return analysis
}

// answerQuestion asks the model a free-form question grounded in the
// transcript. Failures are logged and replaced with a fixed fallback answer.
func answerQuestion(ctx context.Context, llm completer, question, transcript string) string {
	ctx, cancel := context.WithTimeout(ctx, llmTimeout)
	defer cancel()

	raw, err := llm.Complete(ctx, fmt.Sprintf(questionPrompt, transcript, question))
	if err != nil {
		logError("answer completion failed", slog.String("error", err.Error()))
		return answerFallback
	}

	return strings.TrimSpace(raw)
}

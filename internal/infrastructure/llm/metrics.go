package llm

import (
	"time"

	"site-gen-ai-api/pkg/metrics"
)

func observeCall(provider, modelName string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.LLMCallTotal.WithLabelValues(provider, modelName, status).Inc()
	metrics.LLMCallDuration.WithLabelValues(provider, modelName).Observe(time.Since(start).Seconds())
}

func observeTokens(provider, modelName string, prompt, completion int64) {
	if prompt > 0 {
		metrics.LLMTokensUsed.WithLabelValues(provider, modelName, "prompt").Add(float64(prompt))
	}
	if completion > 0 {
		metrics.LLMTokensUsed.WithLabelValues(provider, modelName, "completion").Add(float64(completion))
	}
}

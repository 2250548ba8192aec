package ai

import (
	"encoding/json"
	"strings"
)

// parseReply extracts a Reply from model output. Models are asked for a JSON
// object but plain prose is accepted as the reply text.
func parseReply(content string) (Reply, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return Reply{}, ErrEmptyReply
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start != -1 && end > start {
		var payload Reply
		if err := json.Unmarshal([]byte(trimmed[start:end+1]), &payload); err == nil {
			payload.Text = strings.TrimSpace(payload.Text)
			payload.Emotion = strings.ToLower(strings.TrimSpace(payload.Emotion))
			if payload.Text != "" {
				return payload, nil
			}
		}
	}

	return Reply{Text: trimmed}, nil
}

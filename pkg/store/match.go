package store

import (
	"strings"

	"github.com/aretw0/assistant/pkg/core"
)

// MatchTopics returns, in topic order, the ids of topics with at least one
// keyword occurring in content. Matching ignores case; empty keywords never match.
func MatchTopics(content string, topics []core.Topic) []string {
	text := strings.ToLower(content)
	var ids []string
	for _, t := range topics {
		for _, kw := range t.Keywords {
			kw = strings.TrimSpace(strings.ToLower(kw))
			if kw != "" && strings.Contains(text, kw) {
				ids = append(ids, t.ID)
				break
			}
		}
	}
	return ids
}

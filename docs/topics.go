// Package docs holds the sg user manual, one markdown file per topic.
package docs

import (
	"embed"
	"fmt"
	"io/fs"
	"slices"
	"strings"
)

//go:embed *.md
var docs embed.FS

// Index is the topic listing every other topic.
const Index = "readme"

// GetTopic returns the markdown of a topic.
func GetTopic(topic string) (string, error) {
	content, err := docs.ReadFile(topic + ".md")
	if err != nil {
		return "", fmt.Errorf("topic %q not found, see %q for the list", topic, Index)
	}
	return string(content), nil
}

// GetTopics returns topics concatenated, "*" stands for every topic.
func GetTopics(topics ...string) (string, error) {
	var b strings.Builder
	for _, topic := range topics {
		names := []string{topic}
		if topic == "*" {
			names = Topics()
		}
		for _, name := range names {
			content, err := GetTopic(name)
			if err != nil {
				return "", err
			}
			b.WriteString(content)
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

// Topics returns the sorted names of every topic but the index.
func Topics() []string {
	files, _ := fs.Glob(docs, "*.md")
	var topics []string
	for _, f := range files {
		if name := strings.TrimSuffix(f, ".md"); name != Index {
			topics = append(topics, name)
		}
	}
	slices.Sort(topics)
	return topics
}

package docs

import (
	"bufio"
	"os"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// readmeTopics extracts the topic names listed in readme.md.
func readmeTopics(t *testing.T) []string {
	t.Helper()

	file, err := os.Open("readme.md")
	if err != nil {
		t.Fatalf("failed to open readme.md: %v", err)
	}
	defer file.Close()

	var topics []string
	scanner := bufio.NewScanner(file)
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)
	for scanner.Scan() {
		if matches := topicRegex.FindStringSubmatch(scanner.Text()); len(matches) > 1 {
			topics = append(topics, strings.TrimSpace(matches[1]))
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("error scanning readme.md: %v", err)
	}
	return topics
}

func TestTopics(t *testing.T) {
	// The readme is the table of contents: every topic it lists must load, and
	// every topic file must be listed.
	listed := readmeTopics(t)

	for _, topic := range listed {
		t.Run("load_"+topic, func(t *testing.T) {
			if _, err := GetTopic(topic); err != nil {
				t.Errorf("failed to get topic %q: %v", topic, err)
			}
		})
	}

	all, err := GetAllTopics()
	if err != nil {
		t.Fatalf("GetAllTopics() error: %v", err)
	}
	for _, topic := range all {
		if !slices.Contains(listed, topic) {
			t.Errorf("topic %q is not listed in readme.md", topic)
		}
	}
}

func TestTopicsAreValidMarkdown(t *testing.T) {
	// Every topic must parse as markdown and open with a level-1 heading, so
	// the terminal renderer has something to work with.
	all, err := GetAllTopics()
	if err != nil {
		t.Fatal(err)
	}
	all = append(all, "readme")

	for _, topic := range all {
		t.Run(topic, func(t *testing.T) {
			content, err := GetTopic(topic)
			if err != nil {
				t.Fatal(err)
			}

			source := []byte(content)
			root := goldmark.DefaultParser().Parse(text.NewReader(source))

			hasTitle := false
			ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
				if !entering {
					return ast.WalkContinue, nil
				}
				if h, ok := n.(*ast.Heading); ok && h.Level == 1 {
					hasTitle = true
					return ast.WalkStop, nil
				}
				return ast.WalkContinue, nil
			})
			if !hasTitle {
				t.Errorf("topic %q has no level-1 heading", topic)
			}
		})
	}
}

func TestGetTopics_Star(t *testing.T) {
	doc, err := GetTopics("*")
	if err != nil {
		t.Fatalf("GetTopics(*) error: %v", err)
	}
	for _, want := range []string{"# Time-weighted returns", "# Flow alignment", "# Value at risk", "# Beta"} {
		if !strings.Contains(doc, want) {
			t.Errorf("GetTopics(*) missing %q", want)
		}
	}
}

package docs_test

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/etnz/cryptotax"
	"github.com/etnz/cryptotax/cmd"
	"github.com/etnz/cryptotax/docs"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

func TestTopics(t *testing.T) {
	// This test ensures that the documentation index is in sync with the files.
	// 1. Every topic listed in readme.md can be loaded.
	// 2. Every .md file (excluding readme.md itself) is listed in readme.md.
	file, err := os.Open("readme.md")
	if err != nil {
		t.Fatalf("failed to open readme.md: %v", err)
	}
	defer file.Close()

	var topicsInReadme []string
	scanner := bufio.NewScanner(file)
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)
	for scanner.Scan() {
		if matches := topicRegex.FindStringSubmatch(scanner.Text()); len(matches) > 1 {
			topicsInReadme = append(topicsInReadme, strings.TrimSpace(matches[1]))
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("error scanning readme.md: %v", err)
	}

	for _, topic := range topicsInReadme {
		if _, err := docs.GetTopic(topic); err != nil {
			t.Errorf("failed to get topic %q: %v", topic, err)
		}
	}

	all, err := docs.GetAllTopics()
	if err != nil {
		t.Fatalf("GetAllTopics() unexpected error: %v", err)
	}
	for _, topic := range all {
		if !slices.Contains(topicsInReadme, topic) {
			t.Errorf("topic %q is not listed in readme.md", topic)
		}
	}

	if _, err := docs.GetTopic("unknown"); err == nil {
		t.Error("GetTopic(unknown) expected an error")
	}
	everything, err := docs.GetTopics("*")
	if err != nil || !strings.Contains(everything, "# Selections") {
		t.Errorf("GetTopics(*) = %v, want every topic", err)
	}
}

// Block represents a fenced code block in a markdown file.
type Block struct {
	Info    string
	Content string
	File    string
	Line    int
}

// parseMarkdown returns the fenced code blocks of a markdown file.
func parseMarkdown(t *testing.T, file string) []Block {
	t.Helper()
	content, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("failed to read %s: %v", file, err)
	}
	root := goldmark.DefaultParser().Parse(text.NewReader(content))

	var blocks []Block
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !ok || fcb.Info == nil {
			return ast.WalkContinue, nil
		}
		var blockContent strings.Builder
		for i := 0; i < fcb.Lines().Len(); i++ {
			line := fcb.Lines().At(i)
			blockContent.Write(line.Value(content))
		}
		blocks = append(blocks, Block{
			Info:    string(fcb.Info.Segment.Value(content)),
			Content: blockContent.String(),
			File:    file,
			Line:    bytes.Count(content[:fcb.Info.Segment.Start], []byte{'\n'}) + 1,
		})
		return ast.WalkContinue, nil
	})
	return blocks
}

// TestExamples checks that the examples of the documentation are accepted as documented.
func TestExamples(t *testing.T) {
	files, err := filepath.Glob("*.md")
	if err != nil {
		t.Fatal(err)
	}
	var checked int
	for _, file := range files {
		for _, b := range parseMarkdown(t, file) {
			checked++
			switch b.Info {
			case "jsonl transactions":
				txs, err := cryptotax.DecodeTransactions(strings.NewReader(b.Content))
				if err != nil {
					t.Errorf("%s:%d: %v", b.File, b.Line, err)
					continue
				}
				l, err := cryptotax.Run(txs, cryptotax.DefaultConfig())
				if err != nil {
					t.Errorf("%s:%d: %v", b.File, b.Line, err)
					continue
				}
				if ws := l.Warnings(); len(ws) != 0 {
					t.Errorf("%s:%d: example has warnings %v", b.File, b.Line, ws)
				}
			case "jsonl prices":
				if _, err := cryptotax.DecodePrices(strings.NewReader(b.Content), "USD"); err != nil {
					t.Errorf("%s:%d: %v", b.File, b.Line, err)
				}
			case "jsonl selections":
				if _, err := cryptotax.DecodeSelections(strings.NewReader(b.Content)); err != nil {
					t.Errorf("%s:%d: %v", b.File, b.Line, err)
				}
			case "yaml":
				path := filepath.Join(t.TempDir(), "cryptotax.yaml")
				if err := os.WriteFile(path, []byte(b.Content), 0o644); err != nil {
					t.Fatal(err)
				}
				s, err := cmd.LoadSettings(path, "")
				if err != nil {
					t.Errorf("%s:%d: %v", b.File, b.Line, err)
					continue
				}
				if _, err := s.EngineConfig("", nil); err != nil {
					t.Errorf("%s:%d: %v", b.File, b.Line, err)
				}
			default:
				t.Errorf("%s:%d: unknown code block %q", b.File, b.Line, b.Info)
			}
		}
	}
	if checked == 0 {
		t.Error("no example found in the documentation")
	}
}

package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	fence = "---\n"

	BlockStart = "<!-- smarttrack:report:start -->"
	BlockEnd   = "<!-- smarttrack:report:end -->"
)

// Split separates a leading YAML frontmatter block from the body. Content
// without frontmatter yields an empty map and the content unchanged.
func Split(content string) (map[string]any, string, error) {
	if !strings.HasPrefix(content, fence) {
		return map[string]any{}, content, nil
	}
	rest := strings.TrimPrefix(content, fence)
	idx := strings.Index(rest, "\n"+fence)
	if idx < 0 {
		return nil, "", fmt.Errorf("invalid frontmatter: missing closing fence")
	}
	meta := map[string]any{}
	if err := yaml.Unmarshal([]byte(rest[:idx]), &meta); err != nil {
		return nil, "", fmt.Errorf("unmarshal frontmatter: %w", err)
	}
	return meta, rest[idx+len("\n"+fence):], nil
}

func Render(meta map[string]any, body string) (string, error) {
	raw, err := yaml.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("marshal frontmatter: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString(fence)
	buf.Write(raw)
	buf.WriteString(fence)
	if !strings.HasPrefix(body, "\n") {
		buf.WriteString("\n")
	}
	buf.WriteString(body)
	return buf.String(), nil
}

// Merge writes generated between the report markers of existing, keeping any
// text the user wrote around them, and overlays meta onto the frontmatter.
func Merge(existing string, meta map[string]any, generated string) (string, error) {
	current, body, err := Split(existing)
	if err != nil {
		return "", err
	}
	for k, v := range meta {
		current[k] = v
	}
	return Render(current, replaceBlock(body, generated))
}

func replaceBlock(body, generated string) string {
	block := BlockStart + "\n" + strings.TrimRight(generated, "\n") + "\n" + BlockEnd
	start := strings.Index(body, BlockStart)
	end := strings.Index(body, BlockEnd)
	if start >= 0 && end > start {
		return body[:start] + block + body[end+len(BlockEnd):]
	}
	switch {
	case strings.TrimSpace(body) == "":
		return block + "\n"
	case strings.HasSuffix(body, "\n"):
		return body + "\n" + block + "\n"
	default:
		return body + "\n\n" + block + "\n"
	}
}

package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typeText(p Palette, text string) Palette {
	for _, r := range text {
		p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return p
}

func TestPaletteSubmitsTrimmedInput(t *testing.T) {
	t.Parallel()
	p := NewPalette()
	p.Open()
	p = typeText(p, "  refresh ")

	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, PaletteSubmitMsg{Input: "refresh"}, cmd())
	assert.False(t, p.Visible())
	assert.Equal(t, []string{"refresh"}, p.History())
}

func TestPaletteTabCompletesCommand(t *testing.T) {
	t.Parallel()
	p := NewPalette()
	p.Open()
	p = typeText(p, "analysis:e")

	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "analysis:export ", p.input.Value())
}

func TestPaletteHistoryRecall(t *testing.T) {
	t.Parallel()
	p := NewPalette()
	for _, c := range []string{"gpa:sample", "refresh", "refresh"} {
		p.Open()
		p = typeText(p, c)
		p, _ = p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	}
	assert.Equal(t, []string{"gpa:sample", "refresh"}, p.History())

	p.Open()
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "refresh", p.input.Value())
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "gpa:sample", p.input.Value())
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyDown})
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "", p.input.Value())
}

func TestPaletteEscCancels(t *testing.T) {
	t.Parallel()
	p := NewPalette()
	p.Open()
	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, p.Visible())
	assert.Equal(t, PaletteCancelMsg{}, cmd())
}

func TestMatchingHints(t *testing.T) {
	t.Parallel()
	assert.Len(t, matchingHints(""), maxHints)
	assert.Equal(t, []string{"gpa:calc [name:credits:grade ...]", "gpa:file <courses.yaml>", "gpa:sample"}, matchingHints("gpa:"))
	assert.Empty(t, matchingHints("plugin:"))
}

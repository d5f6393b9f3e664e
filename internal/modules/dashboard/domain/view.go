package domain

import "strings"

type CounterView struct {
	Label string
	Value float64
	Text  string
	Unit  string
	Color string
}

type Slice struct {
	Label string
	Value float64
	Color string
}

type DonutSpec struct {
	Title      string
	Slices     []Slice
	CenterText string
	CenterSub  string
}

// Total is the sum of all slice values.
func (d DonutSpec) Total() float64 {
	var sum float64
	for _, s := range d.Slices {
		sum += s.Value
	}
	return sum
}

type Series struct {
	Label  string
	Color  string
	Values []float64
}

// BarSeriesSpec is a stacked bar chart. Every series has one value per axis
// entry, aligned by index.
type BarSeriesSpec struct {
	Title   string
	Axis    []string
	Series  []Series
	YTitle  string
	Stacked bool
}

type TableView struct {
	Columns []string
	Rows    [][]string
}

type BlockKind int

const (
	BlockHeading BlockKind = iota
	BlockText
	BlockList
	BlockChips
	BlockDivider
	BlockNote
)

type Block struct {
	Kind  BlockKind
	Level int
	Text  string
	Items []string
}

// Document is structured rich text: the markup-free equivalent of an HTML
// fragment.
type Document struct {
	Title  string
	Blocks []Block
}

func (d *Document) Heading(level int, text string) {
	d.Blocks = append(d.Blocks, Block{Kind: BlockHeading, Level: level, Text: text})
}

func (d *Document) Text(text string) {
	d.Blocks = append(d.Blocks, Block{Kind: BlockText, Text: text})
}

func (d *Document) List(items ...string) {
	d.Blocks = append(d.Blocks, Block{Kind: BlockList, Items: items})
}

func (d *Document) Chips(items ...string) {
	d.Blocks = append(d.Blocks, Block{Kind: BlockChips, Items: items})
}

func (d *Document) Divider() {
	d.Blocks = append(d.Blocks, Block{Kind: BlockDivider})
}

func (d *Document) Note(text string) {
	d.Blocks = append(d.Blocks, Block{Kind: BlockNote, Text: text})
}

func (d Document) Markdown() string {
	var sb strings.Builder
	for i, b := range d.Blocks {
		if i > 0 {
			sb.WriteString("\n")
		}
		switch b.Kind {
		case BlockHeading:
			level := b.Level
			if level < 1 {
				level = 1
			}
			sb.WriteString(strings.Repeat("#", level) + " " + b.Text + "\n")
		case BlockText:
			sb.WriteString(b.Text + "\n")
		case BlockList:
			for _, item := range b.Items {
				sb.WriteString("- " + item + "\n")
			}
		case BlockChips:
			chips := make([]string, len(b.Items))
			for j, item := range b.Items {
				chips[j] = "`" + item + "`"
			}
			sb.WriteString(strings.Join(chips, " ") + "\n")
		case BlockDivider:
			sb.WriteString("---\n")
		case BlockNote:
			sb.WriteString("_" + b.Text + "_\n")
		}
	}
	return sb.String()
}

func (d Document) PlainText() string {
	var sb strings.Builder
	for _, b := range d.Blocks {
		switch b.Kind {
		case BlockHeading:
			sb.WriteString(b.Text + "\n")
		case BlockText, BlockNote:
			sb.WriteString(b.Text + "\n")
		case BlockList:
			for _, item := range b.Items {
				sb.WriteString("  • " + item + "\n")
			}
		case BlockChips:
			sb.WriteString("  " + strings.Join(b.Items, "  |  ") + "\n")
		case BlockDivider:
			sb.WriteString(strings.Repeat("─", 40) + "\n")
		}
	}
	return sb.String()
}

package wizard

// BlockKind tags each Block variant.
type BlockKind string

const (
	KindQuestion          BlockKind = "question"
	KindRanking           BlockKind = "ranking"
	KindInfo              BlockKind = "info"
	KindSelectionGrid     BlockKind = "selectionGrid"
	KindPackageComparison BlockKind = "packageComparison"
	KindSummary           BlockKind = "summary"
	KindInput             BlockKind = "input"
	KindChecklist         BlockKind = "checklist"
)

// Block is one unit of content on a screen. The set of implementations is
// closed; renderers switch over the concrete types.
type Block interface {
	Kind() BlockKind
	block()
}

// Answerable is implemented by blocks that write an answer.
type Answerable interface {
	Block
	AnswerID() string
	IsRequired() bool
}

// Option is a selectable choice.
type Option struct {
	Value       string
	Label       string
	Description string
}

// FreeformKind selects free-text entry on a Question.
type FreeformKind int

const (
	FreeformNone FreeformKind = iota
	FreeformText
	FreeformTextarea
)

// Question is a single- or multi-select choice, or a free-text prompt when
// Freeform is set.
type Question struct {
	ID       string
	Prompt   string
	Help     string
	Options  []Option
	Multiple bool
	Freeform FreeformKind
	Required bool
}

// Ranking asks the user to pick up to Slots items in order.
type Ranking struct {
	ID       string
	Prompt   string
	Items    []Option
	Slots    int
	Required bool
}

// Capacity is the number of ranks that make the ranking complete.
func (r Ranking) Capacity() int {
	if r.Slots <= 0 || r.Slots > len(r.Items) {
		return len(r.Items)
	}
	return r.Slots
}

// Tone colours an Info block.
type Tone int

const (
	ToneNeutral Tone = iota
	ToneTip
	ToneWarning
)

// Info is read-only markdown.
type Info struct {
	Title string
	Body  string
	Tone  Tone
}

// Tile is one cell of a SelectionGrid.
type Tile struct {
	Value string
	Label string
	Icon  string
}

// SelectionGrid is a grid of icon tiles.
type SelectionGrid struct {
	ID       string
	Prompt   string
	Tiles    []Tile
	Columns  int
	Multiple bool
	Required bool
}

// Cols clamps Columns to 2..4.
func (g SelectionGrid) Cols() int {
	switch {
	case g.Columns < 2:
		return 2
	case g.Columns > 4:
		return 4
	}
	return g.Columns
}

// PackageCard is one offering in a PackageComparison.
type PackageCard struct {
	Value       string
	Name        string
	Price       string
	Features    []string
	Recommended bool
}

// PackageComparison shows packages side by side. Picking one writes ID.
type PackageComparison struct {
	ID       string
	Packages []PackageCard
}

// SummaryRow is one line of a Summary.
type SummaryRow struct {
	Label string
	Value string
}

// Summary is a read-only review table.
type Summary struct {
	Title string
	Rows  []SummaryRow
}

// InputType is the kind of value an Input accepts.
type InputType string

const (
	InputText     InputType = "text"
	InputTextarea InputType = "textarea"
	InputNumber   InputType = "number"
	InputDate     InputType = "date"
	InputTime     InputType = "time"
)

// Input is a single free-text field.
type Input struct {
	ID          string
	Label       string
	Placeholder string
	InputType   InputType
	Required    bool
}

// Checklist is a set of independent toggles, capped at MaxAllowed when > 0.
type Checklist struct {
	ID         string
	Prompt     string
	Items      []Option
	MaxAllowed int
	Required   bool
}

func (Question) Kind() BlockKind          { return KindQuestion }
func (Ranking) Kind() BlockKind           { return KindRanking }
func (Info) Kind() BlockKind              { return KindInfo }
func (SelectionGrid) Kind() BlockKind     { return KindSelectionGrid }
func (PackageComparison) Kind() BlockKind { return KindPackageComparison }
func (Summary) Kind() BlockKind           { return KindSummary }
func (Input) Kind() BlockKind             { return KindInput }
func (Checklist) Kind() BlockKind         { return KindChecklist }

func (Question) block()          {}
func (Ranking) block()           {}
func (Info) block()              {}
func (SelectionGrid) block()     {}
func (PackageComparison) block() {}
func (Summary) block()           {}
func (Input) block()             {}
func (Checklist) block()         {}

func (b Question) AnswerID() string          { return b.ID }
func (b Ranking) AnswerID() string           { return b.ID }
func (b SelectionGrid) AnswerID() string     { return b.ID }
func (b PackageComparison) AnswerID() string { return b.ID }
func (b Input) AnswerID() string             { return b.ID }
func (b Checklist) AnswerID() string         { return b.ID }

func (b Question) IsRequired() bool        { return b.Required }
func (b Ranking) IsRequired() bool         { return b.Required }
func (b SelectionGrid) IsRequired() bool   { return b.Required }
func (PackageComparison) IsRequired() bool { return false }
func (b Input) IsRequired() bool           { return b.Required }
func (b Checklist) IsRequired() bool       { return b.Required }

// complete reports whether answers satisfy b's required constraint.
func complete(b Answerable, answers Answers) bool {
	if !b.IsRequired() {
		return true
	}
	if r, ok := b.(Ranking); ok {
		return len(answers.Strings(r.ID)) >= r.Capacity()
	}
	return answers.Has(b.AnswerID())
}

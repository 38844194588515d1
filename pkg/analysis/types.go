// Package analysis contains the corpus domain model and the phased document
// analysis pipeline: outline extraction, position and argument detection,
// trend detection, and question/answer generation for uploaded works.
package analysis

import "time"

// Phase is a named stage of document analysis. Phases are reported to
// clients over the progress stream in the order declared here.
type Phase string

const (
	PhaseOutline   Phase = "outline"
	PhasePositions Phase = "positions"
	PhaseArguments Phase = "arguments"
	PhaseTrends    Phase = "trends"
	PhaseQAs       Phase = "qas"
	PhaseSaving    Phase = "saving"
	PhaseComplete  Phase = "complete"
)

// Valid reports whether p is one of the known phases.
func (p Phase) Valid() bool {
	switch p {
	case PhaseOutline, PhasePositions, PhaseArguments, PhaseTrends,
		PhaseQAs, PhaseSaving, PhaseComplete:
		return true
	}
	return false
}

// ProcessingStats summarizes a finished analysis. Field names follow the
// wire contract, so they marshal in camelCase.
type ProcessingStats struct {
	WordCount int `json:"wordCount"`
	Positions int `json:"positions"`
	Arguments int `json:"arguments"`
	Trends    int `json:"trends"`
	QAs       int `json:"qas"`
	Sections  int `json:"sections"`
}

// Document is an uploaded or ingested work belonging to a thinker's corpus.
type Document struct {
	ID         string    `json:"id"`
	Thinker    string    `json:"thinker"`
	Title      string    `json:"title"`
	SourceFile string    `json:"source_file,omitempty"`
	Content    string    `json:"content,omitempty"`
	WordCount  int       `json:"word_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// Section is one entry of a document's extracted outline.
type Section struct {
	Title string `json:"title"`
	Level int    `json:"level"`
	Line  int    `json:"line"`
}

// Position is a philosophical stance held by a thinker on a topic.
type Position struct {
	Thinker string `json:"thinker"`
	Text    string `json:"text"`
	Topic   string `json:"topic,omitempty"`
}

// Quote is a verbatim citation attributed to a thinker.
type Quote struct {
	Thinker string `json:"thinker"`
	Text    string `json:"text"`
	Topic   string `json:"topic,omitempty"`
}

// Argument is a premises-conclusion structure detected in a document.
type Argument struct {
	Thinker    string   `json:"thinker"`
	Type       string   `json:"type"`
	Premises   []string `json:"premises"`
	Conclusion string   `json:"conclusion"`
	Topic      string   `json:"topic,omitempty"`
	Importance int      `json:"importance"`
}

// Chunk is a fixed-size overlapping slice of a document's text, used for
// retrieval over works that carry no explicit structure.
type Chunk struct {
	Thinker    string `json:"thinker"`
	SourceFile string `json:"source_file"`
	Text       string `json:"text"`
	Index      int    `json:"index"`
}

// QA is a generated question/answer pair over a thinker's material.
type QA struct {
	Thinker  string `json:"thinker"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Topic    string `json:"topic,omitempty"`
}

// Trend is a recurring theme detected across a document.
type Trend struct {
	Thinker  string `json:"thinker"`
	Theme    string `json:"theme"`
	Mentions int    `json:"mentions"`
}

// Result is the complete output of analyzing one document.
type Result struct {
	Document  *Document       `json:"document"`
	Sections  []Section       `json:"sections"`
	Positions []Position      `json:"positions"`
	Quotes    []Quote         `json:"quotes"`
	Arguments []Argument      `json:"arguments"`
	Trends    []Trend         `json:"trends"`
	QAs       []QA            `json:"qas"`
	Stats     ProcessingStats `json:"stats"`
}

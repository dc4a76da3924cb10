// Package problem holds the immutable problem records a debate runs over.
package problem

// Problem is a single task to debate. Loaded once before a session
// starts and never mutated afterwards.
type Problem struct {
	ID          string `json:"id"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory,omitempty"`
	Statement   string `json:"problem_statement"`
	Answer      string `json:"answer"`
	Difficulty  string `json:"difficulty,omitempty"`
}

package problem

import (
	"encoding/json"
	"fmt"
	"os"
)

// rawProblem matches the dataset file layout, which nests the ground
// truth under its own key.
type rawProblem struct {
	ID          string `json:"id"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Statement   string `json:"problem_statement"`
	Difficulty  string `json:"difficulty"`
	GroundTruth struct {
		Answer string `json:"answer"`
	} `json:"ground_truth"`
}

// Load reads an ordered problem list from a JSON dataset file and
// returns the [skip, skip+take) window. A take of zero or less means
// the rest of the list.
func Load(path string, skip, take int) ([]Problem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read problem dataset: %w", err)
	}

	var raw []rawProblem
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse problem dataset %s: %w", path, err)
	}

	problems := make([]Problem, 0, len(raw))
	for i, r := range raw {
		if r.ID == "" {
			return nil, fmt.Errorf("problem at index %d has no id", i)
		}
		problems = append(problems, Problem{
			ID:          r.ID,
			Category:    r.Category,
			Subcategory: r.Subcategory,
			Statement:   r.Statement,
			Answer:      r.GroundTruth.Answer,
			Difficulty:  r.Difficulty,
		})
	}

	return window(problems, skip, take), nil
}

func window(problems []Problem, skip, take int) []Problem {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(problems) {
		return nil
	}
	problems = problems[skip:]
	if take > 0 && take < len(problems) {
		problems = problems[:take]
	}
	return problems
}

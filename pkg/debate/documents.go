package debate

// Wire documents for the store, built by explicit constructors so a
// missing or renamed field is a compile error rather than a surprise
// at write time.

// RunDocument records a session in the Runs collection. It is written
// at session start and patched with the final roles once the election
// settles.
type RunDocument struct {
	RunID     string `json:"run_id"`
	ProblemID string `json:"problem_id"`
	StartedAt string `json:"started_at"`
	Status    string `json:"status"`
}

// RoleAssessmentDocument is one row of the RoleAssessments collection.
type RoleAssessmentDocument struct {
	LLMID        string      `json:"llm_id"`
	AssessmentID string      `json:"assessment_id"`
	ProblemID    string      `json:"problem_id"`
	RunID        string      `json:"run_id"`
	RoleScores   []RoleScore `json:"role_scores"`
	Reasoning    string      `json:"reasoning"`
}

func newRoleAssessmentDocument(a *RoleAssessment) RoleAssessmentDocument {
	return RoleAssessmentDocument{
		LLMID:        a.LLMID,
		AssessmentID: a.AssessmentID,
		ProblemID:    a.ProblemID,
		RunID:        a.RunID,
		RoleScores:   a.RoleScores,
		Reasoning:    a.Reasoning,
	}
}

// SolutionDocument is one row of the Solutions collection.
type SolutionDocument struct {
	RunID          string   `json:"run_id"`
	SolutionID     string   `json:"solution_id"`
	ProblemID      string   `json:"problem_id"`
	SolverLLMID    string   `json:"solver_llm_model_id"`
	TimeElapsedSec float64  `json:"time_elapsed_sec"`
	Answer         string   `json:"answer"`
	Reasoning      []string `json:"reasoning"`
}

func newSolutionDocument(s *ProblemSolution) SolutionDocument {
	return SolutionDocument{
		RunID:          s.RunID,
		SolutionID:     s.SolutionID,
		ProblemID:      s.ProblemID,
		SolverLLMID:    s.SolverLLMID,
		TimeElapsedSec: s.TimeElapsedSec,
		Answer:         s.Answer,
		Reasoning:      s.Reasoning,
	}
}

// SolutionReviewDocument is one row of the SolutionReviews collection.
type SolutionReviewDocument struct {
	ReviewID          string            `json:"review_id"`
	RunID             string            `json:"run_id"`
	ProblemID         string            `json:"problem_id"`
	ReviewerID        string            `json:"reviewer_id"`
	RevieweeID        string            `json:"reviewee_id"`
	Evaluation        ReviewEvaluation  `json:"evaluation"`
	OverallAssessment OverallAssessment `json:"overall_assessment"`
	ConfidenceScore   float64           `json:"confidence_score"`
	TimeElapsedSec    float64           `json:"time_elapsed_sec"`
}

func newSolutionReviewDocument(r *ProblemSolutionReview) SolutionReviewDocument {
	return SolutionReviewDocument{
		ReviewID:          r.ReviewID,
		RunID:             r.RunID,
		ProblemID:         r.ProblemID,
		ReviewerID:        r.ReviewerID,
		RevieweeID:        r.RevieweeID,
		Evaluation:        r.Evaluation,
		OverallAssessment: r.OverallAssessment,
		ConfidenceScore:   r.ConfidenceScore,
		TimeElapsedSec:    r.TimeElapsedSec,
	}
}

// RefinedSolutionDocument is one row of the RefinedSolutions collection.
type RefinedSolutionDocument struct {
	RunID             string   `json:"run_id"`
	ProblemID         string   `json:"problem_id"`
	SolverLLMID       string   `json:"solver_llm_model_id"`
	ParentSolutionID  string   `json:"parent_solution_id"`
	RefinedSolutionID string   `json:"refined_solution_id"`
	ReviewIDs         []string `json:"review_ids"`
	TimeElapsedSec    float64  `json:"time_elapsed_sec"`
	RefinedAnswer     string   `json:"refined_answer"`
}

func newRefinedSolutionDocument(r *RefinedProblemSolution) RefinedSolutionDocument {
	return RefinedSolutionDocument{
		RunID:             r.RunID,
		ProblemID:         r.ProblemID,
		SolverLLMID:       r.SolverLLMID,
		ParentSolutionID:  r.ParentSolutionID,
		RefinedSolutionID: r.RefinedSolutionID,
		ReviewIDs:         r.ReviewIDs,
		TimeElapsedSec:    r.TimeElapsedSec,
		RefinedAnswer:     r.RefinedAnswer,
	}
}

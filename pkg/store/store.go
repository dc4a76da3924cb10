// Package store persists debate documents into named collections.
package store

import (
	"context"
	"errors"
)

// Collection names for the documents a run produces.
const (
	Runs             = "Runs"
	RoleAssessments  = "RoleAssessments"
	Solutions        = "Solutions"
	SolutionReviews  = "SolutionReviews"
	RefinedSolutions = "RefinedSolutions"
	FinalJudgements  = "FinalJudgements"
	Problems         = "Problems"
	Metrics          = "Metrics"
)

var (
	ErrNotFound        = errors.New("document not found")
	ErrEmptyCollection = errors.New("collection name cannot be empty")
)

// Store writes documents to named collections.
//
// Write upserts when documentID is given and is idempotent on retry;
// an empty documentID gets an auto-generated one. Update patches
// individual fields of an existing document and fails with ErrNotFound
// for an unknown id.
type Store interface {
	Write(ctx context.Context, collection string, doc any, documentID string) error
	Update(ctx context.Context, collection, documentID string, fields map[string]any) error
	Close() error
}

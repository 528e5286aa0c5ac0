// Package evaluation provides domain logic for post-service ratings.
package evaluation

import (
	"time"

	"github.com/google/uuid"
)

// Note bounds.
const (
	MinNote = 1
	MaxNote = 5
)

// Evaluation is a 1..5 rating with an optional comment left by a user for a
// provider the user does not own.
type Evaluation struct {
	id         uuid.UUID
	userID     uuid.UUID
	providerID uuid.UUID
	note       int
	comment    string
	createdAt  time.Time
}

// NewEvaluation creates a new Evaluation entity with validation.
func NewEvaluation(userID, providerID uuid.UUID, note int, comment string) (*Evaluation, error) {
	if note < MinNote || note > MaxNote {
		return nil, ErrInvalidNote
	}

	return &Evaluation{
		id:         uuid.New(),
		userID:     userID,
		providerID: providerID,
		note:       note,
		comment:    comment,
		createdAt:  time.Now().UTC(),
	}, nil
}

// ReconstructEvaluation reconstructs an Evaluation from persistence data.
func ReconstructEvaluation(id, userID, providerID uuid.UUID, note int, comment string, createdAt time.Time) *Evaluation {
	return &Evaluation{
		id:         id,
		userID:     userID,
		providerID: providerID,
		note:       note,
		comment:    comment,
		createdAt:  createdAt,
	}
}

// ID returns the evaluation ID.
func (e *Evaluation) ID() uuid.UUID { return e.id }

// UserID returns the evaluator.
func (e *Evaluation) UserID() uuid.UUID { return e.userID }

// ProviderID returns the evaluated provider.
func (e *Evaluation) ProviderID() uuid.UUID { return e.providerID }

// Note returns the rating.
func (e *Evaluation) Note() int { return e.note }

// Comment returns the optional comment.
func (e *Evaluation) Comment() string { return e.comment }

// CreatedAt returns the creation timestamp.
func (e *Evaluation) CreatedAt() time.Time { return e.createdAt }

// Average returns the mean note of evals, 0 when empty.
func Average(evals []*Evaluation) float64 {
	if len(evals) == 0 {
		return 0
	}
	total := 0
	for _, e := range evals {
		total += e.note
	}
	return float64(total) / float64(len(evals))
}

package recognition

import (
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/masquerade-backend/internal/domain"
)

// RecognizeInput holds the parameters for a recognition attempt.
type RecognizeInput struct {
	RecognizerID uuid.UUID
	TargetID     uuid.UUID
	Evidence     domain.Evidence
}

// Validate checks all fields and collects all errors.
func (i RecognizeInput) Validate() error {
	errs := pairFieldErrors(i.RecognizerID, "recognizer_id", i.TargetID, "target_id")

	switch i.Evidence.Kind {
	case domain.EvidenceKindIdentity:
		if strings.TrimSpace(i.Evidence.Guess) == "" {
			errs = append(errs, domain.FieldError{Field: "evidence.guess", Message: "required"})
		}
		if len(i.Evidence.Guess) > 200 {
			errs = append(errs, domain.FieldError{Field: "evidence.guess", Message: "max 200 characters"})
		}
	case domain.EvidenceKindContent:
		if i.Evidence.ContentID == uuid.Nil {
			errs = append(errs, domain.FieldError{Field: "evidence.content_id", Message: "required"})
		}
	default:
		errs = append(errs, domain.FieldError{Field: "evidence.kind", Message: "must be IDENTITY or CONTENT"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// RevokeInput holds the parameters for revoking an edge.
type RevokeInput struct {
	RecognizerID uuid.UUID
	TargetID     uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i RevokeInput) Validate() error {
	if errs := pairFieldErrors(i.RecognizerID, "recognizer_id", i.TargetID, "target_id"); len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// ChallengeInput holds the parameters for a challenge issued by the target
// of an edge against its recognizer.
type ChallengeInput struct {
	TargetID     uuid.UUID
	RecognizerID uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i ChallengeInput) Validate() error {
	if errs := pairFieldErrors(i.TargetID, "target_id", i.RecognizerID, "recognizer_id"); len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// ComplimentInput holds the parameters for complimenting a recognized participant.
type ComplimentInput struct {
	RecognizerID uuid.UUID
	TargetID     uuid.UUID
	Text         string
}

// Validate checks all fields. An empty text yields domain.ErrEmptyText.
func (i ComplimentInput) Validate(maxLen int) error {
	errs := pairFieldErrors(i.RecognizerID, "recognizer_id", i.TargetID, "target_id")
	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}

	text := strings.TrimSpace(i.Text)
	if text == "" {
		return domain.ErrEmptyText
	}
	if maxLen > 0 && len([]rune(text)) > maxLen {
		return domain.NewValidationError("text", "too long")
	}
	return nil
}

// pairFieldErrors validates the two ids of an edge. Equal ids are reported
// only when both are set.
func pairFieldErrors(a uuid.UUID, aField string, b uuid.UUID, bField string) []domain.FieldError {
	var errs []domain.FieldError
	if a == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: aField, Message: "required"})
	}
	if b == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: bField, Message: "required"})
	}
	if len(errs) == 0 && a == b {
		errs = append(errs, domain.FieldError{Field: bField, Message: "must differ from " + aField})
	}
	return errs
}

package service

import "errors"

// Sentinel errors surfaced by the services. Handlers map these onto HTTP
// status codes; anything else is treated as an internal failure.
var (
	ErrInvalidQuestionID = errors.New("invalid question id")
	ErrInvalidSeasonID   = errors.New("invalid season id")
	ErrInvalidUserID     = errors.New("invalid user id")

	ErrInvalidPagination = errors.New("invalid pagination parameters")

	ErrQuestionNotFound = errors.New("question not found")
	ErrSeasonNotFound   = errors.New("season not found")
	ErrRankingNotFound  = errors.New("ranking not found")

	// Business-rule rejections on submission creation. These are expected
	// outcomes shown to end users, not server failures.
	ErrQuestionInactive = errors.New("question is not active")
	ErrQuestionExpired  = errors.New("question has expired")

	// Capability names referenced by a question definition must resolve
	// before the question is persisted.
	ErrInvalidValidationFunction    = errors.New("invalid validation function")
	ErrInvalidGenerateInputFunction = errors.New("invalid generate input function")

	// ErrSubmissionNotRecorded marks the window between persisting a
	// submission and linking it to its question: the submission row exists
	// but the question counters were not updated.
	ErrSubmissionNotRecorded = errors.New("submission created but not recorded on question")
)

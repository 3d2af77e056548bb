package models

import "errors"

// Custom errors
var (
	ErrNotFound                 = errors.New("record not found")
	ErrDuplicateKey             = errors.New("duplicate key violation")
	ErrResolutionMiss           = errors.New("team name could not be resolved")
	ErrSnapshotUnavailable      = errors.New("no rating snapshot within look-back window")
	ErrInsufficientTrainingData = errors.New("training season below minimum game count")
)

package postprocess

import (
	"github.com/pkg/errors"
)

var (
	// ErrNilCandidateSet is returned when inserting into a nil CandidateSet
	ErrNilCandidateSet = errors.New("candidate set is nil")
	// ErrNilCandidate is returned when inserting a nil candidate box
	ErrNilCandidate = errors.New("candidate box is nil")
)

// CandidateSet keeps the best scoring candidate boxes seen during decode up to
// MaxBoxNum entries.  It tracks the index of the highest and lowest scoring
// member so the lowest can be evicted without sorting.
type CandidateSet struct {
	candidates [MaxBoxNum]BoundingBox
	// count is the number of valid candidates
	count int
	// maxIndex is the index of the highest scoring candidate
	maxIndex int
	// minIndex is the index of the lowest scoring candidate
	minIndex int
}

// Reset empties the set
func (s *CandidateSet) Reset() {
	s.count = 0
	s.maxIndex = 0
	s.minIndex = 0
}

// Len returns the number of candidates held
func (s *CandidateSet) Len() int {
	return s.count
}

// Full returns true when the set holds MaxBoxNum candidates
func (s *CandidateSet) Full() bool {
	return s.count == MaxBoxNum
}

// MaxIndex returns the index of the highest scoring candidate
func (s *CandidateSet) MaxIndex() int {
	return s.maxIndex
}

// MinIndex returns the index of the lowest scoring candidate
func (s *CandidateSet) MinIndex() int {
	return s.minIndex
}

// Max returns the highest scoring candidate
func (s *CandidateSet) Max() BoundingBox {
	return s.candidates[s.maxIndex]
}

// Min returns the lowest scoring candidate
func (s *CandidateSet) Min() BoundingBox {
	return s.candidates[s.minIndex]
}

// Candidates returns the held candidates in insertion slot order
func (s *CandidateSet) Candidates() []BoundingBox {
	return s.candidates[:s.count]
}

// Insert copies c into the set.  Once the set is full a candidate scoring
// at least the current maximum replaces the minimum and becomes the new
// maximum, while one only beating the minimum replaces the minimum leaving
// the maximum index untouched.
func (s *CandidateSet) Insert(c *BoundingBox) error {

	if s == nil {
		return ErrNilCandidateSet
	}

	if c == nil {
		return ErrNilCandidate
	}

	switch {
	case s.count == 0:
		s.candidates[0] = *c
		s.maxIndex = 0
		s.minIndex = 0
		s.count = 1

	case s.count < MaxBoxNum:
		s.candidates[s.count] = *c

		if c.Score > s.candidates[s.maxIndex].Score {
			s.maxIndex = s.count
		}

		if c.Score < s.candidates[s.minIndex].Score {
			s.minIndex = s.count
		}

		s.count++

	default:
		if c.Score >= s.candidates[s.maxIndex].Score {
			s.candidates[s.minIndex] = *c
			s.maxIndex = s.minIndex
		} else if c.Score > s.candidates[s.minIndex].Score {
			s.candidates[s.minIndex] = *c
		} else {
			return nil
		}

		s.rescanMin()
	}

	return nil
}

// rescanMin finds the lowest scoring candidate
func (s *CandidateSet) rescanMin() {

	s.minIndex = 0

	for i := 1; i < s.count; i++ {
		if s.candidates[i].Score < s.candidates[s.minIndex].Score {
			s.minIndex = i
		}
	}
}

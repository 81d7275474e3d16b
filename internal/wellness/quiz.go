// Package wellness scores the wellbeing check-in quiz.
package wellness

import (
	"errors"
	"fmt"
	"math"
)

// MaxAnswer is the index of the last (worst) option of every question.
const MaxAnswer = 3

var (
	ErrAnswerCount = errors.New("answer count does not match question count")
	ErrAnswerRange = errors.New("answer out of range")
)

type Result struct {
	Score      int    `json:"score"`
	Percentage int    `json:"percentage"`
	Band       string `json:"band"`
	Message    string `json:"message"`
}

// Score sums the option indexes and inverts them into a 0-100 wellness percentage,
// so answering the first option everywhere gives 100.
func Score(answers []int, questions int) (Result, error) {
	if questions <= 0 || len(answers) != questions {
		return Result{}, ErrAnswerCount
	}

	sum := 0
	for i, a := range answers {
		if a < 0 || a > MaxAnswer {
			return Result{}, fmt.Errorf("%w: answer %d is %d", ErrAnswerRange, i+1, a)
		}
		sum += a
	}

	maxScore := questions * MaxAnswer
	pct := int(math.Round(float64(maxScore-sum) / float64(maxScore) * 100))

	res := Result{Score: sum, Percentage: pct}
	switch {
	case pct >= 75:
		res.Band = "thriving"
		res.Message = "Great job! You seem to be managing your mental health well. Keep up the good practices!"
	case pct >= 50:
		res.Band = "steady"
		res.Message = "You're doing okay, but there's room for improvement. Consider trying some of our resources."
	default:
		res.Band = "strained"
		res.Message = "It might be helpful to focus more on self-care. Explore our resources and consider talking to someone."
	}
	return res, nil
}

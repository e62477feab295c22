package arcade

import (
	"math"
	"slices"
)

// Outcome is filled in when a session enters Finished.
type Outcome struct {
	CorrectCount  int `json:"correctCount"`
	TotalCount    int `json:"totalCount"`
	PointsAwarded int `json:"pointsAwarded"`
}

// QuestionCorrect reports whether selected is exactly the question's set of
// correct options. Order and duplicates in selected are irrelevant.
func QuestionCorrect(q Question, selected []int) bool {
	got := normalize(selected)
	want := normalize(q.CorrectOptions)
	return slices.Equal(got, want)
}

func normalize(idx []int) []int {
	out := slices.Clone(idx)
	slices.Sort(out)
	return slices.Compact(out)
}

// ProportionalPoints scales reward by correct/total, rounding half away from zero.
func ProportionalPoints(reward, correct, total int) int {
	if total <= 0 || correct <= 0 {
		return 0
	}
	return int(math.Round(float64(reward) * float64(correct) / float64(total)))
}

// ScoreQuiz scores one answer set per question. Missing answers count as wrong.
func ScoreQuiz(def Definition, answers [][]int) Outcome {
	correct := 0
	for i, q := range def.Questions {
		if i < len(answers) && QuestionCorrect(q, answers[i]) {
			correct++
		}
	}
	total := len(def.Questions)
	return Outcome{
		CorrectCount:  correct,
		TotalCount:    total,
		PointsAwarded: ProportionalPoints(def.RewardPoints, correct, total),
	}
}

// ScoreTrivial is all-or-nothing: the full reward only once every category
// has been earned.
func ScoreTrivial(def Definition, earned int) Outcome {
	total := len(TrivialCategories)
	o := Outcome{CorrectCount: earned, TotalCount: total}
	if earned >= total {
		o.PointsAwarded = def.RewardPoints
	}
	return o
}

// ScoreCompletion scores Memory, Timeline and HiddenObjects: reaching
// Finished is worth the full reward. Moves and elapsed time do not count.
func ScoreCompletion(def Definition, total int) Outcome {
	return Outcome{
		CorrectCount:  total,
		TotalCount:    total,
		PointsAwarded: def.RewardPoints,
	}
}

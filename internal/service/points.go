package service

import (
	"math"

	"github.com/hirelens/hirelens-api/internal/dto"
	"github.com/hirelens/hirelens-api/internal/models"
)

const (
	// SpeedBonusWeight scales the speed category's contribution to a quiz
	// point. With unit category values (completion=1, speed=1) a completed
	// quiz is worth 2.2.
	SpeedBonusWeight = 1.2

	completionPointSuffix = "QuizCompletionPoint"
	speedPointCategory    = "speedPoint"
)

// ComputeQuizPoints derives the point value for each assigned quiz from the
// named point categories. The completion category is selected by the quiz's
// difficulty ("easy" -> "easyQuizCompletionPoint") and combined with the
// fixed speed bonus. Category values are expected pre-normalized; see
// NormalizePoints.
func ComputeQuizPoints(input dto.QuizPointsInput) (dto.QuizPointsOutput, error) {
	if err := input.Validate(); err != nil {
		return dto.QuizPointsOutput{}, err
	}

	speed := input.AssessmentPoints[speedPointCategory].Point

	output := dto.QuizPointsOutput{
		QuizPoints:      make(map[string]float64, len(input.AssessmentQuizzes)),
		AssignedQuizzes: make([]models.Quiz, 0, len(input.AssessmentQuizzes)),
	}
	for _, assigned := range input.AssessmentQuizzes {
		quiz := assigned.Quiz
		completion := input.AssessmentPoints[quiz.DifficultyLevel.Name+completionPointSuffix].Point
		point := round2(completion + SpeedBonusWeight*speed)
		output.QuizPoints[quiz.ID] = point
		output.TotalPoint = round2(output.TotalPoint + point)
		output.AssignedQuizzes = append(output.AssignedQuizzes, quiz)
	}
	return output, nil
}

// NormalizePoints maps the stored point categories into unit values, dividing
// each raw point by scale (configured, default 1000). The stored fixtures
// keep raw values like easyQuizCompletionPoint=1000 and speedPoint=500.
func NormalizePoints(points []models.AssessmentPoint, scale float64) map[string]dto.PointValue {
	if scale <= 0 {
		scale = 1
	}
	normalized := make(map[string]dto.PointValue, len(points))
	for _, p := range points {
		normalized[p.Name] = dto.PointValue{
			ID:    p.ID,
			Point: p.Point / scale,
		}
	}
	return normalized
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

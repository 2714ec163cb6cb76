package scoring

const (
	titleWeight   = 0.4
	summaryWeight = 0.3
	topicWeight   = 0.05
	maxTopicBonus = 0.3
	maxScore      = 1.0
)

// Score считает наивную релевантность статьи в диапазоне [0, 1].
// Заглушка под будущую модель: важна только арифметика ниже.
func Score(title, summary string, topics []string) float64 {
	var score float64

	if title != "" {
		score += titleWeight
	}

	if summary != "" {
		score += summaryWeight
	}

	score += min(topicWeight*float64(len(topics)), maxTopicBonus)

	return min(score, maxScore)
}

package vision

import (
	"sort"

	"vision-diff/internal/domain/entity"
)

// ratioFilter оставляет соответствия, у которых лучший кандидат заметно ближе второго.
// Запросы с одним кандидатом отбрасываются: сравнить не с чем.
func ratioFilter(knn [][]entity.Correspondence, ratio float64) []entity.Correspondence {
	good := make([]entity.Correspondence, 0, len(knn))
	for _, candidates := range knn {
		if len(candidates) < 2 {
			continue
		}
		if candidates[0].Distance < ratio*candidates[1].Distance {
			good = append(good, candidates[0])
		}
	}
	return good
}

// sortByDistance упорядочивает соответствия по возрастанию расстояния.
func sortByDistance(matches []entity.Correspondence) []entity.Correspondence {
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Distance < matches[j].Distance })
	return matches
}

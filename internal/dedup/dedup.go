package dedup

import (
	"github.com/kovalyov-valentin/museum-news-feed/internal/model"
	"github.com/tomakado/containers/set"
)

// Filter отбрасывает статьи, идентификатор которых уже известен.
// Внутри пачки выигрывает первое вхождение, порядок оставшихся статей сохраняется.
// Входные слайсы не меняются.
func Filter(known []string, articles []model.Article) []model.Article {
	// Копия known, чтобы дописывать в нее увиденные в пачке id
	seen := set.New(known...)

	unique := make([]model.Article, 0, len(articles))
	for _, article := range articles {
		if seen.Contains(article.ID) {
			continue
		}

		seen.Add(article.ID)
		unique = append(unique, article)
	}

	return unique
}

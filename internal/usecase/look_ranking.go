package usecase

import (
	"sort"

	"github.com/GoArmGo/WardrobeApp/internal/domain"
)

// rankedLook — образ вместе с вычисленной оценкой вариативности
type rankedLook struct {
	look     domain.Look
	variance int
}

// matchLook решает, попадает ли образ в выдачу для пользователя.
// Правило отбора: совпадение пола, непустое пересечение с гардеробом,
// совпадение сезона (если сезон задан в запросе), затем видимость.
// Режимы видимости взаимоисключающи: favorites имеет приоритет над
// showDisliked; в режиме favorites скрытые образы не исключаются.
func matchLook(look *domain.Look, user *domain.User, q domain.LookQuery) bool {
	if look.Gender != user.Gender {
		return false
	}

	overlap := false
	for _, pieceID := range look.Pieces {
		if user.OwnsPiece(pieceID) {
			overlap = true
			break
		}
	}
	if !overlap {
		return false
	}

	if q.Season != "" && look.Season != q.Season {
		return false
	}

	id := look.ID.String()
	switch {
	case q.Favorites:
		return user.HasFavorite(id)
	case q.ShowDisliked:
		return !user.HasFavorite(id)
	default:
		return !user.HasFavorite(id) && !user.HasHidden(id)
	}
}

// rankLooks отбирает подходящие образы и сортирует их по возрастанию
// вариативности; при равной вариативности раньше идет более старый образ.
// Сортировка стабильна относительно порядка создания, поэтому страницы
// не пересекаются при неизменном состоянии пользователя.
func rankLooks(candidates []domain.Look, user *domain.User, q domain.LookQuery) []rankedLook {
	ranked := make([]rankedLook, 0, len(candidates))
	for i := range candidates {
		if !matchLook(&candidates[i], user, q) {
			continue
		}
		ranked = append(ranked, rankedLook{
			look:     candidates[i],
			variance: candidates[i].Variance(user.Wardrobe),
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].variance != ranked[j].variance {
			return ranked[i].variance < ranked[j].variance
		}
		return ranked[i].look.Seq < ranked[j].look.Seq
	})

	return ranked
}

// pageSlice вырезает страницу из отсортированного списка.
// skip за пределами списка дает пустую страницу, не ошибку.
func pageSlice(ranked []rankedLook, limit, skip int) []rankedLook {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(ranked) {
		return nil
	}
	end := skip + limit
	if end > len(ranked) {
		end = len(ranked)
	}
	return ranked[skip:end]
}

package catalog

import (
	"context"
	"sync"

	"github.com/heartmarshall/anikor-backend/internal/domain"
)

// Translate never fails: a failed attempt yields the source text. The
// fan-outs below therefore only join, they have nothing to cancel.

// localizeList translates titles concurrently without verification.
// out[i] always corresponds to items[i].
func (s *Service) localizeList(ctx context.Context, items []domain.Anime) []Item {
	out := make([]Item, len(items))

	var wg sync.WaitGroup
	for i, it := range items {
		out[i] = baseItem(it)
		wg.Add(1)
		go func() {
			defer wg.Done()
			out[i].Title = s.translator.Translate(ctx, it.Title.Preferred(), domain.TranslationKindTitle, false)
		}()
	}
	wg.Wait()
	return out
}

// localizeDetail translates the title with verification, and the
// description and staff roles as free text, all at once.
func (s *Service) localizeDetail(ctx context.Context, d *domain.AnimeDetail) *Detail {
	out := &Detail{
		Item:       baseItem(d.Anime),
		StartDate:  d.StartDate,
		EndDate:    d.EndDate,
		Characters: d.Characters,
		Staff:      make([]domain.StaffCredit, len(d.Staff)),
		Studios:    d.Studios,
	}

	var wg sync.WaitGroup
	run := func(fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn()
		}()
	}

	run(func() {
		out.Title = s.translator.Translate(ctx, d.Title.Preferred(), domain.TranslationKindTitle, true)
	})
	run(func() {
		out.Description = s.translator.Translate(ctx, d.Description, domain.TranslationKindFreeText, false)
	})
	for i, credit := range d.Staff {
		out.Staff[i].Name = credit.Name
		run(func() {
			out.Staff[i].Role = s.translator.Translate(ctx, credit.Role, domain.TranslationKindFreeText, false)
		})
	}
	wg.Wait()
	return out
}

func baseItem(a domain.Anime) Item {
	return Item{
		ID:           a.ID,
		Genres:       domain.RelabelGenres(a.Genres),
		Episodes:     a.Episodes,
		CoverImage:   a.CoverImage,
		AverageScore: a.AverageScore,
	}
}

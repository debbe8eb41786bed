package anilist

import (
	"strings"

	"github.com/heartmarshall/anikor-backend/internal/domain"
)

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

type pageResponse struct {
	Data struct {
		Page struct {
			Media []apiMedia `json:"media"`
		} `json:"Page"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

type mediaResponse struct {
	Data struct {
		Media *apiMedia `json:"Media"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

type apiTitle struct {
	Romaji  *string `json:"romaji"`
	English *string `json:"english"`
	Native  *string `json:"native"`
}

type apiName struct {
	Full string `json:"full"`
}

type apiMedia struct {
	ID           int      `json:"id"`
	Title        apiTitle `json:"title"`
	Genres       []string `json:"genres"`
	Episodes     *int     `json:"episodes"`
	Description  *string  `json:"description"`
	AverageScore *int     `json:"averageScore"`
	CoverImage   struct {
		ExtraLarge string `json:"extraLarge"`
	} `json:"coverImage"`
	StartDate  domain.FuzzyDate `json:"startDate"`
	EndDate    domain.FuzzyDate `json:"endDate"`
	Characters struct {
		Edges []struct {
			Node struct {
				Name apiName `json:"name"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"characters"`
	Staff struct {
		Edges []struct {
			Node struct {
				Name apiName `json:"name"`
			} `json:"node"`
			Role string `json:"role"`
		} `json:"edges"`
	} `json:"staff"`
	Studios struct {
		Nodes []struct {
			Name string `json:"name"`
		} `json:"nodes"`
	} `json:"studios"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (m apiMedia) toAnime() domain.Anime {
	genres := m.Genres
	if genres == nil {
		genres = []string{}
	}
	return domain.Anime{
		ID: m.ID,
		Title: domain.MediaTitle{
			Romaji:  deref(m.Title.Romaji),
			English: deref(m.Title.English),
			Native:  deref(m.Title.Native),
		},
		Genres:       genres,
		Episodes:     m.Episodes,
		CoverImage:   m.CoverImage.ExtraLarge,
		AverageScore: m.AverageScore,
	}
}

func (m apiMedia) toDetail() *domain.AnimeDetail {
	d := &domain.AnimeDetail{
		Anime:       m.toAnime(),
		Description: deref(m.Description),
		StartDate:   m.StartDate,
		EndDate:     m.EndDate,
		Characters:  make([]string, 0, len(m.Characters.Edges)),
		Staff:       make([]domain.StaffCredit, 0, len(m.Staff.Edges)),
		Studios:     make([]string, 0, len(m.Studios.Nodes)),
	}
	for _, e := range m.Characters.Edges {
		d.Characters = append(d.Characters, e.Node.Name.Full)
	}
	for _, e := range m.Staff.Edges {
		d.Staff = append(d.Staff, domain.StaffCredit{Name: e.Node.Name.Full, Role: e.Role})
	}
	for _, n := range m.Studios.Nodes {
		d.Studios = append(d.Studios, n.Name)
	}
	return d
}

func joinErrors(errs []graphQLError) string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

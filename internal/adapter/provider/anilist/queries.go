package anilist

import (
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

// The catalog only ever receives these two documents. Caller input travels
// exclusively through variables.
const pageQuerySource = `
query (
	$page: Int, $perPage: Int, $search: String, $genre: String, $genreNotIn: [String],
	$episodesGreater: Int, $averageScoreGreater: Int, $sort: [MediaSort]
) {
	Page(page: $page, perPage: $perPage) {
		media(
			type: ANIME, countryOfOrigin: "JP", search: $search, genre: $genre,
			genre_not_in: $genreNotIn, episodes_greater: $episodesGreater,
			averageScore_greater: $averageScoreGreater, sort: $sort
		) {
			id
			title { romaji english native }
			genres
			episodes
			coverImage { extraLarge }
			averageScore
		}
	}
}`

const mediaQuerySource = `
query ($id: Int) {
	Media(id: $id, type: ANIME) {
		id
		title { romaji english native }
		genres
		episodes
		description(asHtml: false)
		coverImage { extraLarge }
		averageScore
		startDate { year month day }
		endDate { year month day }
		characters { edges { node { name { full } } } }
		staff { edges { node { name { full } } role } }
		studios(isMain: true) { nodes { name } }
	}
}`

var (
	pageQuery  = mustDocument("page", pageQuerySource)
	mediaQuery = mustDocument("media", mediaQuerySource)
)

// document is a parsed query together with the variables it declares.
type document struct {
	text     string
	declared map[string]struct{}
}

func mustDocument(name, src string) document {
	doc, err := parser.ParseQuery(&ast.Source{Name: name, Input: src})
	if err != nil {
		panic(fmt.Sprintf("anilist: parse %s query: %v", name, err))
	}
	if len(doc.Operations) != 1 {
		panic(fmt.Sprintf("anilist: %s query must have exactly one operation", name))
	}

	declared := make(map[string]struct{}, len(doc.Operations[0].VariableDefinitions))
	for _, v := range doc.Operations[0].VariableDefinitions {
		declared[v.Variable] = struct{}{}
	}
	return document{text: src, declared: declared}
}

// variables keeps only declared, non-nil values. A missing variable reads
// as null on the catalog side, which drops the argument.
func (d document) variables(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		if _, ok := d.declared[k]; !ok || v == nil {
			continue
		}
		out[k] = v
	}
	return out
}

package recommendationsController

import (
	"sort"
	"strings"

	. "inkwell/internal/models"
)

// Match ranks, strongest first. A title hit outranks hits in categories,
// keywords, or the description.
const (
	matchNone = iota
	matchMeta
	matchTitle
)

// FilterPosts returns the posts matching the search term, best matches first.
// A post matches when its title, categories, keywords, or description contain
// the term, or when every word of a multi-word term is contained somewhere in
// those fields.
func FilterPosts(posts []Post, search string) []Post {
	if search == "" {
		return posts
	}

	type ranked struct {
		post Post
		rank int
	}

	matches := make([]ranked, 0, len(posts))
	for _, post := range posts {
		rank := matchRank(&post, search)
		if rank == matchNone {
			continue
		}
		matches = append(matches, ranked{post: post, rank: rank})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].rank > matches[j].rank
	})

	result := make([]Post, 0, len(matches))
	for _, m := range matches {
		result = append(result, m.post)
	}
	return result
}

func matchRank(post *Post, search string) int {
	if rank := fieldRank(post, search); rank != matchNone {
		return rank
	}

	// Multi-word searches also match when each word matches on its own.
	words := strings.Fields(search)
	if len(words) < 2 {
		return matchNone
	}

	lowest := matchTitle
	for _, word := range words {
		rank := fieldRank(post, word)
		if rank == matchNone {
			return matchNone
		}
		if rank < lowest {
			lowest = rank
		}
	}
	return lowest
}

func fieldRank(post *Post, term string) int {
	term = strings.ToLower(term)

	if strings.Contains(strings.ToLower(post.Title), term) {
		return matchTitle
	}
	for _, category := range post.Categories {
		if strings.Contains(strings.ToLower(category), term) {
			return matchMeta
		}
	}
	for _, keyword := range post.Keywords {
		if strings.Contains(strings.ToLower(keyword), term) {
			return matchMeta
		}
	}
	if strings.Contains(strings.ToLower(post.Description), term) {
		return matchMeta
	}

	return matchNone
}

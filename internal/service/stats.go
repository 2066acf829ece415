package service

import (
	"github.com/prn-tf/bloglist/internal/domain"
)

// AuthorPosts is an author and the number of posts naming them.
type AuthorPosts struct {
	Author string `json:"author"`
	Posts  int    `json:"posts"`
}

// AuthorLikes is an author and the likes summed over their posts.
type AuthorLikes struct {
	Author string `json:"author"`
	Likes  int    `json:"likes"`
}

// Stats summarizes a list of posts.
type Stats struct {
	TotalPosts   int          `json:"total_posts"`
	TotalLikes   int          `json:"total_likes"`
	FavoritePost *domain.Post `json:"favorite_post"`
	MostPosts    *AuthorPosts `json:"most_posts"`
	MostLikes    *AuthorLikes `json:"most_likes"`
}

// ComputeStats summarizes posts. Ties go to whichever post or author appears first.
func ComputeStats(posts []*domain.Post) *Stats {
	return &Stats{
		TotalPosts:   len(posts),
		TotalLikes:   TotalLikes(posts),
		FavoritePost: FavoritePost(posts),
		MostPosts:    MostPosts(posts),
		MostLikes:    MostLikes(posts),
	}
}

// TotalLikes sums likes over posts.
func TotalLikes(posts []*domain.Post) int {
	total := 0
	for _, p := range posts {
		total += p.Likes
	}
	return total
}

// FavoritePost returns the first post with the most likes, or nil.
func FavoritePost(posts []*domain.Post) *domain.Post {
	var best *domain.Post
	for _, p := range posts {
		if best == nil || p.Likes > best.Likes {
			best = p
		}
	}
	return best
}

// MostPosts returns the author named on the most posts, or nil.
func MostPosts(posts []*domain.Post) *AuthorPosts {
	authors, counts := tally(posts, func(*domain.Post) int { return 1 })
	author, n, ok := leader(authors, counts)
	if !ok {
		return nil
	}
	return &AuthorPosts{Author: author, Posts: n}
}

// MostLikes returns the author whose posts have the most likes in total, or nil.
func MostLikes(posts []*domain.Post) *AuthorLikes {
	authors, counts := tally(posts, func(p *domain.Post) int { return p.Likes })
	author, n, ok := leader(authors, counts)
	if !ok {
		return nil
	}
	return &AuthorLikes{Author: author, Likes: n}
}

// tally sums weight per author and returns authors in first-seen order.
func tally(posts []*domain.Post, weight func(*domain.Post) int) ([]string, map[string]int) {
	var authors []string
	counts := make(map[string]int)
	for _, p := range posts {
		if _, seen := counts[p.Author]; !seen {
			authors = append(authors, p.Author)
		}
		counts[p.Author] += weight(p)
	}
	return authors, counts
}

func leader(authors []string, counts map[string]int) (string, int, bool) {
	if len(authors) == 0 {
		return "", 0, false
	}
	best := authors[0]
	for _, a := range authors[1:] {
		if counts[a] > counts[best] {
			best = a
		}
	}
	return best, counts[best], true
}

package content

// Snapshot is the post list and tag registry from a single load. It is
// built fresh for each request or build and never refreshed in place.
type Snapshot struct {
	Posts []Post
	Tags  []string
}

// Snapshot loads every post and derives the tag registry from them.
func (l *Loader) Snapshot() (*Snapshot, error) {
	posts, err := l.LoadAllPosts()
	if err != nil {
		return nil, err
	}
	return NewSnapshot(posts), nil
}

// NewSnapshot wraps an already loaded post list.
func NewSnapshot(posts []Post) *Snapshot {
	return &Snapshot{Posts: posts, Tags: TagRegistry(posts)}
}

// Post returns the post with the given slug.
func (s *Snapshot) Post(slug string) (Post, error) {
	for _, p := range s.Posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return Post{}, &NotFoundError{Slug: slug}
}

// PostsTagged returns the posts carrying exactly tag. An empty tag returns
// every post.
func (s *Snapshot) PostsTagged(tag string) []Post {
	if tag == "" {
		return s.Posts
	}
	var filtered []Post
	for _, p := range s.Posts {
		if p.HasTag(tag) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// Related returns up to limit other posts sharing a tag with post, most
// shared tags first, newest first among equals.
func (s *Snapshot) Related(post Post, limit int) []Post {
	type scored struct {
		post  Post
		score int
	}
	var candidates []scored
	for _, p := range s.Posts {
		if p.Slug == post.Slug {
			continue
		}
		n := 0
		seen := make(map[string]struct{}, len(p.Tags))
		for _, t := range p.Tags {
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			if post.HasTag(t) {
				n++
			}
		}
		if n > 0 {
			candidates = append(candidates, scored{p, n})
		}
	}
	// Posts are already newest first; an insertion sort on score keeps that
	// order among equal scores.
	for i := 1; i < len(candidates); i++ {
		for j := i; j > 0 && candidates[j].score > candidates[j-1].score; j-- {
			candidates[j], candidates[j-1] = candidates[j-1], candidates[j]
		}
	}
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make([]Post, len(candidates))
	for i, c := range candidates {
		out[i] = c.post
	}
	return out
}

package entity

import "time"

// Blog is a community review post written by a registered user.
type Blog struct {
	ID        string
	AuthorID  string
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time

	// Author fields denormalized by the read queries.
	AuthorName  string
	AuthorEmail string
}

// BlogAuthor is the author summary embedded in a rendered post.
type BlogAuthor struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// BlogView is the client-facing projection of a post.
type BlogView struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Author    BlogAuthor `json:"author"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (b *Blog) View() BlogView {
	return BlogView{
		ID:      b.ID,
		Title:   b.Title,
		Content: b.Content,
		Author: BlogAuthor{
			ID:       b.AuthorID,
			FullName: b.AuthorName,
			Email:    b.AuthorEmail,
		},
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

package models

import (
	"fmt"
	"strings"
)

// Post is a short article written by a user.
type Post struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	AuthorID  string `json:"authorId"`
	CreatedAt string `json:"createdAt"`
}

func (p Post) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("%w: title must not be empty", ErrValidation)
	}
	if strings.TrimSpace(p.AuthorID) == "" {
		return fmt.Errorf("%w: author is required", ErrValidation)
	}
	return nil
}

// PostPatch is a partial update of a post. The author cannot change.
type PostPatch struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

func (p Post) Apply(patch PostPatch) Post {
	if patch.Title != nil {
		p.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Content != nil {
		p.Content = *patch.Content
	}
	return p
}

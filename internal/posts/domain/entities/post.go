// Package entities содержит сущности домена публикаций.
package entities

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	userentities "blogcore/internal/auth/domain/entities"
)

// MaxTitleLength - максимальная длина заголовка в символах.
const MaxTitleLength = 200

// Ошибки домена публикаций.
var (
	ErrPostNotFound  = errors.New("post not found")
	ErrEmptyPostID   = errors.New("post ID cannot be empty")
	ErrEmptyTitle    = errors.New("post title cannot be empty")
	ErrTitleTooLong  = errors.New("post title must not exceed 200 characters")
	ErrEmptyAuthorID = errors.New("author ID cannot be empty")
	ErrForbidden     = errors.New("not allowed to modify this post")
)

// Author - краткие сведения об авторе, возвращаемые вместе с публикацией.
type Author struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Post представляет собой публикацию пользователя.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Published bool      `json:"published"`
	AuthorID  string    `json:"authorId"`
	Author    *Author   `json:"author,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ValidateTitle проверяет заголовок публикации.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}

// Actor - пользователь, выполняющий операцию над публикацией.
type Actor struct {
	UserID string
	Role   userentities.Role
}

// CanModify сообщает, может ли actor изменять публикацию: автор или администратор.
func (a Actor) CanModify(post *Post) bool {
	return post.AuthorID == a.UserID || a.Role.IsAdmin()
}

package dto

// CreatePostRequest содержит данные для создания публикации.
type CreatePostRequest struct {
	Title     string `json:"title" validate:"required,max=200"`
	Content   string `json:"content"`
	Published bool   `json:"published"`
}

// UpdatePostRequest содержит изменяемые поля публикации.
type UpdatePostRequest struct {
	Title     *string `json:"title" validate:"omitnil,min=1,max=200"`
	Content   *string `json:"content"`
	Published *bool   `json:"published"`
}

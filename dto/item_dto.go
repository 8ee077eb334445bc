package dto

import "pixelnote/models"

// CreateItemInput accepts every item field; the ones a collection does not
// use are dropped by the service.
type CreateItemInput struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Date    *string `json:"date"`
	Image   *string `json:"image"`
}

func (i CreateItemInput) Fields() models.ItemFields {
	return models.ItemFields{Title: i.Title, Content: i.Content, Date: i.Date, Image: i.Image}
}

// UpdateItemInput is a partial update: absent fields keep their value.
type UpdateItemInput struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Date    *string `json:"date"`
	Image   *string `json:"image"`
}

func (i UpdateItemInput) Fields() models.ItemFields {
	return models.ItemFields{Title: i.Title, Content: i.Content, Date: i.Date, Image: i.Image}
}

type DeleteResponse struct {
	OK bool `json:"ok"`
}

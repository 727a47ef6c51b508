package dto

type SliderInput struct {
	Image    *string `json:"image"`
	Title    *string `json:"title"`
	Link     *string `json:"link"`
	Order    *int    `json:"order"`
	IsActive *bool   `json:"isActive"`
}

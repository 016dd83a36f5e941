package handlers

import (
	"time"

	"github.com/pribylovaa/catalog-service/internal/models"
)

type ReviewResponse struct {
	Name    string    `json:"name"`
	Comment string    `json:"comment"`
	Stars   int32     `json:"stars"`
	Date    time.Time `json:"date"`
}

type ItemResponse struct {
	ID          int64            `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Slogan      string           `json:"slogan"`
	Category    string           `json:"category"`
	Price       float64          `json:"price"`
	ImageURL    string           `json:"img_url"`
	Stars       float64          `json:"stars"`
	Reviews     []ReviewResponse `json:"reviews"`
}

type CategoryResponse struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

type ListCategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
}

// ItemsPageResponse - страница товаров (/items и /search).
type ItemsPageResponse struct {
	Items    []ItemResponse `json:"items"`
	Total    int64          `json:"total"`
	Page     int64          `json:"page"`
	PageSize int64          `json:"page_size"`
	Pages    int64          `json:"pages"`
}

type GetItemResponse struct {
	Item     ItemResponse `json:"item"`
	Fallback bool         `json:"fallback"`
}

type ListRelatedResponse struct {
	Items []ItemResponse `json:"items"`
}

type AddReviewRequest struct {
	Name    string `json:"name"`
	Comment string `json:"comment"`
	Stars   int32  `json:"stars"`
}

type AddReviewResponse struct {
	Applied bool            `json:"applied"`
	Review  *ReviewResponse `json:"review,omitempty"`
}

func reviewFromModel(r models.Review) ReviewResponse {
	return ReviewResponse{
		Name:    r.Name,
		Comment: r.Comment,
		Stars:   r.Stars,
		Date:    r.Date.UTC(),
	}
}

func itemFromModel(it models.Item) ItemResponse {
	reviews := make([]ReviewResponse, 0, len(it.Reviews))
	for _, r := range it.Reviews {
		reviews = append(reviews, reviewFromModel(r))
	}

	return ItemResponse{
		ID:          it.ID,
		Title:       it.Title,
		Description: it.Description,
		Slogan:      it.Slogan,
		Category:    it.Category,
		Price:       it.Price,
		ImageURL:    it.ImageURL,
		Stars:       it.StarRating,
		Reviews:     reviews,
	}
}

func itemsFromModel(items []models.Item) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, itemFromModel(it))
	}
	return out
}

// pages - число страниц: ceil(total/pageSize).
func pages(total, pageSize int64) int64 {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

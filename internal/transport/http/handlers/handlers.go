package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/pribylovaa/catalog-service/internal/models"
	"github.com/pribylovaa/catalog-service/internal/service"
)

// maxBodyBytes - предел тела запроса на добавление отзыва.
const maxBodyBytes = 64 << 10

// Catalog - операции каталога, которые нужны HTTP-слою.
// Реализуется *service.Service.
type Catalog interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListItems(ctx context.Context, category string, page, pageSize int64) ([]models.Item, error)
	CountItems(ctx context.Context, category string) (int64, error)
	SearchItems(ctx context.Context, query string, page, pageSize int64) ([]models.Item, error)
	CountSearchItems(ctx context.Context, query string) (int64, error)
	GetItem(ctx context.Context, id int64) (*models.Item, bool, error)
	ListRelated(ctx context.Context, limit int64) ([]models.Item, error)
	AddReview(ctx context.Context, in service.AddReviewInput) (*models.ReviewResult, error)
	PageSize(requested int64) int64
}

// Handlers агрегирует зависимости.
type Handlers struct {
	Catalog Catalog
}

func New(c Catalog) *Handlers {
	return &Handlers{Catalog: c}
}

// writeJSON - единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict - строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}

// invalidArgument - локальная ошибка парсинга -> service.ErrInvalidArgument.
func invalidArgument(what string) error {
	return fmt.Errorf("%w: %s", service.ErrInvalidArgument, what)
}

// queryInt64 читает необязательный целочисленный query-параметр.
// Отсутствующий параметр даёт def.
func queryInt64(r *http.Request, name string, def int64) (int64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}

	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, invalidArgument(name)
	}

	return n, nil
}

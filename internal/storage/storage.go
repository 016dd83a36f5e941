package storage

import (
	"context"
	"errors"

	"github.com/pribylovaa/catalog-service/internal/models"
)

var (
	// ErrNotFound - сущность отсутствует в хранилище.
	ErrNotFound = errors.New("not found")
	// ErrUnavailable - хранилище не смогло выполнить запрос (сеть, драйвер, дедлайн).
	ErrUnavailable = errors.New("store unavailable")
)

// Storage описывает запросы к коллекции товаров.
// Пустые результаты группировок нормализуются в 0 внутри реализации.
type Storage interface {
	// Categories возвращает фасеты по полю category, отсортированные по имени (ASC).
	// Синтетическую категорию "All" хранилище не добавляет.
	Categories(ctx context.Context) ([]models.Category, error)

	// ListItems возвращает страницу товаров категории, сортировка _id ASC.
	// category == "" или "All" - без фильтра.
	ListItems(ctx context.Context, category string, p models.PageParams) ([]models.Item, error)

	// CountItems возвращает число товаров категории ("" или "All" - все товары).
	CountItems(ctx context.Context, category string) (int64, error)

	// SearchItems - полнотекстовый поиск ($text), результат сортируется по _id ASC.
	SearchItems(ctx context.Context, query string, p models.PageParams) ([]models.Item, error)

	// CountSearchItems возвращает число товаров, подходящих под текстовый запрос.
	CountSearchItems(ctx context.Context, query string) (int64, error)

	// ItemByID возвращает товар по идентификатору.
	// Если записи нет - ErrNotFound.
	ItemByID(ctx context.Context, id int64) (*models.Item, error)

	// RelatedItems возвращает до limit товаров в естественном порядке хранилища.
	RelatedItems(ctx context.Context, limit int64) ([]models.Item, error)

	// AddReview дописывает отзыв в конец reviews товара.
	// Возвращает false, если ни один документ не совпал по itemID.
	AddReview(ctx context.Context, itemID int64, review models.Review) (bool, error)

	// Close закрывает соединения/ресурсы хранилища.
	Close(ctx context.Context) error
}

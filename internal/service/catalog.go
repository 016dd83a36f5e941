package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pribylovaa/catalog-service/internal/models"
	"github.com/pribylovaa/catalog-service/internal/pkg/log"
	"github.com/pribylovaa/catalog-service/internal/storage"
)

// AddReviewInput - добавление отзыва к товару.
// Name и Comment нормализуются (TrimSpace) до валидации.
type AddReviewInput struct {
	ItemID  int64
	Name    string `validate:"required,max=100"`
	Comment string `validate:"required,max=2000"`
	Stars   int32  `validate:"gte=1,lte=5"`
}

// normalizeCategory: пустая категория трактуется как "All".
func normalizeCategory(category string) string {
	category = strings.TrimSpace(category)
	if category == "" {
		return models.AllCategories
	}

	return category
}

// pageParams проверяет номер страницы и приводит размер к [Default, Max].
func (s *Service) pageParams(page, pageSize int64) (models.PageParams, error) {
	if page < 0 {
		return models.PageParams{}, fmt.Errorf("negative page %d", page)
	}

	return models.PageParams{Page: page, PageSize: s.PageSize(pageSize)}, nil
}

// PageSize - эффективный размер страницы: <=0 -> limits.default, сверху limits.max.
func (s *Service) PageSize(requested int64) int64 {
	if requested <= 0 {
		return s.cfg.Limits.Default
	}

	if requested > s.cfg.Limits.Max {
		return s.cfg.Limits.Max
	}

	return requested
}

// unavailable - единый перевод ошибки стораджа в сервисную с сохранением причины.
func unavailable(op string, lg *slog.Logger, err error) error {
	lg.Error("storage error", "err", err)
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}

// cachedCount - read-through для счётчиков. Сбой кэша не ломает запрос.
func (s *Service) cachedCount(ctx context.Context, lg *slog.Logger, key string, load func() (int64, error)) (int64, error) {
	if n, ok, err := s.cache.Count(ctx, key); err != nil {
		lg.Warn("cache get failed", "key", key, "err", err)
	} else if ok {
		return n, nil
	}

	n, err := load()
	if err != nil {
		return 0, err
	}

	if err := s.cache.SetCount(ctx, key, n); err != nil {
		lg.Warn("cache set failed", "key", key, "err", err)
	}

	return n, nil
}

// ListCategories - фасеты категорий с синтетической "All" первой.
// Счётчик "All" - сумма счётчиков остальных фасетов, то есть общее число товаров.
func (s *Service) ListCategories(ctx context.Context) ([]models.Category, error) {
	const op = "service/catalog/ListCategories"
	lg := log.Op(ctx, op)

	cats, ok, err := s.cache.Categories(ctx)
	if err != nil {
		lg.Warn("cache get failed", "err", err)
	}

	if !ok {
		cats, err = s.storage.Categories(ctx)
		if err != nil {
			return nil, unavailable(op, lg, err)
		}

		if err := s.cache.SetCategories(ctx, cats); err != nil {
			lg.Warn("cache set failed", "err", err)
		}
	}

	var total int64
	for _, c := range cats {
		total += c.Count
	}

	out := make([]models.Category, 0, len(cats)+1)
	out = append(out, models.Category{Name: models.AllCategories, Count: total})
	return append(out, cats...), nil
}

// ListItems - страница товаров категории ("All"/"" - все товары), сортировка по id.
//
// Валидация:
//   - page >= 0, иначе ErrInvalidArgument;
//   - pageSize <= 0 -> limits.default, сверху ограничивается limits.max.
//
// Страница за пределами выборки - пустой срез, не ошибка. Если page*pageSize
// не помещается в int64, хранилище не вызывается.
func (s *Service) ListItems(ctx context.Context, category string, page, pageSize int64) ([]models.Item, error) {
	const op = "service/catalog/ListItems"

	category = normalizeCategory(category)
	lg := log.Op(ctx, op, "category", category, "page", page)

	p, err := s.pageParams(page, pageSize)
	if err != nil {
		lg.Warn("invalid argument", "err", err)
		return nil, fmt.Errorf("%s: %w: %v", op, ErrInvalidArgument, err)
	}

	if p.OutOfRange() {
		return []models.Item{}, nil
	}

	items, err := s.storage.ListItems(ctx, category, p)
	if err != nil {
		return nil, unavailable(op, lg, err)
	}

	return items, nil
}

// CountItems - число товаров категории ("All"/"" - все товары).
func (s *Service) CountItems(ctx context.Context, category string) (int64, error) {
	const op = "service/catalog/CountItems"

	category = normalizeCategory(category)
	lg := log.Op(ctx, op, "category", category)

	return s.cachedCount(ctx, lg, "items:"+category, func() (int64, error) {
		n, err := s.storage.CountItems(ctx, category)
		if err != nil {
			return 0, unavailable(op, lg, err)
		}
		return n, nil
	})
}

// SearchItems - страница полнотекстового поиска, сортировка по id.
// Пустой (после TrimSpace) запрос даёт пустую выдачу без обращения к хранилищу.
func (s *Service) SearchItems(ctx context.Context, query string, page, pageSize int64) ([]models.Item, error) {
	const op = "service/catalog/SearchItems"

	query = strings.TrimSpace(query)
	lg := log.Op(ctx, op, "query", query, "page", page)

	p, err := s.pageParams(page, pageSize)
	if err != nil {
		lg.Warn("invalid argument", "err", err)
		return nil, fmt.Errorf("%s: %w: %v", op, ErrInvalidArgument, err)
	}

	if query == "" || p.OutOfRange() {
		return []models.Item{}, nil
	}

	items, err := s.storage.SearchItems(ctx, query, p)
	if err != nil {
		return nil, unavailable(op, lg, err)
	}

	return items, nil
}

// CountSearchItems - число результатов полнотекстового поиска; пустой запрос - 0.
func (s *Service) CountSearchItems(ctx context.Context, query string) (int64, error) {
	const op = "service/catalog/CountSearchItems"

	query = strings.TrimSpace(query)
	if query == "" {
		return 0, nil
	}

	lg := log.Op(ctx, op, "query", query)

	return s.cachedCount(ctx, lg, "search:"+query, func() (int64, error) {
		n, err := s.storage.CountSearchItems(ctx, query)
		if err != nil {
			return 0, unavailable(op, lg, err)
		}
		return n, nil
	})
}

// GetItem - товар по идентификатору.
//
// Поведение:
//   - товар найден - (item, false, nil);
//   - товара нет и catalog.fallback_to_sample - (models.SampleItem(), true, nil);
//   - товара нет и fallback выключен - ErrNotFound;
//   - прочие ошибки стораджа - ErrUnavailable.
func (s *Service) GetItem(ctx context.Context, id int64) (*models.Item, bool, error) {
	const op = "service/catalog/GetItem"
	lg := log.Op(ctx, op, "id", id)

	item, err := s.storage.ItemByID(ctx, id)
	if err == nil {
		return item, false, nil
	}

	if !errors.Is(err, storage.ErrNotFound) {
		return nil, false, unavailable(op, lg, err)
	}

	if !s.cfg.Catalog.FallbackToSample {
		lg.Warn("item not found")
		return nil, false, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	lg.Warn("item not found, serving sample item")
	return models.SampleItem(), true, nil
}

// ListRelated - до limit произвольных товаров для блока «похожие».
// limit <= 0 -> limits.related; сверху ограничивается limits.max.
func (s *Service) ListRelated(ctx context.Context, limit int64) ([]models.Item, error) {
	const op = "service/catalog/ListRelated"
	lg := log.Op(ctx, op, "limit", limit)

	if limit <= 0 {
		limit = s.cfg.Limits.Related
	}

	if limit > s.cfg.Limits.Max {
		limit = s.cfg.Limits.Max
	}

	items, err := s.storage.RelatedItems(ctx, limit)
	if err != nil {
		return nil, unavailable(op, lg, err)
	}

	return items, nil
}

// AddReview - дописывает отзыв к товару; дата выставляется сервером.
//
// Валидация (после TrimSpace): name 1..100 символов, comment 1..2000, stars 1..5.
// Дата округляется вверх до миллисекунд: так её хранит MongoDB.
//
// Поведение/ошибки:
//   - товар не найден - ReviewResult{Applied: false}, ошибки нет;
//   - ErrInvalidArgument - не прошла валидация;
//   - ErrUnavailable - иные ошибки стораджа.
func (s *Service) AddReview(ctx context.Context, in AddReviewInput) (*models.ReviewResult, error) {
	const op = "service/catalog/AddReview"

	in.Name = strings.TrimSpace(in.Name)
	in.Comment = strings.TrimSpace(in.Comment)
	lg := log.Op(ctx, op, "item_id", in.ItemID)

	if err := s.validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			lg.Warn("invalid argument", "fields", validationFields(verrs))
		}
		return nil, fmt.Errorf("%s: %w: %v", op, ErrInvalidArgument, err)
	}

	review := models.Review{
		Name:    in.Name,
		Comment: in.Comment,
		Stars:   in.Stars,
		Date:    models.ReviewTime(s.now()),
	}

	applied, err := s.storage.AddReview(ctx, in.ItemID, review)
	if err != nil {
		return nil, unavailable(op, lg, err)
	}

	if !applied {
		lg.Warn("review not applied: item not found")
	}

	return &models.ReviewResult{Applied: applied, Review: review}, nil
}

// validationFields - список полей, не прошедших валидацию, для лога.
func validationFields(verrs validator.ValidationErrors) []string {
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fe.Field()+":"+fe.Tag())
	}
	return out
}

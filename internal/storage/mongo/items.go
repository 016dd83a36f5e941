package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pribylovaa/catalog-service/internal/metrics"
	"github.com/pribylovaa/catalog-service/internal/models"
	"github.com/pribylovaa/catalog-service/internal/storage"

	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// countResult - единственный документ, который возвращают count-конвейеры.
type countResult struct {
	NumItems int64 `bson:"numItems"`
}

// unavailable оборачивает ошибку драйвера в storage.ErrUnavailable, сохраняя исходную причину.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, storage.ErrUnavailable, err)
}

// aggregate выполняет конвейер и декодирует все документы в []T.
// Пустой результат - пустой (не nil) срез.
func aggregate[T any](ctx context.Context, coll *mongodriver.Collection, pipe mongodriver.Pipeline) ([]T, error) {
	cur, err := coll.Aggregate(ctx, pipe)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]T, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}

	return out, nil
}

// count выполняет count-конвейер. Отсутствие групп означает 0.
func (m *Mongo) count(ctx context.Context, op string, pipe mongodriver.Pipeline) (n int64, err error) {
	defer func(start time.Time) { metrics.ObserveStore(op, start, err) }(time.Now())

	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	res, err := aggregate[countResult](ctx, m.items, pipe)
	if err != nil {
		return 0, unavailable(op, err)
	}

	if len(res) == 0 {
		return 0, nil
	}

	return res[0].NumItems, nil
}

// Categories возвращает фасеты по category, отсортированные по имени.
func (m *Mongo) Categories(ctx context.Context) (out []models.Category, err error) {
	const op = "storage/mongo/Categories"
	defer func(start time.Time) { metrics.ObserveStore(op, start, err) }(time.Now())

	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	out, err = aggregate[models.Category](ctx, m.items, categoriesPipeline())
	if err != nil {
		return nil, unavailable(op, err)
	}

	return out, nil
}

// ListItems возвращает страницу товаров категории (_id ASC).
func (m *Mongo) ListItems(ctx context.Context, category string, p models.PageParams) (out []models.Item, err error) {
	const op = "storage/mongo/ListItems"
	defer func(start time.Time) { metrics.ObserveStore(op, start, err) }(time.Now())

	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	out, err = aggregate[models.Item](ctx, m.items, itemsPipeline(category, p))
	if err != nil {
		return nil, unavailable(op, err)
	}

	return out, nil
}

// CountItems возвращает число товаров категории.
func (m *Mongo) CountItems(ctx context.Context, category string) (int64, error) {
	return m.count(ctx, "storage/mongo/CountItems", countItemsPipeline(category))
}

// SearchItems - страница результатов $text-поиска (_id ASC).
func (m *Mongo) SearchItems(ctx context.Context, query string, p models.PageParams) (out []models.Item, err error) {
	const op = "storage/mongo/SearchItems"
	defer func(start time.Time) { metrics.ObserveStore(op, start, err) }(time.Now())

	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	out, err = aggregate[models.Item](ctx, m.items, searchPipeline(query, p))
	if err != nil {
		return nil, unavailable(op, err)
	}

	return out, nil
}

// CountSearchItems - число результатов $text-поиска.
func (m *Mongo) CountSearchItems(ctx context.Context, query string) (int64, error) {
	return m.count(ctx, "storage/mongo/CountSearchItems", countSearchPipeline(query))
}

// ItemByID возвращает товар по _id.
// Если запись не найдена - storage.ErrNotFound.
func (m *Mongo) ItemByID(ctx context.Context, id int64) (_ *models.Item, err error) {
	const op = "storage/mongo/ItemByID"
	defer func(start time.Time) {
		// Отсутствие записи - штатный исход, а не сбой хранилища.
		if errors.Is(err, storage.ErrNotFound) {
			metrics.ObserveStore(op, start, nil)
			return
		}
		metrics.ObserveStore(op, start, err)
	}(time.Now())

	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	var out models.Item
	if err := m.items.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&out); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, unavailable(op, err)
	}

	return &out, nil
}

// RelatedItems возвращает до limit товаров без сортировки.
func (m *Mongo) RelatedItems(ctx context.Context, limit int64) (out []models.Item, err error) {
	const op = "storage/mongo/RelatedItems"
	defer func(start time.Time) { metrics.ObserveStore(op, start, err) }(time.Now())

	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	cur, err := m.items.Find(ctx, bson.D{}, options.Find().SetLimit(limit))
	if err != nil {
		return nil, unavailable(op, err)
	}
	defer cur.Close(ctx)

	out = make([]models.Item, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, unavailable(op, err)
	}

	return out, nil
}

// AddReview дописывает отзыв в конец массива reviews ($push атомарен в пределах документа).
// Возвращает false, если товар с таким _id не найден; upsert не выполняется.
func (m *Mongo) AddReview(ctx context.Context, itemID int64, review models.Review) (_ bool, err error) {
	const op = "storage/mongo/AddReview"
	defer func(start time.Time) { metrics.ObserveStore(op, start, err) }(time.Now())

	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	// MongoDB DateTime хранит миллисекунды.
	review.Date = models.ReviewTime(review.Date)

	res, err := m.items.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: itemID}},
		bson.D{{Key: "$push", Value: bson.D{{Key: "reviews", Value: review}}}},
	)
	if err != nil {
		return false, unavailable(op, err)
	}

	return res.MatchedCount > 0, nil
}

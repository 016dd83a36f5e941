// Package models содержит доменные сущности catalog-сервиса.
package models

import (
	"math"
	"time"
)

// AllCategories - синтетическая категория «все товары». В хранилище не существует.
const AllCategories = "All"

// Item - товар каталога (документ коллекции item в MongoDB).
// Важно:
//   - ID - целочисленный _id; единственный ключ сортировки и пагинации;
//   - Category - ровно одно скалярное значение;
//   - StarRating - агрегат из документа, сервис его не пересчитывает;
//   - Reviews - только дописываются в конец ($push).
type Item struct {
	ID          int64    `bson:"_id"`
	Title       string   `bson:"title"`
	Description string   `bson:"description"`
	Slogan      string   `bson:"slogan"`
	Category    string   `bson:"category"`
	Price       float64  `bson:"price"`
	ImageURL    string   `bson:"img_url"`
	StarRating  float64  `bson:"stars"`
	Reviews     []Review `bson:"reviews,omitempty"`
}

// Review - отзыв, встроенный в Item. Date выставляет сервер в момент добавления.
type Review struct {
	Name    string    `bson:"name"`
	Comment string    `bson:"comment"`
	Stars   int32     `bson:"stars"`
	Date    time.Time `bson:"date"`
}

// Category - фасет: имя категории и число товаров в ней.
type Category struct {
	Name  string `bson:"_id"`
	Count int64  `bson:"num"`
}

// PageParams - параметры постраничной выдачи. Page нумеруется с нуля.
type PageParams struct {
	Page     int64
	PageSize int64
}

// Skip - количество пропускаемых записей. При переполнении int64 - math.MaxInt64.
func (p PageParams) Skip() int64 {
	if p.OutOfRange() {
		return math.MaxInt64
	}
	return p.Page * p.PageSize
}

// OutOfRange сообщает, что Page*PageSize не помещается в int64.
// Такая страница заведомо за концом выборки.
func (p PageParams) OutOfRange() bool {
	return p.PageSize > 0 && p.Page > math.MaxInt64/p.PageSize
}

// ReviewTime приводит момент к точности BSON datetime (миллисекунды) в UTC,
// округляя вверх: результат не раньше t.
func ReviewTime(t time.Time) time.Time {
	t = t.UTC().Round(0)
	ms := t.Truncate(time.Millisecond)
	if ms.Before(t) {
		ms = ms.Add(time.Millisecond)
	}
	return ms
}

// ReviewResult - итог добавления отзыва.
// Applied=false означает, что товар с таким ID не найден и ничего не изменилось.
type ReviewResult struct {
	Applied bool
	Review  Review
}

// SampleItem возвращает демонстрационный товар, который отдаётся вместо отсутствующего.
// Каждый вызов создаёт новое значение.
func SampleItem() *Item {
	return &Item{
		ID:          1,
		Title:       "Gray Hooded Sweatshirt",
		Description: "The top hooded sweatshirt we offer",
		Slogan:      "Made of 100% cotton",
		Category:    "Apparel",
		Price:       29.99,
		ImageURL:    "/img/products/hoodie.jpg",
		StarRating:  0,
		Reviews:     []Review{},
	}
}

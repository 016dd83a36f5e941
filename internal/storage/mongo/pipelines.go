package mongo

import (
	"strings"

	"github.com/pribylovaa/catalog-service/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
)

// Построители aggregation-конвейеров. Чистые функции: не ходят в БД.
// Порядок стадий: $match -> $group -> $project -> $sort -> $skip -> $limit.

// allCategories - пустая категория и "All" означают выборку без фильтра.
func allCategories(category string) bool {
	c := strings.TrimSpace(category)
	return c == "" || c == models.AllCategories
}

func sortByID() bson.D {
	return bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}}
}

func textMatch(query string) bson.D {
	return bson.D{{Key: "$match", Value: bson.D{
		{Key: "$text", Value: bson.D{{Key: "$search", Value: query}}},
	}}}
}

// countStages сворачивает поток документов в один {numItems: N}.
// На пустом входе $group не порождает ни одного документа.
func countStages() []bson.D {
	return []bson.D{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "numItems", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$project", Value: bson.D{{Key: "_id", Value: 0}, {Key: "numItems", Value: 1}}}},
	}
}

func pageStages(p models.PageParams) []bson.D {
	return []bson.D{
		{{Key: "$skip", Value: p.Skip()}},
		{{Key: "$limit", Value: p.PageSize}},
	}
}

// categoriesPipeline - фасеты {_id: category, num: N}, отсортированные по имени.
func categoriesPipeline() mongodriver.Pipeline {
	return mongodriver.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$category"},
			{Key: "num", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$project", Value: bson.D{{Key: "_id", Value: 1}, {Key: "num", Value: 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
}

// categoryMatch - $match по категории или nil для выборки без фильтра.
func categoryMatch(category string) bson.D {
	if allCategories(category) {
		return nil
	}

	return bson.D{{Key: "$match", Value: bson.D{{Key: "category", Value: strings.TrimSpace(category)}}}}
}

func itemsPipeline(category string, p models.PageParams) mongodriver.Pipeline {
	pipe := mongodriver.Pipeline{}
	if m := categoryMatch(category); m != nil {
		pipe = append(pipe, m)
	}

	pipe = append(pipe, sortByID())
	return append(pipe, pageStages(p)...)
}

func countItemsPipeline(category string) mongodriver.Pipeline {
	pipe := mongodriver.Pipeline{}
	if m := categoryMatch(category); m != nil {
		pipe = append(pipe, m)
	}

	return append(pipe, countStages()...)
}

// searchPipeline - $text-поиск; релевантность считает MongoDB, но выдача
// сортируется по _id, чтобы страницы были стабильны между вызовами.
func searchPipeline(query string, p models.PageParams) mongodriver.Pipeline {
	pipe := mongodriver.Pipeline{textMatch(query), sortByID()}
	return append(pipe, pageStages(p)...)
}

func countSearchPipeline(query string) mongodriver.Pipeline {
	pipe := mongodriver.Pipeline{textMatch(query)}
	return append(pipe, countStages()...)
}

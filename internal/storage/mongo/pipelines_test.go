package mongo

import (
	"testing"

	"github.com/pribylovaa/catalog-service/internal/models"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
)

// stageNames - ключи стадий конвейера по порядку.
func stageNames(p mongodriver.Pipeline) []string {
	out := make([]string, 0, len(p))
	for _, st := range p {
		out = append(out, st[0].Key)
	}
	return out
}

func TestAllCategories(t *testing.T) {
	require.True(t, allCategories(""))
	require.True(t, allCategories("All"))
	require.True(t, allCategories("  All "))
	require.False(t, allCategories("all"))
	require.False(t, allCategories("Apparel"))
}

func TestCategoriesPipeline(t *testing.T) {
	p := categoriesPipeline()
	require.Equal(t, []string{"$group", "$project", "$sort"}, stageNames(p))
	require.Equal(t, bson.D{
		{Key: "_id", Value: "$category"},
		{Key: "num", Value: bson.D{{Key: "$sum", Value: 1}}},
	}, p[0][0].Value)
	require.Equal(t, bson.D{{Key: "_id", Value: 1}}, p[2][0].Value)
}

func TestItemsPipeline_AllHasNoMatch(t *testing.T) {
	for _, c := range []string{"All", ""} {
		p := itemsPipeline(c, models.PageParams{Page: 2, PageSize: 5})
		require.Equal(t, []string{"$sort", "$skip", "$limit"}, stageNames(p), "category %q", c)
		require.Equal(t, int64(10), p[1][0].Value)
		require.Equal(t, int64(5), p[2][0].Value)
	}
}

func TestItemsPipeline_CategoryMatch(t *testing.T) {
	p := itemsPipeline(" Apparel ", models.PageParams{Page: 0, PageSize: 3})
	require.Equal(t, []string{"$match", "$sort", "$skip", "$limit"}, stageNames(p))
	require.Equal(t, bson.D{{Key: "category", Value: "Apparel"}}, p[0][0].Value)
	require.Equal(t, bson.D{{Key: "_id", Value: 1}}, p[1][0].Value)
	require.Equal(t, int64(0), p[2][0].Value)
	require.Equal(t, int64(3), p[3][0].Value)
}

func TestCountItemsPipeline(t *testing.T) {
	require.Equal(t, []string{"$group", "$project"}, stageNames(countItemsPipeline("All")))
	require.Equal(t, []string{"$match", "$group", "$project"}, stageNames(countItemsPipeline("Books")))

	group := countItemsPipeline("")[0][0].Value.(bson.D)
	require.Equal(t, "_id", group[0].Key)
	require.Nil(t, group[0].Value)
}

func TestSearchPipelines(t *testing.T) {
	p := searchPipeline("leaf", models.PageParams{Page: 1, PageSize: 4})
	require.Equal(t, []string{"$match", "$sort", "$skip", "$limit"}, stageNames(p))
	require.Equal(t, bson.D{
		{Key: "$text", Value: bson.D{{Key: "$search", Value: "leaf"}}},
	}, p[0][0].Value)
	require.Equal(t, int64(4), p[2][0].Value)

	c := countSearchPipeline("leaf")
	require.Equal(t, []string{"$match", "$group", "$project"}, stageNames(c))
}

func TestDatabaseFromURI(t *testing.T) {
	require.Equal(t, "shop", databaseFromURI("mongodb://localhost:27017/shop"))
	require.Equal(t, "shop", databaseFromURI("mongodb://u:p@h:1/shop?replicaSet=rs0"))
	require.Equal(t, defaultDBName, databaseFromURI("mongodb://localhost:27017"))
	require.Equal(t, defaultDBName, databaseFromURI("::bad::"))
}

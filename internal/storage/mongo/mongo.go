package mongo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/pribylovaa/catalog-service/internal/config"
	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const defaultDBName = "mongomart"

// Коды ошибок createIndexes, когда индекс с тем же назначением уже создан иначе
// (например, текстовый индекс заведён вручную под другим именем).
const (
	codeIndexOptionsConflict  = 85
	codeIndexKeySpecsConflict = 86
)

// Mongo - тонкий адаптер для подключения и коллекции товаров MongoDB.
type Mongo struct {
	cfg    *config.Config
	client *mongodriver.Client
	db     *mongodriver.Database
	items  *mongodriver.Collection
}

// New подключается к MongoDB, проверяет его, подготавливает коллекцию и обеспечивает индексацию.
func New(ctx context.Context, cfg *config.Config) (*Mongo, error) {
	if cfg == nil {
		return nil, fmt.Errorf("mongo: nil config")
	}

	if cfg.DB.URL == "" {
		return nil, fmt.Errorf("mongo: empty cfg.DB.URL")
	}

	cli, err := mongodriver.Connect(ctx, options.Client().ApplyURI(cfg.DB.URL))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := cli.Ping(ctx, readpref.Primary()); err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	collection := cfg.DB.Collection
	if collection == "" {
		collection = "item"
	}

	db := cli.Database(databaseFromURI(cfg.DB.URL))

	m := &Mongo{
		cfg:    cfg,
		client: cli,
		db:     db,
		items:  db.Collection(collection),
	}

	if err := m.ensureIndexes(ctx); err != nil {
		_ = m.Close(ctx)
		return nil, err
	}

	return m, nil
}

// Close отключает клиента.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// Ping проверяет доступность primary (используется readiness-пробой).
func (m *Mongo) Ping(ctx context.Context) error {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	return m.client.Ping(ctx, readpref.Primary())
}

// ensureIndexes создает индексы, необходимые каталогу.
// - текстовый индекс по title/slogan/description для $text;
// - category + _id для выдачи категории с сортировкой по _id.
func (m *Mongo) ensureIndexes(ctx context.Context) error {
	models := []mongodriver.IndexModel{
		{
			Keys: bson.D{
				{Key: "title", Value: "text"},
				{Key: "slogan", Value: "text"},
				{Key: "description", Value: "text"},
			},
			Options: options.Index().SetName("item_text"),
		},
		{
			Keys:    bson.D{{Key: "category", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("category_id"),
		},
	}

	_, err := m.items.Indexes().CreateMany(ctx, models)
	if err != nil {
		var cmdErr mongodriver.CommandError
		if errors.As(err, &cmdErr) &&
			(cmdErr.Code == codeIndexOptionsConflict || cmdErr.Code == codeIndexKeySpecsConflict) {
			return nil
		}

		return fmt.Errorf("mongo ensure indexes: %w", err)
	}

	return nil
}

// withTimeout навешивает дедлайн одного запроса к хранилищу (cfg.DB.Timeout).
// Более ранний дедлайн вызывающего сохраняется.
func (m *Mongo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.cfg == nil || m.cfg.DB.Timeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, m.cfg.DB.Timeout)
}

// databaseFromURI извлекает имя базы данных из URI-пути mongodb.
// Если оно отсутствует или не поддается расшифровке, возвращает значение по умолчанию.
func databaseFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err == nil {
		if name := strings.Trim(u.Path, "/"); name != "" {
			return name
		}
	}
	return defaultDBName
}

// Package repository содержит реализацию доступа к данным в Firebase Realtime Database.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"google.golang.org/api/option"
)

// ErrNotFound возвращается, если документ по прямому ключу отсутствует.
var (
	ErrNotFound = errors.New("document not found")
	// ErrInvalidQuery возвращается при некорректных параметрах индексированного запроса.
	ErrInvalidQuery = errors.New("invalid query parameters")
)

// Query описывает параметры индексированного запроса к поддереву.
// OrderBy — имя индексируемого поля; остальные модификаторы опциональны.
type Query struct {
	OrderBy     string
	LimitToLast int
	StartAt     any
	EqualTo     any
}

// Snapshot — один документ из результата индексированного запроса.
// Data сохраняет исходную форму значения: проверка того, что документ
// является объектом, выполняется потребителем.
type Snapshot struct {
	Key  string
	Data any
}

// FirebaseRepository предоставляет доступ к дереву документов Realtime Database.
// Клиент создаётся один раз на процесс и переиспользуется всеми операциями.
type FirebaseRepository struct {
	client *db.Client
}

// NewFirebaseRepository создаёт клиент Realtime Database по URL базы
// и JSON сервисного аккаунта.
func NewFirebaseRepository(ctx context.Context, databaseURL string, credentialsJSON []byte) (*FirebaseRepository, error) {
	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	app, err := firebase.NewApp(initCtx,
		&firebase.Config{DatabaseURL: databaseURL},
		option.WithCredentialsJSON(credentialsJSON),
	)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}

	client, err := app.Database(initCtx)
	if err != nil {
		return nil, fmt.Errorf("initialize database client: %w", err)
	}

	return &FirebaseRepository{client: client}, nil
}

// Close освобождает ресурсы репозитория.
// Клиент Realtime Database не держит соединений, требующих закрытия,
// метод оставлен для симметрии жизненного цикла в main.
func (r *FirebaseRepository) Close() error {
	return nil
}

// GetSubtree возвращает все документы поддерева path одним чтением.
// Отсутствующее поддерево возвращается как пустая карта.
func (r *FirebaseRepository) GetSubtree(ctx context.Context, path string) (map[string]any, error) {
	var data map[string]any
	if err := r.client.NewRef(path).Get(ctx, &data); err != nil {
		return nil, fmt.Errorf("get subtree %q: %w", path, err)
	}
	return data, nil
}

// GetChild возвращает один документ поддерева path по ключу key.
func (r *FirebaseRepository) GetChild(ctx context.Context, path, key string) (map[string]any, error) {
	var data map[string]any
	if err := r.client.NewRef(path).Child(key).Get(ctx, &data); err != nil {
		return nil, fmt.Errorf("get child %q/%q: %w", path, key, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, path, key)
	}
	return data, nil
}

// QueryOrdered выполняет индексированный запрос к поддереву path.
// Результат возвращается в порядке, заданном сервером хранилища.
// Доступность запроса зависит от конфигурации индексов базы: при её
// отсутствии сервер отвечает ошибкой, которую вызывающий обрабатывает
// переходом на полное сканирование.
func (r *FirebaseRepository) QueryOrdered(ctx context.Context, path string, q Query) ([]Snapshot, error) {
	if q.OrderBy == "" {
		return nil, fmt.Errorf("%w: empty order-by field", ErrInvalidQuery)
	}
	if q.LimitToLast < 0 {
		return nil, fmt.Errorf("%w: negative limit", ErrInvalidQuery)
	}

	query := r.client.NewRef(path).OrderByChild(q.OrderBy)
	if q.LimitToLast > 0 {
		query = query.LimitToLast(q.LimitToLast)
	}
	if q.StartAt != nil {
		query = query.StartAt(q.StartAt)
	}
	if q.EqualTo != nil {
		query = query.EqualTo(q.EqualTo)
	}

	nodes, err := query.GetOrdered(ctx)
	if err != nil {
		return nil, fmt.Errorf("query %q by %q: %w", path, q.OrderBy, err)
	}

	snapshots := make([]Snapshot, 0, len(nodes))
	for _, node := range nodes {
		var value any
		if err := node.Unmarshal(&value); err != nil {
			return nil, fmt.Errorf("unmarshal node %q: %w", node.Key(), err)
		}
		snapshots = append(snapshots, Snapshot{Key: node.Key(), Data: value})
	}

	return snapshots, nil
}

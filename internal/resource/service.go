package resource

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Veraticus/fintrack/internal/model"
)

// Base paths of the backend collections.
const (
	CategoriesPath = "/categories"
	EntriesPath    = "/entries"
)

// ErrMissingID is returned when Update is called with an unpersisted draft.
var ErrMissingID = errors.New("record has no id")

// Service performs CRUD calls for one entity type against one collection.
// Each call returns exactly one value or one error and never retries.
type Service[E model.Record] struct {
	client   *Client
	basePath string
}

// NewService creates a service for the collection at basePath.
func NewService[E model.Record](client *Client, basePath string) *Service[E] {
	return &Service[E]{client: client, basePath: basePath}
}

// NewCategoryService returns the service for /categories.
func NewCategoryService(client *Client) *Service[model.Category] {
	return NewService[model.Category](client, CategoriesPath)
}

// NewEntryService returns the service for /entries.
func NewEntryService(client *Client) *Service[model.Entry] {
	return NewService[model.Entry](client, EntriesPath)
}

// BasePath returns the collection path, e.g. "/categories".
func (s *Service[E]) BasePath() string {
	return s.basePath
}

// GetAll fetches the whole collection in backend order.
func (s *Service[E]) GetAll(ctx context.Context) ([]E, error) {
	var out []E
	if err := s.client.Do(ctx, http.MethodGet, s.basePath, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []E{}
	}
	return out, nil
}

// GetByID fetches one record.
func (s *Service[E]) GetByID(ctx context.Context, id int) (E, error) {
	var out E
	if err := s.client.Do(ctx, http.MethodGet, s.itemPath(id), nil, &out); err != nil {
		var zero E
		return zero, err
	}
	return out, nil
}

// Create persists a draft and returns it with its server-assigned id.
func (s *Service[E]) Create(ctx context.Context, draft E) (E, error) {
	var out E
	if err := s.client.Do(ctx, http.MethodPost, s.basePath, draft, &out); err != nil {
		var zero E
		return zero, err
	}
	return out, nil
}

// Update replaces the record identified by the draft's id.
func (s *Service[E]) Update(ctx context.Context, draft E) (E, error) {
	var out E
	id, ok := draft.RecordID()
	if !ok {
		return out, fmt.Errorf("update %s: %w", s.basePath, ErrMissingID)
	}
	if err := s.client.Do(ctx, http.MethodPut, s.itemPath(id), draft, &out); err != nil {
		var zero E
		return zero, err
	}
	return out, nil
}

// Delete removes the record with the given id.
func (s *Service[E]) Delete(ctx context.Context, id int) error {
	return s.client.Do(ctx, http.MethodDelete, s.itemPath(id), nil, nil)
}

func (s *Service[E]) itemPath(id int) string {
	return s.basePath + "/" + strconv.Itoa(id)
}

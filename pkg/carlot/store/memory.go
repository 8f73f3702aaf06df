package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/nekruzvatanshoev/carlot/pkg/carlot/dal"
)

// MemoryRepository keeps records in process memory. Records are lost on
// restart.
type MemoryRepository struct {
	mu    sync.RWMutex
	cars  []dal.Car
	index map[string]int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{index: make(map[string]int)}
}

func (r *MemoryRepository) Create(ctx context.Context, car dal.Car) (dal.Car, error) {
	if err := ctx.Err(); err != nil {
		return dal.Car{}, err
	}
	id, err := generateID()
	if err != nil {
		return dal.Car{}, err
	}
	car.ID = id

	r.mu.Lock()
	defer r.mu.Unlock()
	r.index[id] = len(r.cars)
	r.cars = append(r.cars, car)
	return car, nil
}

func (r *MemoryRepository) FindAll(ctx context.Context, filter Filter) ([]dal.Car, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if filter.IsEmpty() {
		return append(make([]dal.Car, 0, len(r.cars)), r.cars...), nil
	}
	out := make([]dal.Car, 0, len(r.cars))
	for _, c := range r.cars {
		if filter.Matches(c) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *MemoryRepository) FindByID(ctx context.Context, id string) (*dal.Car, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.index[id]
	if !ok {
		return nil, nil
	}
	car := r.cars[i]
	return &car, nil
}

func (r *MemoryRepository) UpdateByID(ctx context.Context, id string, update Update) (*dal.Car, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.index[id]
	if !ok {
		return nil, nil
	}
	car := r.cars[i]
	if update.ActiveOnly && car.IsDeleted {
		return nil, nil
	}
	if update.Car != nil {
		deleted := car.IsDeleted
		car = *update.Car
		car.ID = id
		car.IsDeleted = deleted
	}
	if update.IsDeleted != nil {
		car.IsDeleted = *update.IsDeleted
	}
	r.cars[i] = car
	return &car, nil
}

func (r *MemoryRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (r *MemoryRepository) Close(ctx context.Context) error {
	return nil
}

func generateID() (string, error) {
	bytes := make([]byte, 12)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

var _ Repository = (*MemoryRepository)(nil)

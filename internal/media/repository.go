package media

import (
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/samber/lo"
)

// Repository defines the concurrency-safe contract for reading and mutating
// media items.
type Repository interface {
	// List returns items newest first. An empty category returns every item.
	List(category Category) []Item

	// Get returns the item with the given id or ErrNotFound.
	Get(id string) (Item, error)

	// Create assigns an id and creation time and stores the item.
	Create(it Item) (Item, error)

	// Update applies a partial update and returns the stored result.
	Update(id string, p Patch) (Item, error)

	// Delete removes the item and returns what was removed.
	Delete(id string) (Item, error)

	// Count returns the number of stored items. Used for metrics.
	Count() int
}

// StoreRepository is a concurrency-safe Repository on top of a Store.
// Ids are decimal strings handed out in increasing order, like an
// auto-increment column.
type StoreRepository struct {
	mu     sync.RWMutex
	store  Store
	nextID int64
	now    func() time.Time
}

// NewInMemoryRepository constructs a repository with a default in-memory store.
func NewInMemoryRepository() *StoreRepository {
	return NewRepositoryWithStore(NewInMemoryStore())
}

// NewRepositoryWithStore constructs a repository that uses the given Store.
// Id allocation resumes after the largest numeric id already in the store.
func NewRepositoryWithStore(store Store) *StoreRepository {
	var maxID int64
	for _, it := range store.List() {
		if n, err := strconv.ParseInt(it.ID, 10, 64); err == nil && n > maxID {
			maxID = n
		}
	}
	return &StoreRepository{
		store:  store,
		nextID: maxID + 1,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// List implements Repository.List.
func (r *StoreRepository) List(category Category) []Item {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.store.List()
	if category != "" {
		items = lo.Filter(items, func(it Item, _ int) bool { return it.Category == category })
	}
	return sortNewestFirst(items)
}

// Get implements Repository.Get.
func (r *StoreRepository) Get(id string) (Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	it, ok := r.store.Get(id)
	if !ok {
		return Item{}, ErrNotFound
	}
	return it, nil
}

// Create implements Repository.Create.
func (r *StoreRepository) Create(it Item) (Item, error) {
	if err := it.Validate(); err != nil {
		return Item{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	it.ID = strconv.FormatInt(r.nextID, 10)
	it.CreatedAt = r.now()
	if err := r.store.Put(it); err != nil {
		return Item{}, err
	}
	r.nextID++
	return it, nil
}

// Update implements Repository.Update.
func (r *StoreRepository) Update(id string, p Patch) (Item, error) {
	if p.Empty() {
		return Item{}, ErrEmptyPatch
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.store.Get(id)
	if !ok {
		return Item{}, ErrNotFound
	}
	next, err := p.Apply(cur)
	if err != nil {
		return Item{}, err
	}
	if err := r.store.Put(next); err != nil {
		return Item{}, err
	}
	return next, nil
}

// Delete implements Repository.Delete.
func (r *StoreRepository) Delete(id string) (Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	it, ok := r.store.Get(id)
	if !ok {
		return Item{}, ErrNotFound
	}
	if err := r.store.Delete(id); err != nil {
		return Item{}, err
	}
	return it, nil
}

// Count implements Repository.Count.
func (r *StoreRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.store.List())
}

// sortNewestFirst orders by creation time descending, then by id descending so
// items created in the same instant keep insertion order reversed.
func sortNewestFirst(items []Item) []Item {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return idLess(items[j].ID, items[i].ID)
	})
	return items
}

func idLess(a, b string) bool {
	na, errA := strconv.ParseInt(a, 10, 64)
	nb, errB := strconv.ParseInt(b, 10, 64)
	if errA == nil && errB == nil {
		return na < nb
	}
	return a < b
}

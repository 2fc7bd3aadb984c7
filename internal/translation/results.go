package translation

import "sync"

// resultSet collects per-id results written concurrently by pool workers
type resultSet[T any] struct {
	mu      sync.Mutex
	results map[int]T
}

func newResultSet[T any](size int) *resultSet[T] {
	return &resultSet[T]{results: make(map[int]T, size)}
}

// Add stores the result of one id
func (rs *resultSet[T]) Add(id int, result T) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.results[id] = result
}

// GetAll returns a copy of all results
func (rs *resultSet[T]) GetAll() map[int]T {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	result := make(map[int]T, len(rs.results))
	for k, v := range rs.results {
		result[k] = v
	}
	return result
}

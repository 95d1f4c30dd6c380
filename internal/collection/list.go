// Package collection содержит упорядоченный контейнер с защитным копированием.
// Внешний код получает только копии содержимого и не может изменить
// внутреннее состояние списка через алиасинг.
package collection

import (
	"iter"
	"reflect"
	"slices"
	"sync"
)

// EqualFunc задаёт понятие равенства элементов (обычно по идентификатору или бизнес-ключу).
type EqualFunc[T any] func(a, b T) bool

// List — упорядоченная последовательность элементов T. Порядок вставки значим,
// дубликаты допускаются. Мутации взаимно исключают друг друга и Snapshot;
// несколько Snapshot могут выполняться параллельно.
type List[T any] struct {
	mu    sync.RWMutex
	items []T
	equal EqualFunc[T]
}

// New создаёт список с заданным равенством и начальными элементами.
// При equal == nil элементы сравниваются через reflect.DeepEqual.
// Nil-элементы из items отбрасываются так же, как в Add.
func New[T any](equal EqualFunc[T], items ...T) *List[T] {
	l := &List[T]{
		items: make([]T, 0, len(items)),
		equal: equal,
	}
	for _, item := range items {
		if !isNil(item) {
			l.items = append(l.items, item)
		}
	}
	return l
}

// Add добавляет элемент в конец. Отсутствующий (nil) элемент отклоняется.
func (l *List[T]) Add(item T) bool {
	if isNil(item) {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	l.items = append(l.items, item)
	return true
}

// Remove удаляет первое вхождение элемента. Возвращает false, если элемента нет.
func (l *List[T]) Remove(item T) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.indexOfLocked(item)
	if idx < 0 {
		return false
	}
	l.items = slices.Delete(l.items, idx, idx+1)
	return true
}

// RemoveAt удаляет элемент по индексу и возвращает его.
// Выход за границы даёт ok == false без паники.
func (l *List[T]) RemoveAt(index int) (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var zero T
	if index < 0 || index >= len(l.items) {
		return zero, false
	}
	removed := l.items[index]
	l.items = slices.Delete(l.items, index, index+1)
	return removed, true
}

// Update заменяет элемент по индексу и возвращает предыдущее значение.
func (l *List[T]) Update(item T, index int) (T, bool) {
	var zero T
	if isNil(item) {
		return zero, false
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if index < 0 || index >= len(l.items) {
		return zero, false
	}
	previous := l.items[index]
	l.items[index] = item
	return previous, true
}

// Get возвращает элемент по индексу.
func (l *List[T]) Get(index int) (T, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var zero T
	if index < 0 || index >= len(l.items) {
		return zero, false
	}
	return l.items[index], true
}

// Find возвращает первый элемент, удовлетворяющий предикату.
func (l *List[T]) Find(match func(T) bool) (T, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, item := range l.items {
		if match(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// IsEmpty сообщает, пуст ли список.
func (l *List[T]) IsEmpty() bool {
	return l.Len() == 0
}

// Len возвращает число элементов.
func (l *List[T]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.items)
}

// Contains проверяет наличие элемента.
func (l *List[T]) Contains(item T) bool {
	return l.IndexOf(item) >= 0
}

// IndexOf возвращает индекс первого вхождения или -1.
func (l *List[T]) IndexOf(item T) int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.indexOfLocked(item)
}

// Clear удаляет все элементы. Возвращает true, если список стал пустым.
func (l *List[T]) Clear() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.items = nil
	return true
}

// Snapshot возвращает независимую копию содержимого.
// Изменения копии не влияют на список, и наоборот.
func (l *List[T]) Snapshot() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.items == nil {
		return []T{}
	}
	return slices.Clone(l.items)
}

// All обходит содержимое на момент начала обхода. Обход можно начинать повторно.
func (l *List[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, item := range l.Snapshot() {
			if !yield(i, item) {
				return
			}
		}
	}
}

// Values обходит элементы на момент начала обхода.
func (l *List[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, item := range l.Snapshot() {
			if !yield(item) {
				return
			}
		}
	}
}

// Clone возвращает новый независимый список с тем же содержимым и равенством.
func (l *List[T]) Clone() *List[T] {
	return New(l.equal, l.Snapshot()...)
}

func (l *List[T]) indexOfLocked(item T) int {
	for i, current := range l.items {
		if l.eq(current, item) {
			return i
		}
	}
	return -1
}

func (l *List[T]) eq(a, b T) bool {
	if l.equal != nil {
		return l.equal(a, b)
	}
	return reflect.DeepEqual(a, b)
}

// isNil распознаёт отсутствующее значение для ссылочных T.
func isNil[T any](item T) bool {
	v := reflect.ValueOf(any(item))
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}

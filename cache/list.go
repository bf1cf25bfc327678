package cache

import "fmt"

// recencyList is an intrusive doubly linked list of entries ordered from
// least recently used (head) to most recently used (tail). Callers must
// hold the owning cache's structural mutex, or be single-threaded.
type recencyList[K comparable, V any] struct {
	head *entry[K, V] // least recently used
	tail *entry[K, V] // most recently used
	size int
}

// insertTail links a stateNew entry as MRU in O(1).
func (l *recencyList[K, V]) insertTail(e *entry[K, V]) {
	e.lessRecent = l.tail
	e.moreRecent = nil
	if l.tail != nil {
		l.tail.moreRecent = e
	}
	l.tail = e
	if l.head == nil {
		l.head = e
	}
	e.state = stateLinked
	l.size++
}

// promoteTail moves a stateLinked entry to MRU in O(1).
// No-op when the entry is already the tail.
func (l *recencyList[K, V]) promoteTail(e *entry[K, V]) {
	if e == l.tail {
		return
	}
	// detach
	if e.lessRecent != nil {
		e.lessRecent.moreRecent = e.moreRecent
	}
	if e.moreRecent != nil {
		e.moreRecent.lessRecent = e.lessRecent
	}
	if l.head == e {
		l.head = e.moreRecent
	}
	// splice at tail
	e.lessRecent = l.tail
	e.moreRecent = nil
	if l.tail != nil {
		l.tail.moreRecent = e
	}
	l.tail = e
	if l.head == nil {
		l.head = e
	}
}

// unlink detaches an entry from the list in O(1) and marks it deleted.
// A stateNew entry was never linked, so only the state changes; an
// already deleted entry is left untouched.
func (l *recencyList[K, V]) unlink(e *entry[K, V]) {
	if e.state == stateLinked {
		if e.lessRecent != nil {
			e.lessRecent.moreRecent = e.moreRecent
		}
		if e.moreRecent != nil {
			e.moreRecent.lessRecent = e.lessRecent
		}
		if l.head == e {
			l.head = e.moreRecent
		}
		if l.tail == e {
			l.tail = e.lessRecent
		}
		e.lessRecent, e.moreRecent = nil, nil
		l.size--
	}
	e.state = stateDeleted
}

// lru returns the least recently used entry in O(1), or nil when empty.
func (l *recencyList[K, V]) lru() *entry[K, V] { return l.head }

// verify walks the list in both directions and cross-checks the visit
// counts against the stored size, and, when indexSize >= 0, against the
// key index cardinality. The index comparison is only meaningful at
// quiescence: in-flight lookups legitimately hold indexed entries that
// are not linked yet. Diagnostic only; never called on user-facing paths.
func (l *recencyList[K, V]) verify(indexSize int) error {
	forward := 0
	for e := l.head; e != nil; e = e.moreRecent {
		if e.state != stateLinked {
			return fmt.Errorf("list: entry in state %d reachable from head", e.state)
		}
		forward++
		if forward > l.size {
			return fmt.Errorf("list: forward walk exceeds size %d", l.size)
		}
	}
	backward := 0
	for e := l.tail; e != nil; e = e.lessRecent {
		backward++
		if backward > l.size {
			return fmt.Errorf("list: backward walk exceeds size %d", l.size)
		}
	}
	if forward != backward {
		return fmt.Errorf("list: forward walk %d != backward walk %d", forward, backward)
	}
	if forward != l.size {
		return fmt.Errorf("list: walk %d != size %d", forward, l.size)
	}
	if indexSize >= 0 && forward != indexSize {
		return fmt.Errorf("list: walk %d != index size %d", forward, indexSize)
	}
	return nil
}

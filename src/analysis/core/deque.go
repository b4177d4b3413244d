package core

// -----------------------------------------------------------------------------
// indexDeque is a fixed-capacity double-ended queue of series indices,
// ring-buffer backed. Capacity is fixed at construction - no resizing.
// -----------------------------------------------------------------------------

type indexDeque struct {
	indices  []int
	front    int
	back     int
	capacity int
}

// -----------------------------------------------------------------------------

// newIndexDeque creates a deque holding up to capacity-1 indices; one slot
// stays empty so front == back always means empty.
func newIndexDeque(capacity int) *indexDeque {
	return &indexDeque{
		indices:  make([]int, capacity),
		capacity: capacity,
	}
}

// -----------------------------------------------------------------------------

func (dq *indexDeque) empty() bool {
	return dq.front == dq.back
}

// -----------------------------------------------------------------------------

func (dq *indexDeque) pushBack(idx int) {
	dq.indices[dq.back] = idx
	dq.back = (dq.back + 1) % dq.capacity
}

// -----------------------------------------------------------------------------

func (dq *indexDeque) popBack() {
	dq.back = (dq.back - 1 + dq.capacity) % dq.capacity
}

// -----------------------------------------------------------------------------

func (dq *indexDeque) popFront() {
	dq.front = (dq.front + 1) % dq.capacity
}

// -----------------------------------------------------------------------------

func (dq *indexDeque) peekFront() int {
	return dq.indices[dq.front]
}

// -----------------------------------------------------------------------------

func (dq *indexDeque) peekBack() int {
	idx := (dq.back - 1 + dq.capacity) % dq.capacity
	return dq.indices[idx]
}

// -----------------------------------------------------------------------------
// indexStack tracks candidate indices for the span scan.
// -----------------------------------------------------------------------------

type indexStack struct {
	data []int
}

// -----------------------------------------------------------------------------

func newIndexStack(capacity int) *indexStack {
	return &indexStack{data: make([]int, 0, capacity)}
}

// -----------------------------------------------------------------------------

func (s *indexStack) empty() bool {
	return len(s.data) == 0
}

// -----------------------------------------------------------------------------

func (s *indexStack) push(idx int) {
	s.data = append(s.data, idx)
}

// -----------------------------------------------------------------------------

func (s *indexStack) pop() {
	s.data = s.data[:len(s.data)-1]
}

// -----------------------------------------------------------------------------

func (s *indexStack) peek() int {
	return s.data[len(s.data)-1]
}

package history

// node is a stack cell; the stack pushes at the head.
type node struct {
	rec  *Record
	next *node
}

// Stack is a LIFO of records.
type Stack struct {
	head *node
	n    int
}

// Push places rec on top. O(1).
func (s *Stack) Push(rec *Record) {
	if rec == nil {
		return
	}
	s.head = &node{rec: rec, next: s.head}
	s.n++
}

// Pop removes and returns the top record, handing ownership to the caller.
// It reports false and does nothing when the stack is empty. O(1).
func (s *Stack) Pop() (*Record, bool) {
	if s.head == nil {
		return nil, false
	}
	top := s.head
	s.head = top.next
	top.next = nil
	s.n--
	return top.rec, true
}

// Peek returns the top record without removing it.
func (s *Stack) Peek() (*Record, bool) {
	if s.head == nil {
		return nil, false
	}
	return s.head.rec, true
}

// IsEmpty reports whether the stack holds no records.
func (s *Stack) IsEmpty() bool {
	return s.head == nil
}

// Len returns the number of records.
func (s *Stack) Len() int {
	return s.n
}

// Clear releases every node.
func (s *Stack) Clear() {
	for s.head != nil {
		next := s.head.next
		s.head.next = nil
		s.head.rec = nil
		s.head = next
	}
	s.n = 0
}

// trim drops the oldest records beyond max and returns how many went.
func (s *Stack) trim(max int) int {
	if max <= 0 || s.n <= max {
		return 0
	}
	cur := s.head
	for i := 1; i < max; i++ {
		cur = cur.next
	}
	dropped := s.n - max
	tail := cur.next
	cur.next = nil
	for tail != nil {
		next := tail.next
		tail.next = nil
		tail.rec = nil
		tail = next
	}
	s.n = max
	return dropped
}

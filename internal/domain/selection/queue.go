package selection

import "encoding/json"

// CappedQueue is an ordered set of ids with a capacity. Adding beyond the
// capacity evicts the oldest entry instead of rejecting the new one.
// A zero capacity holds nothing.
type CappedQueue struct {
	items []string
	cap   int
}

func NewCappedQueue(capacity int, items ...string) CappedQueue {
	q := CappedQueue{cap: max(capacity, 0)}
	for _, id := range items {
		q.Add(id)
	}
	return q
}

func (q *CappedQueue) Cap() int { return q.cap }

func (q *CappedQueue) Len() int { return len(q.items) }

func (q *CappedQueue) Items() []string {
	return append([]string(nil), q.items...)
}

func (q *CappedQueue) Contains(id string) bool {
	for _, it := range q.items {
		if it == id {
			return true
		}
	}
	return false
}

// Add appends id and returns the evicted ids, if any.
func (q *CappedQueue) Add(id string) []string {
	if q.cap == 0 || q.Contains(id) {
		return nil
	}
	q.items = append(q.items, id)
	return q.trim()
}

func (q *CappedQueue) Remove(id string) bool {
	for i, it := range q.items {
		if it == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			if len(q.items) == 0 {
				q.items = nil
			}
			return true
		}
	}
	return false
}

// Toggle removes id when present, otherwise adds it.
func (q *CappedQueue) Toggle(id string) []string {
	if q.Remove(id) {
		return nil
	}
	return q.Add(id)
}

// SetCap changes the capacity, evicting the oldest entries that no longer fit.
func (q *CappedQueue) SetCap(capacity int) []string {
	q.cap = max(capacity, 0)
	return q.trim()
}

func (q *CappedQueue) Clear() {
	q.items = nil
}

func (q *CappedQueue) trim() []string {
	over := len(q.items) - q.cap
	if over <= 0 {
		return nil
	}
	evicted := append([]string(nil), q.items[:over]...)
	q.items = append([]string(nil), q.items[over:]...)
	return evicted
}

func (q CappedQueue) clone() CappedQueue {
	return CappedQueue{items: q.Items(), cap: q.cap}
}

type queueJSON struct {
	Items []string `json:"items"`
	Cap   int      `json:"cap"`
}

func (q CappedQueue) MarshalJSON() ([]byte, error) {
	items := q.items
	if items == nil {
		items = []string{}
	}
	return json.Marshal(queueJSON{Items: items, Cap: q.cap})
}

func (q *CappedQueue) UnmarshalJSON(b []byte) error {
	var raw queueJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	q.cap = max(raw.Cap, 0)
	q.items = nil
	if len(raw.Items) > 0 {
		q.items = append([]string(nil), raw.Items...)
	}
	q.trim()
	return nil
}

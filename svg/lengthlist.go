package svg

import "iter"

// LengthList is an ordered, live list of lengths with the SVGLengthList
// mutation semantics. Mutating methods check the read-only flag before
// anything else, then the index, then the item argument.
//
// Inserting a Length that already sits in another list moves it: it is
// removed from that list before being placed in this one, and both lists are
// notified only after the move has completed. A Length held by a read-only
// list cannot be moved, so a copy of it is inserted instead. The same holds
// for a Length that a read-only list has since dropped.
type LengthList struct {
	items     []*Length
	readOnly  bool
	direction Direction
	onChange  func()
}

// NewLengthList creates an empty mutable list whose percentages resolve
// against the normalized viewport diagonal.
func NewLengthList() *LengthList {
	return &LengthList{direction: DirectionOther}
}

// NewDirectedLengthList creates an empty mutable list whose percentages
// resolve against dir.
func NewDirectedLengthList(dir Direction) *LengthList {
	return &LengthList{direction: dir}
}

// NewReadOnlyLengthList creates a read-only list holding copies of items.
func NewReadOnlyLengthList(dir Direction, items ...*Length) *LengthList {
	l := &LengthList{readOnly: true, direction: dir}
	l.reset(cloneAll(items))
	return l
}

// ReadOnly reports whether the list rejects mutation.
func (l *LengthList) ReadOnly() bool {
	return l.readOnly
}

// Direction returns the axis percentages in this list resolve against.
func (l *LengthList) Direction() Direction {
	return l.direction
}

// NumberOfItems returns the number of items in the list.
func (l *LengthList) NumberOfItems() int {
	return len(l.items)
}

// Length is an alias for NumberOfItems.
func (l *LengthList) Length() int {
	return len(l.items)
}

// Clear removes every item. Removed items become detached.
func (l *LengthList) Clear() error {
	if l.readOnly {
		return errReadOnly()
	}
	l.detachAll()
	l.notify()
	return nil
}

// Initialize clears the list and inserts newItem as its only item.
func (l *LengthList) Initialize(newItem *Length) (*Length, error) {
	if l.readOnly {
		return nil, errReadOnly()
	}
	if newItem == nil {
		return nil, errNilItem()
	}
	item, prev := l.take(newItem)
	l.detachAll()
	l.items = append(l.items, item)
	item.list = l
	l.notifyMove(prev)
	return item, nil
}

// GetItem returns the item at index.
func (l *LengthList) GetItem(index int) (*Length, error) {
	if index < 0 || index >= len(l.items) {
		return nil, errIndex(index, len(l.items))
	}
	return l.items[index], nil
}

// InsertItemBefore inserts newItem at index. An index at or past the end
// appends.
func (l *LengthList) InsertItemBefore(newItem *Length, index int) (*Length, error) {
	if l.readOnly {
		return nil, errReadOnly()
	}
	if index < 0 {
		return nil, errIndex(index, len(l.items))
	}
	if newItem == nil {
		return nil, errNilItem()
	}
	item, prev := l.take(newItem)
	if index > len(l.items) {
		index = len(l.items)
	}
	l.items = append(l.items, nil)
	copy(l.items[index+1:], l.items[index:])
	l.items[index] = item
	item.list = l
	l.notifyMove(prev)
	return item, nil
}

// ReplaceItem puts newItem in place of the item at index and returns
// newItem. The replaced item becomes detached. When newItem is already in
// this list it is moved, and index still designates the item being replaced.
func (l *LengthList) ReplaceItem(newItem *Length, index int) (*Length, error) {
	if l.readOnly {
		return nil, errReadOnly()
	}
	if index < 0 || index >= len(l.items) {
		return nil, errIndex(index, len(l.items))
	}
	if newItem == nil {
		return nil, errNilItem()
	}
	if newItem.list == l {
		j := l.indexOf(newItem)
		if j == index {
			return newItem, nil
		}
		if j < index {
			index--
		}
	}
	item, prev := l.take(newItem)
	l.items[index].list = nil
	l.items[index] = item
	item.list = l
	l.notifyMove(prev)
	return item, nil
}

// RemoveItem removes and returns the item at index. The returned item is
// detached.
func (l *LengthList) RemoveItem(index int) (*Length, error) {
	if l.readOnly {
		return nil, errReadOnly()
	}
	if index < 0 || index >= len(l.items) {
		return nil, errIndex(index, len(l.items))
	}
	item := l.items[index]
	l.removeAt(index)
	l.notify()
	return item, nil
}

// AppendItem inserts newItem at the end of the list.
func (l *LengthList) AppendItem(newItem *Length) (*Length, error) {
	if l.readOnly {
		return nil, errReadOnly()
	}
	if newItem == nil {
		return nil, errNilItem()
	}
	item, prev := l.take(newItem)
	l.items = append(l.items, item)
	item.list = l
	l.notifyMove(prev)
	return item, nil
}

// ValueAsString serializes the list as space separated lengths.
func (l *LengthList) ValueAsString() string {
	return FormatLengthList(l.items)
}

func (l *LengthList) String() string {
	return l.ValueAsString()
}

// ForEach calls fn for each item in order.
func (l *LengthList) ForEach(fn func(item *Length, index int)) {
	for i, item := range l.items {
		fn(item, i)
	}
}

// Values returns a snapshot of the items.
func (l *LengthList) Values() []*Length {
	return append([]*Length(nil), l.items...)
}

// All iterates over index/item pairs of a snapshot of the list.
func (l *LengthList) All() iter.Seq2[int, *Length] {
	items := l.Values()
	return func(yield func(int, *Length) bool) {
		for i, item := range items {
			if !yield(i, item) {
				return
			}
		}
	}
}

// take prepares item for insertion into l, detaching it from the list that
// holds it. It returns the length to insert and the other list that lost an
// item, if any.
func (l *LengthList) take(item *Length) (*Length, *LengthList) {
	prev := item.list
	if prev == nil {
		if item.frozen {
			return item.Clone(), nil
		}
		return item, nil
	}
	if prev.readOnly {
		return item.Clone(), nil
	}
	prev.removeAt(prev.indexOf(item))
	if prev == l {
		return item, nil
	}
	return item, prev
}

func (l *LengthList) indexOf(item *Length) int {
	for i, it := range l.items {
		if it == item {
			return i
		}
	}
	return -1
}

func (l *LengthList) removeAt(index int) {
	l.items[index].list = nil
	copy(l.items[index:], l.items[index+1:])
	l.items[len(l.items)-1] = nil
	l.items = l.items[:len(l.items)-1]
}

func (l *LengthList) detachAll() {
	for _, item := range l.items {
		item.list = nil
	}
	l.items = nil
}

// reset replaces the contents without the read-only check or notification.
func (l *LengthList) reset(items []*Length) {
	l.detachAll()
	for _, item := range items {
		if item.list != nil && item.list != l {
			item.list.removeAt(item.list.indexOf(item))
		}
		item.list = l
	}
	l.items = items
}

func (l *LengthList) notify() {
	if l.onChange != nil {
		l.onChange()
	}
}

func (l *LengthList) notifyMove(prev *LengthList) {
	if prev != nil {
		prev.notify()
	}
	l.notify()
}

func cloneAll(items []*Length) []*Length {
	out := make([]*Length, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}
	return out
}

func errNilItem() *DOMError {
	return ErrTypeMismatch("The item provided is not an SVGLength.")
}

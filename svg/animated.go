package svg

// AttributeHost receives the serialized value of a length-list attribute
// whenever it is edited through its lists.
type AttributeHost interface {
	AttributeChanged(name, value string)
}

// AttributeHostFunc adapts a function to AttributeHost.
type AttributeHostFunc func(name, value string)

func (f AttributeHostFunc) AttributeChanged(name, value string) { f(name, value) }

// AnimatedLengthList is a length-list attribute: an editable base value and
// a read-only animated value that mirrors it.
type AnimatedLengthList struct {
	name    string
	host    AttributeHost
	baseVal *LengthList
	animVal *LengthList
}

// NewAnimatedLengthList creates an empty attribute called name. host may be
// nil.
func NewAnimatedLengthList(name string, dir Direction, host AttributeHost) *AnimatedLengthList {
	a := &AnimatedLengthList{
		name:    name,
		host:    host,
		baseVal: NewDirectedLengthList(dir),
		animVal: &LengthList{readOnly: true, direction: dir},
	}
	a.baseVal.onChange = a.baseChanged
	return a
}

// Name returns the attribute name.
func (a *AnimatedLengthList) Name() string {
	return a.name
}

// BaseVal returns the editable list.
func (a *AnimatedLengthList) BaseVal() *LengthList {
	return a.baseVal
}

// AnimVal returns the read-only list reflecting BaseVal.
func (a *AnimatedLengthList) AnimVal() *LengthList {
	return a.animVal
}

// ValueAsString returns the attribute text for the current base value.
func (a *AnimatedLengthList) ValueAsString() string {
	return a.baseVal.ValueAsString()
}

// SetValueAsString re-parses the attribute from its text, as when the host
// element's attribute is set. Existing items are detached. The host is not
// notified. On a syntax error the lists are left unchanged.
func (a *AnimatedLengthList) SetValueAsString(value string) error {
	items, err := ParseLengthList(value)
	if err != nil {
		return err
	}
	a.baseVal.reset(items)
	a.syncAnim()
	return nil
}

func (a *AnimatedLengthList) baseChanged() {
	a.syncAnim()
	if a.host != nil {
		a.host.AttributeChanged(a.name, a.baseVal.ValueAsString())
	}
}

func (a *AnimatedLengthList) syncAnim() {
	// Update the mirror in place where the shapes agree so scripts holding
	// animVal items keep seeing current values.
	anim := a.animVal.items
	base := a.baseVal.items
	if len(anim) > len(base) {
		for _, item := range anim[len(base):] {
			item.list = nil
			item.frozen = true
		}
		anim = anim[:len(base)]
	}
	for i, item := range base {
		if i < len(anim) {
			anim[i].value, anim[i].unit = item.value, item.unit
			continue
		}
		anim = append(anim, &Length{value: item.value, unit: item.unit, list: a.animVal})
	}
	a.animVal.items = anim
}

// Copyright (c) 2024, The GIXStapose Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package events

// Listeners registers lists of event listener functions
// to receive different event types.
// Listeners are closure methods with all context captured,
// registered on specific objects.
type Listeners struct {
	funs   map[Types][]listener
	nextID uint64
}

type listener struct {
	id  uint64
	fun func(ev Event)
}

// Add adds a function for given type, returning a function that
// removes it again. Calling the returned function more than once is a no-op.
func (ls *Listeners) Add(typ Types, fun func(Event)) (remove func()) {
	if ls.funs == nil {
		ls.funs = make(map[Types][]listener)
	}
	ls.nextID++
	id := ls.nextID
	ls.funs[typ] = append(ls.funs[typ], listener{id: id, fun: fun})
	return func() { ls.remove(typ, id) }
}

func (ls *Listeners) remove(typ Types, id uint64) {
	ets := ls.funs[typ]
	for i, l := range ets {
		if l.id == id {
			ls.funs[typ] = append(ets[:i:i], ets[i+1:]...)
			return
		}
	}
}

// Len returns the number of functions registered for given type.
func (ls *Listeners) Len(typ Types) int {
	return len(ls.funs[typ])
}

// Clear removes all registered functions.
func (ls *Listeners) Clear() {
	ls.funs = nil
}

// Call calls all functions for given event.
// It goes in _reverse_ order so the last functions added are the first called
// and it stops when the event is marked as Handled.  This allows for a natural
// and optional override behavior, as compared to requiring more complex
// priority-based mechanisms.
func (ls *Listeners) Call(ev Event) {
	if ev.IsHandled() {
		return
	}
	ets := ls.funs[ev.Type()]
	for i := len(ets) - 1; i >= 0; i-- {
		ets[i].fun(ev)
		if ev.IsHandled() {
			break
		}
	}
}

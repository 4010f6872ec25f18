package warpfx

import (
	"reflect"
	"slices"
)

type Query1[A any] struct{ ecs *Ecs }
type Query2[A, B any] struct{ ecs *Ecs }
type Query3[A, B, C any] struct{ ecs *Ecs }

func MakeQuery1[A any](cmd *Commands) Query1[A]             { return Query1[A]{ecs: cmd.app.ecs} }
func MakeQuery2[A, B any](cmd *Commands) Query2[A, B]       { return Query2[A, B]{ecs: cmd.app.ecs} }
func MakeQuery3[A, B, C any](cmd *Commands) Query3[A, B, C] { return Query3[A, B, C]{ecs: cmd.app.ecs} }

// column resolves the storage of component id in arch. ok is false when
// the archetype lacks a required component; a missing optional component
// yields a nil column with ok set.
func column[T any](arch *archetype, id componentId, opt set[componentId]) (comps []T, ok bool) {
	if data, found := arch.componentData[id]; found {
		return data.([]T), true
	}
	if _, optional := opt[id]; optional {
		return nil, true
	}
	return nil, false
}

func at[T any](comps []T, r row) *T {
	if comps == nil {
		return nil
	}
	return &comps[r]
}

// sortedEntities iterates entities in id order so systems see a stable
// order frame to frame.
func sortedEntities(arch *archetype) []EntityId {
	ids := make([]EntityId, 0, len(arch.entities))
	for eid := range arch.entities {
		ids = append(ids, eid)
	}
	slices.Sort(ids)
	return ids
}

func sortedArchetypes(ecs *Ecs) []*archetype {
	archs := make([]*archetype, 0, len(ecs.archetypes))
	for _, arch := range ecs.archetypes {
		archs = append(archs, arch)
	}
	slices.SortFunc(archs, func(a, b *archetype) int {
		switch {
		case a.id < b.id:
			return -1
		case a.id > b.id:
			return 1
		}
		return 0
	})
	return archs
}

// Map calls m for every entity with A. Returning false stops iteration.
// Components passed as optionals may be missing and arrive as nil.
func (q Query1[A]) Map(m func(EntityId, *A) bool, optionals ...any) {
	id1 := identifyComponent[A](q.ecs)
	opt := identifyOptionals(q.ecs, optionals...)

	for _, arch := range sortedArchetypes(q.ecs) {
		comps1, ok := column[A](arch, id1, opt)
		if !ok {
			continue
		}
		for _, eid := range sortedEntities(arch) {
			if !m(eid, at(comps1, arch.entities[eid])) {
				return
			}
		}
	}
}

func (q Query2[A, B]) Map(m func(EntityId, *A, *B) bool, optionals ...any) {
	id1 := identifyComponent[A](q.ecs)
	id2 := identifyComponent[B](q.ecs)
	opt := identifyOptionals(q.ecs, optionals...)

	for _, arch := range sortedArchetypes(q.ecs) {
		comps1, ok1 := column[A](arch, id1, opt)
		comps2, ok2 := column[B](arch, id2, opt)
		if !ok1 || !ok2 {
			continue
		}
		for _, eid := range sortedEntities(arch) {
			r := arch.entities[eid]
			if !m(eid, at(comps1, r), at(comps2, r)) {
				return
			}
		}
	}
}

func (q Query3[A, B, C]) Map(m func(EntityId, *A, *B, *C) bool, optionals ...any) {
	id1 := identifyComponent[A](q.ecs)
	id2 := identifyComponent[B](q.ecs)
	id3 := identifyComponent[C](q.ecs)
	opt := identifyOptionals(q.ecs, optionals...)

	for _, arch := range sortedArchetypes(q.ecs) {
		comps1, ok1 := column[A](arch, id1, opt)
		comps2, ok2 := column[B](arch, id2, opt)
		comps3, ok3 := column[C](arch, id3, opt)
		if !ok1 || !ok2 || !ok3 {
			continue
		}
		for _, eid := range sortedEntities(arch) {
			r := arch.entities[eid]
			if !m(eid, at(comps1, r), at(comps2, r), at(comps3, r)) {
				return
			}
		}
	}
}

func identifyOptionals(ecs *Ecs, components ...any) set[componentId] {
	res := make(set[componentId])
	for _, c := range components {
		res[ecs.getComponentId(componentType(c))] = struct{}{}
	}
	return res
}

func identifyComponent[T any](ecs *Ecs) componentId {
	return ecs.getComponentId(reflect.TypeOf((*T)(nil)).Elem())
}

package mapgen

import "fmt"

// Registry is the set of room types the current configuration knows about.
type Registry struct {
	types map[RoomType]struct{}
	order []RoomType
}

// NewRegistry creates a registry holding types.
func NewRegistry(types ...RoomType) *Registry {
	r := &Registry{types: make(map[RoomType]struct{}, len(types))}
	for _, t := range types {
		r.Add(t)
	}
	return r
}

// Add registers t. Adding a known type is a no-op.
func (r *Registry) Add(t RoomType) {
	if _, ok := r.types[t]; ok {
		return
	}
	r.types[t] = struct{}{}
	r.order = append(r.order, t)
}

// Has reports whether t is registered.
func (r *Registry) Has(t RoomType) bool {
	_, ok := r.types[t]
	return ok
}

// Types returns the registered types in registration order.
func (r *Registry) Types() []RoomType {
	return append([]RoomType(nil), r.order...)
}

// Resolve maps a stored type name to a registered RoomType.
func (r *Registry) Resolve(name string) (RoomType, error) {
	t := RoomType(name)
	if !r.Has(t) {
		return "", &Error{
			Code:    CodeUnresolvedRoomType,
			Column:  -1,
			Message: fmt.Sprintf("room type %q is not registered", name),
		}
	}
	return t, nil
}

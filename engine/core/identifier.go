package core

import "fmt"

// IdentifierPool hands out the lowest free slot to each new owner and makes
// released slots available again.
type IdentifierPool struct {
	owners []interface{}
	live   int
}

func NewIdentifierPool(capacity int) *IdentifierPool {
	return &IdentifierPool{
		owners: make([]interface{}, capacity),
	}
}

func (p *IdentifierPool) Acquire(owner interface{}) uint32 {
	if owner == nil {
		owner = struct{}{}
	}
	p.live++
	for i := range p.owners {
		// Existing free spot. Take it.
		if p.owners[i] == nil {
			p.owners[i] = owner
			return uint32(i)
		}
	}
	// No free slots, the new id is the old length.
	p.owners = append(p.owners, owner)
	return uint32(len(p.owners) - 1)
}

func (p *IdentifierPool) Release(id uint32) error {
	if int(id) >= len(p.owners) {
		return fmt.Errorf("identifier release: id '%d' out of range (max=%d). Nothing was done", id, len(p.owners))
	}
	if p.owners[id] == nil {
		return fmt.Errorf("identifier release: id '%d' is not in use. Nothing was done", id)
	}
	p.owners[id] = nil
	p.live--
	return nil
}

func (p *IdentifierPool) Owner(id uint32) (interface{}, bool) {
	if int(id) >= len(p.owners) || p.owners[id] == nil {
		return nil, false
	}
	return p.owners[id], true
}

// Live is the number of ids currently acquired.
func (p *IdentifierPool) Live() int {
	return p.live
}

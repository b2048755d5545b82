package entity

import (
	"errors"
	"fmt"
	"strings"
)

// OwnerKind identifies the content table an image or FAQ is attached to.
type OwnerKind string

const (
	OwnerHospital  OwnerKind = "hospital"
	OwnerDoctor    OwnerKind = "doctor"
	OwnerTreatment OwnerKind = "treatment"
	OwnerOffer     OwnerKind = "offer"
	OwnerSlider    OwnerKind = "slider"
	OwnerBlog      OwnerKind = "blog"
)

var ErrInvalidOwnerKind = errors.New("invalid owner kind")

// ownerKinds is the single authoritative set of kinds that may hold assets.
var ownerKinds = []OwnerKind{
	OwnerHospital,
	OwnerDoctor,
	OwnerTreatment,
	OwnerOffer,
	OwnerSlider,
	OwnerBlog,
}

// OwnerKinds returns the registered owner kinds in a stable order.
func OwnerKinds() []OwnerKind {
	kinds := make([]OwnerKind, len(ownerKinds))
	copy(kinds, ownerKinds)
	return kinds
}

// IsValidOwnerType reports whether kind is one of the registered owner kinds.
func IsValidOwnerType(kind string) bool {
	for _, k := range ownerKinds {
		if string(k) == kind {
			return true
		}
	}
	return false
}

// ParseOwnerKind trims kind and checks it against the registry.
func ParseOwnerKind(kind string) (OwnerKind, error) {
	kind = strings.TrimSpace(kind)
	if !IsValidOwnerType(kind) {
		return "", fmt.Errorf("%w: %q", ErrInvalidOwnerKind, kind)
	}
	return OwnerKind(kind), nil
}

// OwnerRef is a weak reference to an owner row. owner_type/owner_id is not a
// foreign key, so existence of the owner is an application invariant.
type OwnerRef struct {
	Kind OwnerKind
	ID   uint64
}

// NewOwnerRef validates kind and returns the reference.
func NewOwnerRef(kind string, id uint64) (OwnerRef, error) {
	k, err := ParseOwnerKind(kind)
	if err != nil {
		return OwnerRef{}, err
	}
	return OwnerRef{Kind: k, ID: id}, nil
}

func (o OwnerRef) String() string {
	return fmt.Sprintf("%s:%d", o.Kind, o.ID)
}

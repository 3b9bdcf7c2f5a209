package model

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

type SourceKind string

const (
	SourcePersonal  SourceKind = "PERSONAL"
	SourceGathering SourceKind = "GATHERING"
	SourceVisit     SourceKind = "VISIT"
)

func ParseSourceKind(s string) (SourceKind, bool) {
	k := SourceKind(strings.ToUpper(strings.TrimSpace(s)))
	switch k {
	case SourcePersonal, SourceGathering, SourceVisit:
		return k, true
	}
	return "", false
}

// PrayerSource says where a prayer request came from. The set of variants is closed:
// Personal, GatheringSource and VisitSource.
type PrayerSource interface {
	Kind() SourceKind
	RefID() uuid.UUID
	sealed()
}

// Personal: asked by the member directly.
type Personal struct{ MemberID uuid.UUID }

// GatheringSource: shared at a group gathering.
type GatheringSource struct{ GatheringMemberID uuid.UUID }

// VisitSource: shared during a pastoral visit.
type VisitSource struct{ VisitMemberID uuid.UUID }

func (Personal) Kind() SourceKind { return SourcePersonal }
func (GatheringSource) Kind() SourceKind { return SourceGathering }
func (VisitSource) Kind() SourceKind { return SourceVisit }
func (s Personal) RefID() uuid.UUID { return s.MemberID }
func (s GatheringSource) RefID() uuid.UUID { return s.GatheringMemberID }
func (s VisitSource) RefID() uuid.UUID { return s.VisitMemberID }
func (Personal) sealed() {}
func (GatheringSource) sealed() {}
func (VisitSource) sealed() {}

var ErrInvalidSource = errors.New("prayer must have exactly one source")

// NewSource builds the variant for kind; id must be set.
func NewSource(kind SourceKind, id uuid.UUID) (PrayerSource, error) {
	if id == uuid.Nil {
		return nil, ErrInvalidSource
	}
	switch kind {
	case SourcePersonal:
		return Personal{MemberID: id}, nil
	case SourceGathering:
		return GatheringSource{GatheringMemberID: id}, nil
	case SourceVisit:
		return VisitSource{VisitMemberID: id}, nil
	}
	return nil, ErrInvalidSource
}

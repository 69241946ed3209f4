package scene

import (
	"fmt"
	"strings"
)

// Kind classifies a structural component of a rack.
type Kind string

const (
	KindUpright   Kind = "upright"
	KindConnector Kind = "connector"
	KindBrace     Kind = "brace"
	KindBeam      Kind = "beam"
	KindCrossbar  Kind = "crossbar"
	KindDeck      Kind = "deck"
	KindPallet    Kind = "pallet"
	// KindMarker is the floating record indicator above a component. It is
	// addressable but resolves to its parent component when picked.
	KindMarker Kind = "marker"
)

// Side distinguishes the two depth faces of a rack.
type Side string

const (
	SideFront Side = "front"
	SideBack  Side = "back"
)

const idSep = "-"

// ComponentID derives the stable identifier for a structural component.
// The result is a pure function of its inputs: maintenance records and
// health entries persist these strings as foreign keys, so the scheme
// must never change shape, salt, or reorder for a given kind.
//
//	upright:  {rack}-upright-{boundary}-{side}
//	connector:{rack}-connector-{bay}-{levelBoundary}-{end}
//	brace:    {rack}-brace-{bay}-{level}
//	beam:     {rack}-beam-{bay}-{level}-{side}
//	crossbar: {rack}-crossbar-{bay}-{level}-{slot}
//	deck:     {rack}-deck-{bay}-{level}
//	pallet:   {rack}-pallet-{bay}-{level}
//	marker:   {rack}-marker-... (suffix of the parent id)
func ComponentID(rackID string, kind Kind, indices ...any) string {
	parts := make([]string, 0, 2+len(indices))
	parts = append(parts, rackID, string(kind))
	for _, idx := range indices {
		parts = append(parts, fmt.Sprint(idx))
	}
	return strings.Join(parts, idSep)
}

// MarkerID derives the id of the record indicator hovering over the
// component identified by parentID.
func MarkerID(parentID string) string {
	return parentID + idSep + string(KindMarker)
}

var allKinds = []Kind{
	KindUpright, KindConnector, KindBrace, KindBeam,
	KindCrossbar, KindDeck, KindPallet, KindMarker,
}

// SplitComponentID recovers the owning rack id and kind from a component
// id. Rack ids are UUIDs, whose dash-separated groups are pure hex and so
// can never equal a kind token (every kind name contains a non-hex
// letter); the first token matching a kind therefore marks the boundary.
func SplitComponentID(componentID string) (rackID string, kind Kind, ok bool) {
	tokens := strings.Split(componentID, idSep)
	for i, tok := range tokens {
		for _, k := range allKinds {
			if Kind(tok) == k && i > 0 {
				return strings.Join(tokens[:i], idSep), k, true
			}
		}
	}
	return "", "", false
}

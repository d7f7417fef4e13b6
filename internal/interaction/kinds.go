package interaction

// Built-in interaction kinds. Every unit factory declares exactly one of
// these; the world registers exactly one handler per kind.
const (
	KindMoveForward = "move_forward"
	KindTurnLeft    = "turn_left"
	KindTurnRight   = "turn_right"
	KindPlaceMark   = "place_mark"
	KindRemoveMark  = "remove_mark"
	KindScanWall    = "scan_wall"
	KindScanMark    = "scan_mark"
	KindLocate      = "locate"
)

var kindCatalog = []string{
	KindMoveForward,
	KindTurnLeft,
	KindTurnRight,
	KindPlaceMark,
	KindRemoveMark,
	KindScanWall,
	KindScanMark,
	KindLocate,
}

// Kinds returns the built-in kind catalog in its canonical order.
func Kinds() []string {
	out := make([]string, len(kindCatalog))
	copy(out, kindCatalog)
	return out
}

// KnownKind reports whether kind is part of the built-in catalog.
func KnownKind(kind string) bool {
	for _, k := range kindCatalog {
		if k == kind {
			return true
		}
	}
	return false
}

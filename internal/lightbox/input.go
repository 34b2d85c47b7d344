package lightbox

import "fmt"

// TargetKind identifies what a pointer action landed on
type TargetKind string

const (
	// TargetOverlay is the overlay background itself, outside the content box
	TargetOverlay   TargetKind = "overlay"
	TargetContent   TargetKind = "content"
	TargetClose     TargetKind = "close"
	TargetPrev      TargetKind = "prev"
	TargetNext      TargetKind = "next"
	TargetThumbnail TargetKind = "thumbnail"
)

type Target struct {
	Kind  TargetKind
	Index int
}

func Thumbnail(i int) Target {
	return Target{Kind: TargetThumbnail, Index: i}
}

// ParseTarget maps a target name to a Target. index is only used for thumbnails.
func ParseTarget(name string, index int) (Target, error) {
	switch k := TargetKind(name); k {
	case TargetOverlay, TargetContent, TargetClose, TargetPrev, TargetNext:
		return Target{Kind: k}, nil
	case TargetThumbnail:
		return Thumbnail(index), nil
	}
	return Target{}, fmt.Errorf("unknown click target %q", name)
}

// HandleKey applies a key press. Keys are ignored while closed.
func (l *Lightbox) HandleKey(key string) bool {
	if !l.state.Open {
		return false
	}
	switch key {
	case KeyArrowLeft:
		return l.Prev()
	case KeyArrowRight:
		return l.Next()
	case KeyEscape:
		return l.Close()
	}
	return false
}

// HandleClick applies a pointer action
func (l *Lightbox) HandleClick(t Target) bool {
	switch t.Kind {
	case TargetThumbnail:
		return l.Open(t.Index)
	case TargetOverlay, TargetClose:
		return l.Close()
	case TargetPrev:
		return l.Prev()
	case TargetNext:
		return l.Next()
	}
	return false
}

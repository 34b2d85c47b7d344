// Package lightbox models the modal media viewer as a small state machine.
//
// A Lightbox is either Closed or Open at an index into its item sequence.
// Views are pure projections of that state, so rendering never needs a live
// document and transitions can be exercised directly.
package lightbox

import (
	"github.com/jamo/media-gallery/internal/manifest"
	"github.com/jamo/media-gallery/internal/models"
)

// Keys recognised while the lightbox is open
const (
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
	KeyEscape     = "Escape"
)

// State is the serializable part of a lightbox
type State struct {
	Open  bool `json:"open"`
	Index int  `json:"index"`
}

// Media describes the element mounted in the lightbox for the active item
type Media struct {
	Tag      string `json:"tag"`
	Src      string `json:"src"`
	Controls bool   `json:"controls"`
}

// View is what the lightbox displays for its current state
type View struct {
	Open    bool              `json:"open"`
	Index   int               `json:"index"`
	Item    *models.MediaItem `json:"item,omitempty"`
	Media   *Media            `json:"media,omitempty"`
	Caption string            `json:"caption,omitempty"`
}

type Lightbox struct {
	items []models.MediaItem
	state State
}

// New returns a closed lightbox over items. The slice is not copied and must
// not be modified afterwards.
func New(items []models.MediaItem) *Lightbox {
	return &Lightbox{items: items}
}

// Restore returns a lightbox in the given state. An invalid state yields a
// closed lightbox.
func Restore(items []models.MediaItem, s State) *Lightbox {
	l := New(items)
	if s.Open {
		l.Open(s.Index)
	}
	return l
}

func (l *Lightbox) Len() int {
	return len(l.items)
}

func (l *Lightbox) State() State {
	return l.state
}

func (l *Lightbox) IsOpen() bool {
	return l.state.Open
}

// Open shows item i. Out of range indexes leave the state unchanged.
func (l *Lightbox) Open(i int) bool {
	if i < 0 || i >= len(l.items) {
		return false
	}
	l.state = State{Open: true, Index: i}
	return true
}

// Next advances to the following item, wrapping to the first
func (l *Lightbox) Next() bool {
	if !l.state.Open || len(l.items) == 0 {
		return false
	}
	return l.Open((l.state.Index + 1) % len(l.items))
}

// Prev moves to the preceding item, wrapping to the last
func (l *Lightbox) Prev() bool {
	n := len(l.items)
	if !l.state.Open || n == 0 {
		return false
	}
	return l.Open((l.state.Index - 1 + n) % n)
}

func (l *Lightbox) Close() bool {
	if !l.state.Open {
		return false
	}
	l.state = State{}
	return true
}

// Peek reports the index Next or Prev would move to without changing state
func (l *Lightbox) Peek(step int) (int, bool) {
	n := len(l.items)
	if !l.state.Open || n == 0 {
		return 0, false
	}
	return ((l.state.Index+step)%n + n) % n, true
}

// View projects the current state
func (l *Lightbox) View() View {
	if !l.state.Open {
		return View{}
	}
	item := l.items[l.state.Index]
	return View{
		Open:    true,
		Index:   l.state.Index,
		Item:    &item,
		Media:   MediaFor(item),
		Caption: manifest.Caption(item),
	}
}

// MediaFor picks the full-size element for an item
func MediaFor(item models.MediaItem) *Media {
	if item.Kind == models.KindImage {
		return &Media{Tag: "img", Src: item.Src}
	}
	return &Media{Tag: "video", Src: item.Src, Controls: true}
}

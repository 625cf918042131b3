package overlay

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// AssetRef is an opaque handle into an AssetTable. The zero value means no
// asset. Entities only store references; the table owns the images.
type AssetRef uint32

// NoAsset is the zero AssetRef.
const NoAsset AssetRef = 0

// AssetTable holds the images referenced by entities, such as measurement
// backgrounds and endpoint markers. The zero value is an empty table ready
// to use. Not safe for concurrent mutation.
type AssetTable struct {
	images []*ebiten.Image // index 0 is reserved for NoAsset
	byName map[string]AssetRef
}

// NewAssetTable creates an empty asset table.
func NewAssetTable() *AssetTable {
	return &AssetTable{
		images: []*ebiten.Image{nil},
		byName: make(map[string]AssetRef),
	}
}

// Register adds img under name and returns its reference. Registering a nil
// image returns NoAsset. Registering an existing name replaces the image and
// keeps the reference stable.
func (t *AssetTable) Register(name string, img *ebiten.Image) AssetRef {
	if img == nil {
		return NoAsset
	}
	if t.images == nil {
		t.images = []*ebiten.Image{nil}
	}
	if ref, ok := t.byName[name]; ok {
		t.images[ref] = img
		return ref
	}
	ref := AssetRef(len(t.images))
	t.images = append(t.images, img)
	if name != "" {
		if t.byName == nil {
			t.byName = make(map[string]AssetRef)
		}
		t.byName[name] = ref
	}
	return ref
}

// Lookup returns the reference registered under name.
func (t *AssetTable) Lookup(name string) (AssetRef, bool) {
	ref, ok := t.byName[name]
	return ref, ok
}

// Image resolves ref to its image. NoAsset and released references resolve
// to (nil, false).
func (t *AssetTable) Image(ref AssetRef) (*ebiten.Image, bool) {
	if ref == NoAsset || int(ref) >= len(t.images) {
		return nil, false
	}
	img := t.images[ref]
	return img, img != nil
}

// Release drops the table's reference to the image behind ref. Entities that
// still hold ref resolve it to nothing afterwards.
func (t *AssetTable) Release(ref AssetRef) error {
	if ref == NoAsset || int(ref) >= len(t.images) || t.images[ref] == nil {
		return fmt.Errorf("overlay: release asset %d: %w", ref, ErrUnknownAsset)
	}
	t.images[ref] = nil
	for name, r := range t.byName {
		if r == ref {
			delete(t.byName, name)
		}
	}
	return nil
}

// Len returns the number of live images.
func (t *AssetTable) Len() int {
	n := 0
	for _, img := range t.images {
		if img != nil {
			n++
		}
	}
	return n
}

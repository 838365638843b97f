package game

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// 内置字体名称
const (
	FontRegular = "goregular"
	FontBold    = "gobold"
)

// ResourceManager is responsible for centralized management of rendering resources.
// It caches text faces built from the embedded Go fonts and procedurally
// generated sprites (particle discs, solid pixels), so each is created once.
//
// Thread Safety Note:
// This implementation is NOT thread-safe. For the single-threaded frame loop,
// no synchronization is needed.
//
// Release deallocates every cached GPU image; it is called from scene teardown.
type ResourceManager struct {
	fontSources   map[string]*text.GoTextFaceSource
	fontFaceCache map[string]*text.GoTextFace
	spriteCache   map[string]*ebiten.Image
}

// NewResourceManager creates and initializes a new ResourceManager instance.
func NewResourceManager() *ResourceManager {
	return &ResourceManager{
		fontSources:   make(map[string]*text.GoTextFaceSource),
		fontFaceCache: make(map[string]*text.GoTextFace),
		spriteCache:   make(map[string]*ebiten.Image),
	}
}

func builtinFontData(name string) ([]byte, error) {
	switch name {
	case FontRegular:
		return goregular.TTF, nil
	case FontBold:
		return gobold.TTF, nil
	default:
		return nil, fmt.Errorf("unknown font %q", name)
	}
}

// LoadFont returns a text face for the named built-in font at the given size.
// The face is cached with a key combining name and size.
//
// Parameters:
//   - name: FontRegular or FontBold.
//   - size: The font size in pixels.
func (rm *ResourceManager) LoadFont(name string, size float64) (*text.GoTextFace, error) {
	cacheKey := fmt.Sprintf("%s:%.1f", name, size)
	if cachedFace, exists := rm.fontFaceCache[cacheKey]; exists {
		return cachedFace, nil
	}

	source, ok := rm.fontSources[name]
	if !ok {
		data, err := builtinFontData(name)
		if err != nil {
			return nil, err
		}
		source, err = text.NewGoTextFaceSource(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to create font source for %s: %w", name, err)
		}
		rm.fontSources[name] = source
	}

	face := &text.GoTextFace{
		Source:    source,
		Size:      size,
		Direction: text.DirectionLeftToRight,
	}
	rm.fontFaceCache[cacheKey] = face
	return face, nil
}

// DiscSprite returns a white anti-aliased disc of the given radius (pixels).
// Colour and alpha are applied at draw time through ColorScale.
func (rm *ResourceManager) DiscSprite(radius int) *ebiten.Image {
	if radius < 1 {
		radius = 1
	}
	key := fmt.Sprintf("disc:%d", radius)
	if img, ok := rm.spriteCache[key]; ok {
		return img
	}

	size := radius*2 + 2
	img := ebiten.NewImage(size, size)
	pixels := make([]byte, size*size*4)
	center := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) + 0.5 - center
			dy := float64(y) + 0.5 - center
			// 边缘 1 像素线性衰减
			a := discCoverage(math.Sqrt(dx*dx+dy*dy), float64(radius))
			i := (y*size + x) * 4
			v := byte(a * 255)
			// 预乘 alpha
			pixels[i], pixels[i+1], pixels[i+2], pixels[i+3] = v, v, v, v
		}
	}
	img.WritePixels(pixels)
	rm.spriteCache[key] = img
	return img
}

func discCoverage(dist, radius float64) float64 {
	switch {
	case dist <= radius-0.5:
		return 1
	case dist >= radius+0.5:
		return 0
	default:
		return radius + 0.5 - dist
	}
}

// WhitePixel returns a 3x3 white image used as the source of vertex-coloured triangles.
func (rm *ResourceManager) WhitePixel() *ebiten.Image {
	const key = "white"
	if img, ok := rm.spriteCache[key]; ok {
		return img
	}
	img := ebiten.NewImage(3, 3)
	img.Fill(color.White)
	rm.spriteCache[key] = img
	return img
}

// SpriteCount returns the number of cached sprites.
func (rm *ResourceManager) SpriteCount() int {
	return len(rm.spriteCache)
}

// Release deallocates all cached sprites. Fonts are CPU-side and kept.
// Calling Release more than once is safe.
func (rm *ResourceManager) Release() {
	for key, img := range rm.spriteCache {
		img.Deallocate()
		delete(rm.spriteCache, key)
	}
}

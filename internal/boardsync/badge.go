package boardsync

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"
	"sync"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/park285/detailed-moves/internal/domain"
)

const DefaultBadgeSize = 36

const badgeSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100">
<circle cx="50" cy="50" r="46" fill="%s" stroke="#ffffff" stroke-width="6"/>
</svg>`

type badgeKey struct {
	cat  domain.Category
	size int
}

// Badges renders the round category marker shown on the board, as a PNG
// data URI. Results are cached per category and size.
type Badges struct {
	mu    sync.RWMutex
	cache map[badgeKey]string
}

func NewBadges() *Badges {
	return &Badges{cache: make(map[badgeKey]string)}
}

func (b *Badges) DataURI(cat domain.Category, size int) (string, error) {
	if size <= 0 {
		size = DefaultBadgeSize
	}
	key := badgeKey{cat: cat, size: size}

	b.mu.RLock()
	if uri, ok := b.cache[key]; ok {
		b.mu.RUnlock()
		return uri, nil
	}
	b.mu.RUnlock()

	img, err := renderBadge(cat, size)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode badge: %w", err)
	}
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())

	b.mu.Lock()
	b.cache[key] = uri
	b.mu.Unlock()
	return uri, nil
}

func renderBadge(cat domain.Category, size int) (*image.RGBA, error) {
	if !cat.Valid() {
		return nil, fmt.Errorf("unknown badge category %q", cat)
	}
	icon, err := oksvg.ReadIconStream(strings.NewReader(fmt.Sprintf(badgeSVG, cat.Color())))
	if err != nil {
		return nil, fmt.Errorf("parse badge svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Transparent), image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	drawCentered(img, cat.Symbol())
	return img, nil
}

func drawCentered(img *image.RGBA, text string) {
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: basicfont.Face7x13,
	}
	rect := img.Bounds()
	metrics := drawer.Face.Metrics()
	width := drawer.MeasureString(text).Round()
	x := rect.Min.X + (rect.Dx()-width)/2
	if x < rect.Min.X {
		x = rect.Min.X
	}
	baseline := rect.Min.Y + (rect.Dy()+metrics.Ascent.Ceil()-metrics.Descent.Ceil())/2
	drawer.Dot = fixed.P(x, baseline)
	drawer.DrawString(text)
}

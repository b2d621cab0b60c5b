package skyoverlay

import (
	"image"
	"sync"

	"git.sr.ht/~sbinet/gg"
)

// Background is the baked overlay as it is attached to a container.
type Background struct {
	Image    string `json:"image"` // data:image/png;base64,...
	Size     string `json:"size"`
	Position string `json:"position"`
	Repeat   string `json:"repeat"`
}

// Container is the render target. It holds at most one live canvas; a
// stale canvas from an earlier render is released before a new one is
// acquired.
type Container struct {
	ID         string
	Width      int
	Height     int
	PixelRatio float64

	mu         sync.Mutex
	canvas     *canvas
	background Background
}

type canvas struct {
	dc  *gg.Context
	img *image.RGBA
}

func NewContainer(id string, width, height int, pixelRatio float64) *Container {
	if pixelRatio <= 0 {
		pixelRatio = 1
	}
	return &Container{ID: id, Width: width, Height: height, PixelRatio: pixelRatio}
}

// PixelSize is the canvas size in device pixels.
func (c *Container) PixelSize() (int, int) {
	return int(float64(c.Width) * c.PixelRatio), int(float64(c.Height) * c.PixelRatio)
}

// acquire replaces any canvas left from an earlier render with a blank one
// sized in device pixels.
func (c *Container) acquire() *canvas {
	c.mu.Lock()
	defer c.mu.Unlock()
	w, h := c.PixelSize()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	c.canvas = &canvas{dc: gg.NewContextForRGBA(img), img: img}
	return c.canvas
}

func (c *Container) release() {
	c.mu.Lock()
	c.canvas = nil
	c.mu.Unlock()
}

// LiveCanvases reports how many canvases the container currently holds.
func (c *Container) LiveCanvases() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.canvas == nil {
		return 0
	}
	return 1
}

func coverBackground(dataURL string) Background {
	return Background{Image: dataURL, Size: "cover", Position: "center", Repeat: "no-repeat"}
}

func (c *Container) SetBackground(bg Background) {
	c.mu.Lock()
	c.background = bg
	c.mu.Unlock()
}

func (c *Container) Background() Background {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.background
}

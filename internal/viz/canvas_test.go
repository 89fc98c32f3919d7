package viz

import (
	"strings"
	"testing"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	c.Set(-1, 0)
	c.Set(4, 0)

	if c.Grid[0][0] != rune(0x2800|0x1) {
		t.Errorf("unexpected cell %U", c.Grid[0][0])
	}
	if c.Grid[0][1] != rune(0x2800|0x80) {
		t.Errorf("unexpected cell %U", c.Grid[0][1])
	}
	if !c.IsSet(3, 3) || c.IsSet(2, 0) || c.IsSet(99, 99) {
		t.Error("IsSet disagrees with Set")
	}

	c.Clear()
	if strings.TrimRight(c.String(), "\n") != "\u2800\u2800" {
		t.Errorf("expected blank canvas, got %q", c.String())
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(5, 2)
	c.DrawLine(0, 0, 9, 7)

	if !c.IsSet(0, 0) || !c.IsSet(9, 7) {
		t.Error("line endpoints not drawn")
	}
	count := 0
	w, h := c.PixelSize()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if c.IsSet(x, y) {
				count++
			}
		}
	}
	if count != 10 {
		t.Errorf("expected 10 pixels on a 10-wide line, got %d", count)
	}
}

func TestViewportMap(t *testing.T) {
	c := NewCanvas(10, 5)
	v := c.Viewport(0, 100, 0, 50)

	x, y := v.Map(0, 0)
	if x != 0 || y != 19 {
		t.Errorf("origin mapped to (%d, %d)", x, y)
	}
	x, y = v.Map(100, 50)
	if x != 19 || y != 0 {
		t.Errorf("top right mapped to (%d, %d)", x, y)
	}
}

func TestFillRect(t *testing.T) {
	c := NewCanvas(2, 1)
	c.FillRect(3, 3, 0, 0)
	if c.Grid[0][0] != 0x28FF || c.Grid[0][1] != 0x28FF {
		t.Errorf("expected full cells, got %q", c.String())
	}
}

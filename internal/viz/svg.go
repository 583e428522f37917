package viz

import (
	"fmt"
	"strings"
)

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2   // 2 sub-pixels per char
	height := float64(canvas.Height) * scale * 4 // 4 sub-pixels per char

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff00">
`, width, height, width, height))

	dotRadius := scale * 0.4

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			r := canvas.Grid[row][col]
			if r < 0x2800 {
				continue
			}
			pattern := int(r - 0x2800)

			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, dotRadius))
					}
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>\n")
	return sb.String()
}

// TrajectorySVG renders stored run samples (x, y columns) as a
// trajectory plot scaled into a canvas, then converts it to SVG.
func TrajectorySVG(states [][]float64, worldW, worldH float64, scale float64) string {
	c := NewCanvas(canvasWidth, canvasHeight)

	subW := c.Width * 2
	subH := c.Height * 4
	scaleX := float64(subW-1) / worldW
	scaleY := float64(subH-1) / worldH

	c.DrawRect(0, 0, subW-1, subH-1)

	var prevX, prevY int
	started := false
	for _, s := range states {
		if len(s) < 2 {
			continue
		}
		x := int(s[0] * scaleX)
		y := int(s[1] * scaleY)
		if started {
			c.DrawLine(prevX, prevY, x, y)
		}
		prevX, prevY = x, y
		started = true
	}

	return CanvasToSVG(c, scale)
}

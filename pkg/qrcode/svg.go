package qrcode

import (
	"image/color"
	"strconv"
	"strings"
)

// svg draws the matrix as a scalable document whose viewBox is measured in
// modules. Dark modules are emitted as one horizontal stroke per run, which
// keeps the markup small.
func (m matrix) svg(size int, fg, bg color.NRGBA) []byte {
	total := strconv.Itoa(m.total())
	px := strconv.Itoa(size)

	var b strings.Builder
	b.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" width="` + px + `" height="` + px +
		`" viewBox="0 0 ` + total + ` ` + total + `" shape-rendering="crispEdges">`)

	if bg.A > 0 {
		hex, opacity := svgColor(bg)
		b.WriteString(`<path fill="` + hex + `"` + opacityAttr("fill-opacity", opacity) +
			` d="M0 0h` + total + `v` + total + `H0z"/>`)
	}

	hex, opacity := svgColor(fg)
	b.WriteString(`<path stroke="` + hex + `"` + opacityAttr("stroke-opacity", opacity) + ` d="`)
	for y, row := range m.bits {
		for x := 0; x < len(row); {
			if !row[x] {
				x++
				continue
			}
			run := 1
			for x+run < len(row) && row[x+run] {
				run++
			}
			b.WriteString("M" + strconv.Itoa(x+m.margin) + " " + strconv.Itoa(y+m.margin) + ".5h" + strconv.Itoa(run))
			x += run
		}
	}
	b.WriteString(`"/></svg>`)
	return []byte(b.String())
}

func opacityAttr(name string, opacity float64) string {
	if opacity >= 1 {
		return ""
	}
	return ` ` + name + `="` + strconv.FormatFloat(opacity, 'f', 2, 64) + `"`
}

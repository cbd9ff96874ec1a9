// Package export renders stored run data to standalone SVG documents.
package export

import (
	"fmt"
	"strings"

	"github.com/skyward-labs/quadsim/internal/quad"
)

// FlightPathSVG draws the side view of a run: the x-z flight path as a
// polyline, the commanded reference path dashed behind it, and start
// and end markers. Bounds are fitted to the flown path with 10%
// padding.
func FlightPathSVG(h *quad.History, width, height int) string {
	if h == nil || len(h.States) < 2 {
		return ""
	}

	minX, maxX := h.States[0].Pos.X, h.States[0].Pos.X
	minZ, maxZ := h.States[0].Pos.Z, h.States[0].Pos.Z
	for _, s := range h.States {
		minX = min(minX, s.Pos.X)
		maxX = max(maxX, s.Pos.X)
		minZ = min(minZ, s.Pos.Z)
		maxZ = max(maxZ, s.Pos.Z)
	}

	rangeX := maxX - minX
	rangeZ := maxZ - minZ
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeZ == 0 {
		rangeZ = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minZ -= rangeZ * 0.1
	maxZ += rangeZ * 0.1
	rangeX = maxX - minX
	rangeZ = maxZ - minZ

	px := func(x float64) float64 { return (x - minX) / rangeX * float64(width) }
	pz := func(z float64) float64 { return float64(height) - (z-minZ)/rangeZ*float64(height) }

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	if len(h.Refs) == len(h.States) {
		sb.WriteString(`<path fill="none" stroke="#555555" stroke-width="1" stroke-dasharray="4 3" d="M`)
		writePath(&sb, h.Refs, px, pz)
		sb.WriteString("\"/>\n")
	}

	sb.WriteString(`<path fill="none" stroke="#00ff00" stroke-width="1.5" d="M`)
	writeStatePath(&sb, h.States, px, pz)
	sb.WriteString("\"/>\n")

	first, last := h.States[0].Pos, h.States[len(h.States)-1].Pos
	sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="3" fill="#ffff00"/>
<circle cx="%.1f" cy="%.1f" r="3" fill="#ff4444"/>
</svg>`, px(first.X), pz(first.Z), px(last.X), pz(last.Z)))

	return sb.String()
}

func writeStatePath(sb *strings.Builder, states []quad.VehicleState, px, pz func(float64) float64) {
	for i, s := range states {
		writePoint(sb, i, px(s.Pos.X), pz(s.Pos.Z))
	}
}

func writePath(sb *strings.Builder, refs []quad.Reference, px, pz func(float64) float64) {
	for i, r := range refs {
		writePoint(sb, i, px(r.Pos.X), pz(r.Pos.Z))
	}
}

func writePoint(sb *strings.Builder, i int, x, y float64) {
	if i == 0 {
		fmt.Fprintf(sb, "%.1f,%.1f", x, y)
		return
	}
	fmt.Fprintf(sb, " L%.1f,%.1f", x, y)
}

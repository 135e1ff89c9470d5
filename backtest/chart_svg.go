package backtest

import (
	"bytes"
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"
)

type SVGChartOptions struct {
	Width  int
	Height int
}

func (o SVGChartOptions) withDefaults() SVGChartOptions {
	if o.Width <= 0 {
		o.Width = 980
	}
	if o.Height <= 0 {
		o.Height = 520
	}
	return o
}

// RenderRunSVG draws one backtest run: price candles with entry/exit
// markers for every closed trade, plus the normalized strategy and market
// equity curves overlaid on their own scale. Written by the CLI -chart
// flag; the dashboard consumes the JSON structures instead.
func RenderRunSVG(symbol string, bars []Bar, res *Result, opt SVGChartOptions) ([]byte, error) {
	opt = opt.withDefaults()
	if len(bars) < 2 {
		return nil, fmt.Errorf("not enough bars: %d", len(bars))
	}
	if res == nil {
		return nil, fmt.Errorf("nil result")
	}

	minP := math.Inf(1)
	maxP := math.Inf(-1)
	for _, b := range bars {
		if b.Low > 0 && b.Low < minP {
			minP = b.Low
		}
		if b.High > 0 && b.High > maxP {
			maxP = b.High
		}
	}
	if math.IsInf(minP, 0) || math.IsInf(maxP, 0) || maxP <= minP {
		return nil, fmt.Errorf("invalid price range")
	}
	pad := (maxP - minP) * 0.05
	if pad <= 0 {
		pad = minP * 0.02
	}
	minP -= pad
	maxP += pad

	// Layout
	w := float64(opt.Width)
	h := float64(opt.Height)
	mLeft := 70.0
	mRight := 20.0
	mTop := 24.0
	mBottom := 40.0
	plotW := w - mLeft - mRight
	plotH := h - mTop - mBottom
	if plotW <= 10 || plotH <= 10 {
		return nil, fmt.Errorf("invalid chart size")
	}

	priceToY := func(p float64) float64 {
		r := (p - minP) / (maxP - minP)
		r = math.Max(0, math.Min(1, r))
		return mTop + (1.0-r)*plotH
	}

	n := float64(len(bars))
	step := plotW / n
	cw := math.Max(1.0, step*0.65)

	xAt := func(i int) float64 {
		return mLeft + (float64(i)+0.5)*step
	}
	xByDate := make(map[string]float64, len(bars))
	for i, b := range bars {
		xByDate[b.Date.Format(dateFormat)] = xAt(i)
	}

	bg := "#0b1220"
	grid := "rgba(255,255,255,0.08)"
	up := "#22c55e"
	down := "#ef4444"
	txt := "rgba(255,255,255,0.85)"
	mktLine := "rgba(255,255,255,0.45)"
	stratLine := "#38bdf8"
	mono := "ui-monospace, Menlo, Monaco, Consolas, monospace"

	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	buf.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" width="` + strconv.Itoa(opt.Width) + `" height="` + strconv.Itoa(opt.Height) + `" viewBox="0 0 ` + strconv.Itoa(opt.Width) + ` ` + strconv.Itoa(opt.Height) + `">` + "\n")
	buf.WriteString(`<rect x="0" y="0" width="100%" height="100%" fill="` + bg + `"/>` + "\n")

	// Header
	firstD := bars[0].Date.Format(dateFormat)
	lastD := bars[len(bars)-1].Date.Format(dateFormat)
	title := strings.TrimSpace(symbol)
	if title == "" {
		title = "UNKNOWN"
	}
	buf.WriteString(`<text x="` + fmtFloat(mLeft) + `" y="16" fill="` + txt + `" font-size="14" font-family="` + mono + `">` +
		html.EscapeString(title) + `  ` + html.EscapeString(firstD) + ` ~ ` + html.EscapeString(lastD) + `</text>` + "\n")

	// Grid: price lines (5)
	for k := 0; k <= 5; k++ {
		y := mTop + (float64(k)/5.0)*plotH
		buf.WriteString(`<line x1="` + fmtFloat(mLeft) + `" y1="` + fmtFloat(y) + `" x2="` + fmtFloat(mLeft+plotW) + `" y2="` + fmtFloat(y) + `" stroke="` + grid + `" stroke-width="1"/>` + "\n")
		p := maxP - (float64(k)/5.0)*(maxP-minP)
		buf.WriteString(`<text x="` + fmtFloat(6) + `" y="` + fmtFloat(y+4) + `" fill="` + txt + `" font-size="12" font-family="` + mono + `">` +
			html.EscapeString(fmtPrice(p)) + `</text>` + "\n")
	}

	// Candles
	for i, b := range bars {
		x := xAt(i)
		col := up
		if b.Close < b.Open {
			col = down
		}

		yHi := priceToY(b.High)
		yLo := priceToY(b.Low)
		yO := priceToY(b.Open)
		yC := priceToY(b.Close)
		yTop := math.Min(yO, yC)
		yBot := math.Max(yO, yC)
		if yBot-yTop < 1 {
			yBot = yTop + 1
		}

		// wick
		buf.WriteString(`<line x1="` + fmtFloat(x) + `" y1="` + fmtFloat(yHi) + `" x2="` + fmtFloat(x) + `" y2="` + fmtFloat(yLo) + `" stroke="` + col + `" stroke-width="1"/>` + "\n")
		// body
		buf.WriteString(`<rect x="` + fmtFloat(x-cw/2) + `" y="` + fmtFloat(yTop) + `" width="` + fmtFloat(cw) + `" height="` + fmtFloat(yBot-yTop) + `" fill="` + col + `" opacity="0.9"/>` + "\n")
	}

	// Equity overlays: both curves normalized to their own first value and
	// mapped onto the full plot height.
	writeEquityLine := func(curve []EquityCurvePoint, pick func(EquityCurvePoint) float64, col string) {
		if len(curve) < 2 {
			return
		}
		lo := math.Inf(1)
		hi := math.Inf(-1)
		for _, p := range curve {
			v := pick(p)
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		if hi <= lo {
			hi = lo + 1e-9
		}
		var pts []string
		for _, p := range curve {
			x, ok := xByDate[p.Date]
			if !ok {
				continue
			}
			r := (pick(p) - lo) / (hi - lo)
			y := mTop + (1.0-r)*plotH
			pts = append(pts, fmtFloat(x)+","+fmtFloat(y))
		}
		if len(pts) < 2 {
			return
		}
		buf.WriteString(`<polyline fill="none" stroke="` + col + `" stroke-width="1.4" opacity="0.8" points="` +
			strings.Join(pts, " ") + `"/>` + "\n")
	}
	writeEquityLine(res.EquityCurve, func(p EquityCurvePoint) float64 { return p.Market }, mktLine)
	writeEquityLine(res.EquityCurve, func(p EquityCurvePoint) float64 { return p.Strategy }, stratLine)

	// Trade markers: B at entry, S at exit
	for _, t := range res.PnlGraph {
		if x, ok := xByDate[t.EntryDate]; ok && t.EntryPrice > 0 {
			y := priceToY(t.EntryPrice)
			buf.WriteString(`<circle cx="` + fmtFloat(x) + `" cy="` + fmtFloat(y) + `" r="3.5" fill="` + up + `" />` + "\n")
			buf.WriteString(`<text x="` + fmtFloat(x+6) + `" y="` + fmtFloat(y-6) + `" fill="` + up + `" font-size="12" font-family="` + mono + `">B</text>` + "\n")
		}
		if x, ok := xByDate[t.ExitDate]; ok && t.ExitPrice > 0 {
			y := priceToY(t.ExitPrice)
			buf.WriteString(`<circle cx="` + fmtFloat(x) + `" cy="` + fmtFloat(y) + `" r="3.5" fill="` + down + `" />` + "\n")
			buf.WriteString(`<text x="` + fmtFloat(x+6) + `" y="` + fmtFloat(y-6) + `" fill="` + down + `" font-size="12" font-family="` + mono + `">S</text>` + "\n")
		}
	}

	// Legend
	buf.WriteString(`<text x="` + fmtFloat(mLeft+plotW-220) + `" y="16" fill="` + stratLine + `" font-size="12" font-family="` + mono + `">strategy</text>` + "\n")
	buf.WriteString(`<text x="` + fmtFloat(mLeft+plotW-140) + `" y="16" fill="` + mktLine + `" font-size="12" font-family="` + mono + `">market</text>` + "\n")

	// Footer dates
	buf.WriteString(`<text x="` + fmtFloat(mLeft) + `" y="` + fmtFloat(mTop+plotH+mBottom-12) + `" fill="` + txt + `" font-size="12" font-family="` + mono + `">` +
		html.EscapeString(firstD) + `</text>` + "\n")
	buf.WriteString(`<text x="` + fmtFloat(mLeft+plotW-70) + `" y="` + fmtFloat(mTop+plotH+mBottom-12) + `" fill="` + txt + `" font-size="12" font-family="` + mono + `">` +
		html.EscapeString(lastD) + `</text>` + "\n")

	buf.WriteString(`</svg>` + "\n")
	return buf.Bytes(), nil
}

func fmtFloat(x float64) string {
	// stable compact formatting for SVG attributes
	return strconv.FormatFloat(x, 'f', 2, 64)
}

func fmtPrice(p float64) string {
	// keep price labels readable
	if p >= 1000 {
		return strconv.FormatFloat(p, 'f', 0, 64)
	}
	if p >= 100 {
		return strconv.FormatFloat(p, 'f', 1, 64)
	}
	return strconv.FormatFloat(p, 'f', 2, 64)
}

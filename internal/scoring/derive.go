package scoring

import (
	"math"
	"ootp-toolkit/internal/domain"
)

// Derived keys inserted before scoring.
const (
	KeySingles   = "1B"
	KeyISO       = "ISO"
	KeyBABIP     = "BABIP"
	KeyKPer9     = "K/9"
	KeyKPerBB    = "K/BB"
	KeyFIP       = "FIP"
	KeyIPTrue    = "IPTrue"
	fipConstant  = 3.2
	inningsOuts  = 3
	strikeoutKey = "K"
)

// Derive returns a copy of row with the derived fields for rowType added.
// Each field is computed only when its primary inputs are present. Division
// by zero innings or at-bats is not guarded: the result is +Inf or NaN.
func Derive(rowType domain.RowType, row domain.StatRow) domain.StatRow {
	switch rowType {
	case domain.Hitting:
		return row.WithStats(deriveHitting(row))
	case domain.Pitching:
		return row.WithStats(derivePitching(row))
	}
	return row
}

// DeriveAll applies Derive to every row.
func DeriveAll(rowType domain.RowType, rows []domain.StatRow) []domain.StatRow {
	out := make([]domain.StatRow, len(rows))
	for i, r := range rows {
		out[i] = Derive(rowType, r)
	}
	return out
}

func deriveHitting(row domain.StatRow) map[string]float64 {
	set := make(map[string]float64)

	h, hasH := row.Stat("H")
	hr := row.StatOr("HR", 0)
	if hasH {
		set[KeySingles] = h - row.StatOr("2B", 0) - row.StatOr("3B", 0) - hr
	}

	slg, hasSLG := row.Stat("SLG")
	avg, hasAVG := row.Stat("AVG")
	if hasSLG && hasAVG {
		set[KeyISO] = slg - avg
	}

	if ab, ok := row.Stat("AB"); ok && hasH {
		denom := ab - strikeouts(row) - hr + row.StatOr("SF", 0)
		set[KeyBABIP] = (h - hr) / denom
	}

	return set
}

func derivePitching(row domain.StatRow) map[string]float64 {
	set := make(map[string]float64)

	k, hasK := row.Stat(strikeoutKey)
	if !hasK {
		k, hasK = row.Stat("SO")
	}
	ip, hasIP := row.Stat("IP")
	bb := row.StatOr("BB", 0)

	if hasK && hasIP {
		set[KeyKPer9] = k * 9 / ip
	}
	if hasK {
		if bb > 0 {
			set[KeyKPerBB] = k / bb
		} else {
			set[KeyKPerBB] = k
		}
	}
	if hasIP {
		set[KeyIPTrue] = InningsFromNotation(ip)
		hr := row.StatOr("HR", 0)
		hbp := row.StatOr("HBP", 0)
		set[KeyFIP] = (13*hr+3*(bb+hbp)-2*k)/ip + fipConstant
	}

	return set
}

func strikeouts(row domain.StatRow) float64 {
	if k, ok := row.Stat(strikeoutKey); ok {
		return k
	}
	return row.StatOr("SO", 0)
}

// InningsFromNotation converts baseball innings notation, where the digit
// after the point counts outs (6.2 is six and two-thirds), to true innings.
// Derive stores it under KeyIPTrue; K/9 and FIP divide by the raw IP.
// Values whose fractional part is not .0, .1 or .2 are returned unchanged.
func InningsFromNotation(ip float64) float64 {
	if math.IsInf(ip, 0) || math.IsNaN(ip) {
		return ip
	}
	whole, frac := math.Modf(ip)
	outs := math.Round(frac * 10)
	if math.Abs(frac*10-outs) > 1e-6 || math.Abs(outs) >= inningsOuts {
		return ip
	}
	return whole + outs/inningsOuts
}

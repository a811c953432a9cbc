package domain

import (
	"fmt"
	"math"
	"strings"
)

// earthRadiusMiles scales great-circle angles to distances.
const earthRadiusMiles = 3959

// gridCells is the number of subsquares along each axis of the globe:
// 18 fields x 10 squares x 24 subsquares.
const gridCells = 18 * 10 * 24

// centerSubsquare pads a 4-character locator to the middle of its square.
const centerSubsquare = "NN"

var cardinals = [...]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW", "N",
}

// Locator is a decoded grid square position, in radians.
type Locator struct {
	Lon float64
	Lat float64
}

// ParseLocator decodes a 4- or 6-character Maidenhead locator. Longer
// locators are truncated to 6 characters.
func ParseLocator(grid string) (Locator, error) {
	g := strings.ToUpper(strings.TrimSpace(grid))
	if len(g) > 6 {
		g = g[:6]
	}
	if len(g) == 4 {
		g += centerSubsquare
	}
	if len(g) != 6 {
		return Locator{}, fmt.Errorf("locator %q: want 4 or 6 characters", grid)
	}
	if !inRange(g[0], 'A', 'R') || !inRange(g[1], 'A', 'R') ||
		!inRange(g[2], '0', '9') || !inRange(g[3], '0', '9') ||
		!inRange(g[4], 'A', 'X') || !inRange(g[5], 'A', 'X') {
		return Locator{}, fmt.Errorf("locator %q: invalid character", grid)
	}

	lon := int(g[0]-'A')*10*24 + int(g[2]-'0')*24 + int(g[4]-'A')
	lat := int(g[1]-'A')*10*24 + int(g[3]-'0')*24 + int(g[5]-'A')

	return Locator{
		Lon: float64(lon)/gridCells*(2*math.Pi) - math.Pi,
		Lat: float64(lat)/gridCells*math.Pi - math.Pi/2,
	}, nil
}

func inRange(c, lo, hi byte) bool { return c >= lo && c <= hi }

// Vector is the great-circle path from one locator to another.
type Vector struct {
	Distance   int     // miles, at least 1
	Bearing    int     // degrees true, [0, 360)
	BearingRad float64 // radians, (-pi, pi]
	Cardinal   string  // 16-point compass label
}

// PathBetween computes the distance and initial bearing from src to dst.
func PathBetween(src, dst Locator) Vector {
	dlon := dst.Lon - src.Lon

	// Rounding can push the cosine just past 1 for co-located points.
	cosRho := math.Sin(src.Lat)*math.Sin(dst.Lat) +
		math.Cos(src.Lat)*math.Cos(dst.Lat)*math.Cos(dlon)
	rho := math.Acos(math.Max(-1, math.Min(1, cosRho)))

	az := math.Atan2(math.Sin(dlon),
		math.Cos(src.Lat)*math.Tan(dst.Lat)-math.Sin(src.Lat)*math.Cos(dlon))
	azDeg := math.Mod(az/(2*math.Pi)*360+360, 360)

	dist := int(math.Abs(rho * earthRadiusMiles))
	if dist == 0 {
		dist = 1
	}

	return Vector{
		Distance:   dist,
		Bearing:    int(azDeg),
		BearingRad: az,
		Cardinal:   cardinals[int(math.Floor(azDeg/22.5))],
	}
}

// Package geometry provides 3D export adapters.
// Clean Architecture: Adapter implementing ports.GeometryExporter.
package geometry

import (
	"fmt"
	"math"
	"strings"

	"github.com/rebuildintel/rebuild-go/internal/domain/entities"
)

const (
	pieceWidthM  = 0.6
	pieceDepthM  = 0.6
	heightPerKg  = 1.0 / 120.0
	minHeightM   = 0.25
	maxHeightM   = 2.5
	zeroMassFill = 0.4
)

// OBJExporter renders piece plans as Wavefront OBJ boxes, one object per
// piece, sized by mass and rotated to the optimal cut angle.
type OBJExporter struct{}

// NewOBJExporter creates a new OBJ exporter.
func NewOBJExporter() *OBJExporter {
	return &OBJExporter{}
}

// FileExtension returns the extension for exported files.
func (e *OBJExporter) FileExtension() string {
	return ".obj"
}

// boxFaces are the six quads of a box, 1-based within one object.
var boxFaces = [6][4]int{
	{1, 2, 3, 4},
	{5, 6, 7, 8},
	{1, 5, 8, 4},
	{2, 6, 7, 3},
	{4, 3, 7, 8},
	{1, 2, 6, 5},
}

// Export renders the pieces as OBJ text. Output depends only on the input
// sequence, so repeated exports of the same report are byte-identical.
func (e *OBJExporter) Export(pieces []entities.Piece) ([]byte, error) {
	var b strings.Builder
	b.WriteString("# ReBuild Intelligence OBJ export\n")

	vertexOffset := 0
	for idx, piece := range pieces {
		name := piece.PieceID
		if name == "" {
			name = fmt.Sprintf("piece-%d", idx+1)
		}
		fmt.Fprintf(&b, "o %s\n", name)

		for _, v := range pieceVertices(piece, idx) {
			fmt.Fprintf(&b, "v %.6f %.6f %.6f\n", v[0], v[1], v[2])
		}
		for _, f := range boxFaces {
			fmt.Fprintf(&b, "f %d %d %d %d\n",
				vertexOffset+f[0], vertexOffset+f[1], vertexOffset+f[2], vertexOffset+f[3])
		}
		vertexOffset += 8
	}

	return []byte(b.String()), nil
}

// pieceVertices builds the eight corners of one piece box, rotated about Y
// by the cut angle and translated to the center of mass.
func pieceVertices(piece entities.Piece, idx int) [8][3]float64 {
	height := piece.MassKg * heightPerKg
	if piece.MassKg == 0 {
		height = zeroMassFill
	}
	height = math.Max(minHeightM, math.Min(maxHeightM, height))

	halfW := pieceWidthM / 2
	halfD := pieceDepthM / 2
	halfH := height / 2

	base := [8][3]float64{
		{-halfW, -halfH, -halfD},
		{halfW, -halfH, -halfD},
		{halfW, halfH, -halfD},
		{-halfW, halfH, -halfD},
		{-halfW, -halfH, halfD},
		{halfW, -halfH, halfD},
		{halfW, halfH, halfD},
		{-halfW, halfH, halfD},
	}

	angle := piece.OptimalCutAngle * math.Pi / 180
	cosA := math.Cos(angle)
	sinA := math.Sin(angle)

	cx, cy, cz := normalizeCenter(piece.CenterOfMass, idx)

	var out [8][3]float64
	for i, v := range base {
		x, y, z := v[0], v[1], v[2]
		rx := x*cosA - z*sinA
		rz := x*sinA + z*cosA
		out[i] = [3]float64{rx + cx, y + cy, rz + cz}
	}
	return out
}

// normalizeCenter substitutes index-derived staging coordinates when a piece
// carries no center of mass, spreading unplaced boxes along a line.
func normalizeCenter(c entities.Coordinate, idx int) (float64, float64, float64) {
	if c == (entities.Coordinate{}) {
		return float64(idx)*0.65 - 2.0, 0.6 + float64(idx)*0.05, 0.0
	}
	return c.X, c.Y, c.Z
}

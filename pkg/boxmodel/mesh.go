package boxmodel

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"mini-render/internal/geometry"
)

// GridSize is the number of model units across one world unit.
const GridSize = 16

var (
	ErrUnknownFace   = errors.New("boxmodel: unknown face")
	ErrInvalidBox    = errors.New("boxmodel: element has from > to")
	ErrRotationAxis  = errors.New("boxmodel: rotation axis must be x, y or z")
	ErrUnresolvedTex = errors.New("boxmodel: unresolved texture reference")
)

type faceDir struct {
	axis int
	sign float32
}

var faceDirs = map[string]faceDir{
	"west":  {0, -1},
	"east":  {0, 1},
	"down":  {1, -1},
	"up":    {1, 1},
	"north": {2, -1},
	"south": {2, 1},
}

// Part is the geometry of every face drawn with one texture.
type Part struct {
	Texture string
	Mesh    geometry.MeshData
}

// Build converts the faces of m into one indexed triangle mesh per texture,
// sorted by texture name. Positions are centered so a full 0..16 box becomes
// the unit cube around the origin.
func Build(m *Model) ([]Part, error) {
	byTexture := make(map[string]*geometry.MeshData)
	for i, e := range m.Elements {
		if e.From[0] > e.To[0] || e.From[1] > e.To[1] || e.From[2] > e.To[2] {
			return nil, fmt.Errorf("%w: element %d", ErrInvalidBox, i)
		}
		rot, err := e.rotation()
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}

		names := make([]string, 0, len(e.Faces))
		for name := range e.Faces {
			names = append(names, name)
		}
		slices.Sort(names)

		for _, name := range names {
			face := e.Faces[name]
			dir, ok := faceDirs[name]
			if !ok {
				return nil, fmt.Errorf("%w: element %d %q", ErrUnknownFace, i, name)
			}
			if strings.HasPrefix(face.Texture, "#") {
				return nil, fmt.Errorf("%w: element %d %s %s", ErrUnresolvedTex, i, name, face.Texture)
			}
			mesh, ok := byTexture[face.Texture]
			if !ok {
				mesh = &geometry.MeshData{
					Format:   geometry.WithNormal | geometry.WithTexCoord,
					Topology: geometry.Triangles,
				}
				byTexture[face.Texture] = mesh
			}
			appendFace(mesh, e, face, dir, rot)
		}
	}

	parts := make([]Part, 0, len(byTexture))
	for tex, mesh := range byTexture {
		parts = append(parts, Part{Texture: tex, Mesh: *mesh})
	}
	slices.SortFunc(parts, func(a, b Part) int { return cmp.Compare(a.Texture, b.Texture) })
	return parts, nil
}

// rotation returns the element's rotation as a matrix in grid units.
func (e Element) rotation() (mgl32.Mat4, error) {
	if e.Rotation == nil || e.Rotation.Angle == 0 {
		return mgl32.Ident4(), nil
	}
	r := e.Rotation
	angle := mgl32.DegToRad(r.Angle)
	var m mgl32.Mat4
	switch r.Axis {
	case "x":
		m = mgl32.HomogRotate3DX(angle)
	case "y":
		m = mgl32.HomogRotate3DY(angle)
	case "z":
		m = mgl32.HomogRotate3DZ(angle)
	default:
		return mgl32.Mat4{}, fmt.Errorf("%w: %q", ErrRotationAxis, r.Axis)
	}
	o := r.Origin
	return mgl32.Translate3D(o[0], o[1], o[2]).Mul4(m).Mul4(mgl32.Translate3D(-o[0], -o[1], -o[2])), nil
}

func appendFace(mesh *geometry.MeshData, e Element, face Face, dir faceDir, rot mgl32.Mat4) {
	// u and v follow the axis cyclically, so u x v points along +axis.
	ua, va := (dir.axis+1)%3, (dir.axis+2)%3

	plane := e.From[dir.axis]
	if dir.sign > 0 {
		plane = e.To[dir.axis]
	}
	uv := face.UV
	if uv == [4]float32{} {
		uv = [4]float32{e.From[ua], e.From[va], e.To[ua], e.To[va]}
	}

	var normal mgl32.Vec3
	normal[dir.axis] = dir.sign
	normal = rot.Mul4x1(normal.Vec4(0)).Vec3().Normalize()

	offset := uint32(len(mesh.Vertices))
	for _, c := range [4][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
		var p mgl32.Vec3
		p[dir.axis] = plane
		p[ua] = pick(e.From[ua], e.To[ua], c[0])
		p[va] = pick(e.From[va], e.To[va], c[1])
		p = rot.Mul4x1(p.Vec4(1)).Vec3()

		mesh.Vertices = append(mesh.Vertices, geometry.Vertex{
			Position: p.Mul(1.0 / GridSize).Sub(mgl32.Vec3{0.5, 0.5, 0.5}),
			Normal:   normal,
			TexCoord: mgl32.Vec2{
				pick(uv[0], uv[2], c[0]) / GridSize,
				pick(uv[1], uv[3], c[1]) / GridSize,
			},
		})
	}
	if dir.sign > 0 {
		mesh.Indices = append(mesh.Indices, offset, offset+1, offset+3, offset, offset+3, offset+2)
	} else {
		mesh.Indices = append(mesh.Indices, offset, offset+3, offset+1, offset, offset+2, offset+3)
	}
}

func pick(a, b float32, i int) float32 {
	if i == 0 {
		return a
	}
	return b
}

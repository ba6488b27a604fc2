package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ParticleQuadSize is half the edge length of the particle billboard.
const ParticleQuadSize = 0.035

var (
	unitFace = [4]mgl32.Vec2{
		{-0.5, -0.5},
		{0.5, -0.5},
		{-0.5, 0.5},
		{0.5, 0.5},
	}
	faceIndices = [6]uint32{0, 1, 3, 0, 3, 2}

	cubeCorners = [8]mgl32.Vec3{
		{-0.5, -0.5, -0.5}, // back
		{0.5, -0.5, -0.5},
		{-0.5, 0.5, -0.5},
		{0.5, 0.5, -0.5},
		{-0.5, -0.5, 0.5}, // front
		{0.5, -0.5, 0.5},
		{-0.5, 0.5, 0.5},
		{0.5, 0.5, 0.5},
	}
)

// insertDimension builds a Vec3 from v with value placed at axis.
func insertDimension(v mgl32.Vec2, axis int, value float32) mgl32.Vec3 {
	switch axis {
	case 0:
		return mgl32.Vec3{value, v[0], v[1]}
	case 1:
		return mgl32.Vec3{v[0], value, v[1]}
	default:
		return mgl32.Vec3{v[0], v[1], value}
	}
}

func positionsOnly(points []mgl32.Vec3) []Vertex {
	vertices := make([]Vertex, len(points))
	for i, p := range points {
		vertices[i].Position = p
	}
	return vertices
}

// Cube is a unit cube with positions only.
func Cube() MeshData {
	return MeshData{
		Vertices: positionsOnly(cubeCorners[:]),
		Indices: []uint32{
			0, 1, 3, 0, 3, 2, // back
			4, 5, 7, 4, 7, 6, // front
			0, 4, 6, 0, 6, 2, // left
			1, 5, 7, 1, 7, 3, // right
			0, 4, 5, 0, 5, 1, // bottom
			2, 6, 7, 2, 7, 3, // top
		},
		Topology: Triangles,
	}
}

// CubeOutline is the 12 edges of a unit cube.
func CubeOutline() MeshData {
	return MeshData{
		Vertices: positionsOnly(cubeCorners[:]),
		Indices: []uint32{
			0, 1, 1, 3, 3, 2, 2, 0,
			4, 5, 5, 7, 7, 6, 6, 4,
			0, 4, 1, 5, 2, 6, 3, 7,
		},
		Topology: Lines,
	}
}

// CubeNormTex is a unit cube with per-face normals and texture coordinates.
func CubeNormTex() MeshData {
	mesh := MeshData{Format: WithNormal | WithTexCoord, Topology: Triangles}
	for axis := 0; axis < 3; axis++ {
		for _, dir := range []float32{-1, 1} {
			offset := uint32(len(mesh.Vertices))
			for _, corner := range unitFace {
				mesh.Vertices = append(mesh.Vertices, Vertex{
					Position: insertDimension(corner, axis, dir*0.5),
					Normal:   insertDimension(mgl32.Vec2{}, axis, dir),
					TexCoord: corner.Add(mgl32.Vec2{0.5, 0.5}),
				})
			}
			for _, idx := range faceIndices {
				mesh.Indices = append(mesh.Indices, idx+offset)
			}
		}
	}
	return mesh
}

// Plane is a unit square in the XY plane facing +Z.
func Plane() MeshData {
	mesh := MeshData{Format: WithNormal | WithTexCoord, Topology: Triangles}
	for _, corner := range unitFace {
		mesh.Vertices = append(mesh.Vertices, Vertex{
			Position: insertDimension(corner, 2, 0),
			Normal:   mgl32.Vec3{0, 0, 1},
			TexCoord: corner.Add(mgl32.Vec2{0.5, 0.5}),
		})
	}
	mesh.Indices = append(mesh.Indices, faceIndices[:]...)
	return mesh
}

// PlaneOutline is the border of Plane.
func PlaneOutline() MeshData {
	points := make([]mgl32.Vec3, len(unitFace))
	for i, corner := range unitFace {
		points[i] = insertDimension(corner, 2, 0)
	}
	return MeshData{
		Vertices: positionsOnly(points),
		Indices:  []uint32{0, 1, 1, 3, 3, 2, 2, 0},
		Topology: Lines,
	}
}

// Quad covers clip space; used by every full-screen pass.
func Quad() MeshData {
	mesh := MeshData{Format: WithTexCoord, Topology: Triangles}
	for _, corner := range unitFace {
		mesh.Vertices = append(mesh.Vertices, Vertex{
			Position: mgl32.Vec3{corner[0] * 2, corner[1] * 2, 0},
			TexCoord: corner.Add(mgl32.Vec2{0.5, 0.5}),
		})
	}
	mesh.Indices = append(mesh.Indices, faceIndices[:]...)
	return mesh
}

// AxisGizmo is three colored unit lines along X (red), Y (green) and Z (blue).
func AxisGizmo() MeshData {
	mesh := MeshData{Format: WithColor, Topology: Lines}
	for axis := 0; axis < 3; axis++ {
		var dir mgl32.Vec3
		dir[axis] = 1
		mesh.Vertices = append(mesh.Vertices,
			Vertex{Color: dir},
			Vertex{Position: dir, Color: dir},
		)
		mesh.Indices = append(mesh.Indices, uint32(axis*2), uint32(axis*2+1))
	}
	return mesh
}

// Sphere is a UV sphere of radius 0.5. stacks and slices are clamped to
// at least 2 and 3.
func Sphere(stacks, slices int) MeshData {
	stacks = max(stacks, 2)
	slices = max(slices, 3)

	mesh := MeshData{Format: WithNormal | WithTexCoord, Topology: Triangles}
	for i := 0; i <= stacks; i++ {
		v := float64(i) / float64(stacks)
		phi := v * math.Pi
		for j := 0; j <= slices; j++ {
			u := float64(j) / float64(slices)
			theta := u * 2 * math.Pi
			n := mgl32.Vec3{
				float32(math.Sin(phi) * math.Cos(theta)),
				float32(math.Cos(phi)),
				float32(math.Sin(phi) * math.Sin(theta)),
			}
			mesh.Vertices = append(mesh.Vertices, Vertex{
				Position: n.Mul(0.5),
				Normal:   n,
				TexCoord: mgl32.Vec2{float32(u), 1 - float32(v)},
			})
		}
	}

	row := uint32(slices + 1)
	for i := uint32(0); i < uint32(stacks); i++ {
		for j := uint32(0); j < uint32(slices); j++ {
			a := i*row + j
			b := a + row
			mesh.Indices = append(mesh.Indices, a, b, a+1, a+1, b, b+1)
		}
	}
	return mesh
}

// InstancedCube is CubeNormTex drawn once per instance of the stream.
func InstancedCube(instances *InstanceStream) MeshData {
	mesh := CubeNormTex()
	mesh.Instances = instances
	return mesh
}

// ParticleQuad is the billboard drawn once per particle instance. The vertex
// shader expands it along the camera right/up vectors.
func ParticleQuad(instances *InstanceStream) MeshData {
	const s = ParticleQuadSize
	normal := mgl32.Vec3{0, 0, 1}
	return MeshData{
		Vertices: []Vertex{
			{Position: mgl32.Vec3{s, s, 0}, Normal: normal, TexCoord: mgl32.Vec2{1, 1}},
			{Position: mgl32.Vec3{-s, s, 0}, Normal: normal, TexCoord: mgl32.Vec2{0, 1}},
			{Position: mgl32.Vec3{s, -s, 0}, Normal: normal, TexCoord: mgl32.Vec2{1, 0}},
			{Position: mgl32.Vec3{-s, -s, 0}, Normal: normal, TexCoord: mgl32.Vec2{0, 0}},
		},
		Format:    WithNormal | WithTexCoord,
		Indices:   []uint32{0, 1, 2, 3},
		Topology:  TriangleStrip,
		Instances: instances,
	}
}

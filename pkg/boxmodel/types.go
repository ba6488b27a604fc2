package boxmodel

import "maps"

// Model is a shape made of axis-aligned boxes in a 16 unit grid, loaded from
// JSON. A model may name a parent it inherits elements and textures from.
type Model struct {
	Parent   string            `json:"parent"`
	Textures map[string]string `json:"textures"`
	Elements []Element         `json:"elements"`
}

// Element is one box spanning From to To, optionally rotated about a single
// axis.
type Element struct {
	From     [3]float32      `json:"from"`
	To       [3]float32      `json:"to"`
	Rotation *Rotation       `json:"rotation"`
	Faces    map[string]Face `json:"faces"`
}

type Rotation struct {
	Origin [3]float32 `json:"origin"`
	Angle  float32    `json:"angle"`
	Axis   string     `json:"axis"`
}

// Face is one side of an element. UV is (u0, v0, u1, v1) in grid units; a
// zero UV maps the face's own extent. Texture is a texture name or a
// "#key" reference into the model's texture table.
type Face struct {
	UV      [4]float32 `json:"uv"`
	Texture string     `json:"texture"`
}

func (e Element) clone() Element {
	out := e
	if e.Rotation != nil {
		r := *e.Rotation
		out.Rotation = &r
	}
	out.Faces = maps.Clone(e.Faces)
	return out
}

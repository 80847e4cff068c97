package models

// boxTriangles are the faces of a box whose vertices 0-3 are the bottom
// corners and 4-7 the corners above them. The demo's larger box leaves out
// the last two faces.
var boxTriangles = [][3]int{
	{0, 1, 2}, {0, 2, 3},
	{1, 6, 5}, {1, 2, 6},
	{0, 1, 5}, {0, 5, 4},
	{2, 3, 6}, {3, 7, 6},
	{5, 7, 4}, {5, 6, 7},
	{3, 4, 7}, {3, 0, 4},
}

// DemoScene returns the built-in scene: a slanted blue-gray box next to a
// red light cube, a tall mirror panel on the left, all resting on a large
// floor.
func DemoScene() *SceneFile {
	sf := &SceneFile{
		Meshes: []MeshSpec{
			{
				Name: "box",
				Vertices: [][3]float64{
					{0.1, -0.5, -0.6}, {0.5, -0.5, -0.6}, {0.4, -0.5, -1}, {0, -0.5, -1},
					{0.1, 0.1, -0.6}, {0.5, 0.1, -0.6}, {0.4, 0.3, -1}, {0, 0.3, -1},
				},
				Triangles: boxTriangles[:10],
				Material:  MaterialSpec{Kind: "lambertian", Color: [3]float64{0.3, 0.4, 0.5}},
			},
			{
				Name: "mirror",
				Vertices: [][3]float64{
					{-1.5, -0.5, -1.5}, {-1, -0.5, -1}, {-0.5, -0.5, -1.5}, {-1, -0.5, -2},
					{-1.5, 1, -1.5}, {-1, 1, -1}, {-0.5, 1, -1.5}, {-1, 1, -2},
				},
				Triangles: boxTriangles[:4],
				Material:  MaterialSpec{Kind: "metal", Color: [3]float64{0.9, 0.8, 0.85}},
			},
			{
				Name: "floor",
				Vertices: [][3]float64{
					{-555, -0.51, 5}, {555, -0.51, 5}, {-555, -0.51, -155}, {555, -0.51, -155},
				},
				Triangles: [][3]int{{0, 3, 2}, {1, 3, 0}},
				Material:  MaterialSpec{Kind: "lambertian", Color: [3]float64{0.7, 0.8, 0.5}},
			},
			{
				Name: "light",
				Vertices: [][3]float64{
					{0.3, -0.5, -0.65}, {0.4, -0.5, -0.65}, {0.4, -0.5, -0.7}, {0.3, -0.5, -0.7},
					{0.3, -0.4, -0.65}, {0.4, -0.4, -0.65}, {0.4, -0.4, -0.7}, {0.3, -0.4, -0.7},
				},
				Triangles: boxTriangles,
				Material:  MaterialSpec{Kind: "emissive", Color: [3]float64{4, 1, 1}},
			},
		},
	}
	sf.ApplyDefaults()
	return sf
}

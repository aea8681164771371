package math

// GenerateTriangle returns three vertices of an upright triangle centered at
// the origin, one colour channel per corner.
func GenerateTriangle(size float32) []Vertex3D {
	half := size * 0.5
	return []Vertex3D{
		{Position: NewVec3(-half, -half, 0), Colour: NewColour(1, 0, 0, 1), Texcoord: NewVec2(0, 0)},
		{Position: NewVec3(half, -half, 0), Colour: NewColour(0, 1, 0, 1), Texcoord: NewVec2(1, 0)},
		{Position: NewVec3(0, half, 0), Colour: NewColour(0, 0, 1, 1), Texcoord: NewVec2(0.5, 1)},
	}
}

// GenerateQuad returns a width x height quad as two triangles (six vertices)
// so it can be drawn with TRIANGLES.
func GenerateQuad(width, height float32, colour Vec4) []Vertex3D {
	hw := width * 0.5
	hh := height * 0.5
	tl := Vertex3D{Position: NewVec3(-hw, hh, 0), Colour: colour, Texcoord: NewVec2(0, 1)}
	tr := Vertex3D{Position: NewVec3(hw, hh, 0), Colour: colour, Texcoord: NewVec2(1, 1)}
	bl := Vertex3D{Position: NewVec3(-hw, -hh, 0), Colour: colour, Texcoord: NewVec2(0, 0)}
	br := Vertex3D{Position: NewVec3(hw, -hh, 0), Colour: colour, Texcoord: NewVec2(1, 0)}
	return []Vertex3D{bl, br, tr, tr, tl, bl}
}

// GenerateCircle returns a fan of segments+2 vertices: the center followed by
// the closed rim. Fewer than 3 segments yields nil.
func GenerateCircle(center Vec3, radius float32, segments int, colour Vec4) []Vertex3D {
	if segments < 3 {
		return nil
	}
	vertices := make([]Vertex3D, 0, segments+2)
	vertices = append(vertices, Vertex3D{Position: center, Colour: colour, Texcoord: NewVec2(0.5, 0.5)})
	step := K_PI_2 / float32(segments)
	for i := 0; i <= segments; i++ {
		// The last rim vertex repeats the first one to close the fan.
		angle := step * float32(i%segments)
		c, s := kcos(angle), ksin(angle)
		vertices = append(vertices, Vertex3D{
			Position: center.Add(NewVec3(c, s, 0).MulScalar(radius)),
			Colour:   colour,
			Texcoord: NewVec2(0.5+c*0.5, 0.5+s*0.5),
		})
	}
	return vertices
}

// GenerateRandomStrip returns count vertices with random positions inside
// [-extent, extent] and random colours.
func GenerateRandomStrip(count int, extent float32) []Vertex3D {
	vertices := make([]Vertex3D, count)
	for i := range vertices {
		vertices[i] = Vertex3D{
			Position: NewVec3(RandomInRange(-extent, extent), RandomInRange(-extent, extent), 0),
			Colour:   RandomColour(),
		}
	}
	return vertices
}

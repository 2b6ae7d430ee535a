package main

import (
	"fmt"
	"os"

	"img2mesh/internal/meshio"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: meshinfo <mesh.obj>")
		os.Exit(2)
	}
	path := os.Args[1]
	f, err := os.Open(path)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	obj, err := meshio.ParseOBJ(f)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Vertices: %d, UVs: %d, Colors: %d, Triangles: %d\n",
		len(obj.Positions), len(obj.UVs), len(obj.Colors), len(obj.Faces))
	if obj.MaterialLib != "" {
		fmt.Printf("Material: %s (%s)\n", obj.Material, obj.MaterialLib)
	}
	if len(obj.Positions) == 0 {
		return
	}

	lo, hi := obj.Bounds()
	fmt.Printf("BBox: X[%.3f, %.3f] Y[%.3f, %.3f] Z[%.3f, %.3f]\n", lo[0], hi[0], lo[1], hi[1], lo[2], hi[2])
	size := hi.Sub(lo)
	fmt.Printf("Size: %.3f x %.3f x %.3f\n", size[0], size[1], size[2])

	var area float64
	for _, face := range obj.Faces {
		a, b, c := obj.Positions[face[0]], obj.Positions[face[1]], obj.Positions[face[2]]
		area += 0.5 * float64(b.Sub(a).Cross(c.Sub(a)).Len())
	}
	fmt.Printf("Surface area: %.4f\n", area)
}

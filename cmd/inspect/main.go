// Command inspect prints the structure of BMD models: meshes, material
// slots, bones and actions. With --rig it also checks whether each model
// can share the rig's animation.
package main

import (
	"fmt"
	"math"
	"os"

	"github.com/spf13/pflag"

	"avatar-picker/internal/bmd"
	"avatar-picker/internal/skeleton"
)

func main() {
	rig := pflag.String("rig", "", "body model to check item rigs against")
	bones := pflag.Bool("bones", false, "list every bone")
	pflag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: inspect [--rig body.bmd] [--bones] model.bmd...")
		pflag.PrintDefaults()
	}
	pflag.Parse()
	if pflag.NArg() == 0 {
		pflag.Usage()
		os.Exit(2)
	}

	var body *skeleton.Skeleton
	if *rig != "" {
		m, err := bmd.Parse(*rig)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		body = skeleton.FromBones(m.Bones)
		fmt.Printf("Rig %s: %d bones\n", *rig, body.Len())
	}

	failed := false
	for _, path := range pflag.Args() {
		m, err := bmd.Parse(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			failed = true
			continue
		}
		describe(path, m, *bones)
		if body != nil {
			if err := skeleton.Congruent(body, skeleton.FromBones(m.Bones)); err != nil {
				fmt.Printf("  Rig: %v\n", err)
				failed = true
			} else {
				fmt.Println("  Rig: congruent")
			}
		}
	}
	if failed {
		os.Exit(1)
	}
}

func describe(path string, m *bmd.Model, listBones bool) {
	fmt.Printf("%s (%q): meshes=%d, bones=%d, actions=%d\n", path, m.Name, len(m.Meshes), len(m.Bones), len(m.Actions))
	for i, mesh := range m.Meshes {
		lo := [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
		hi := [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
		for _, v := range mesh.Verts {
			for k := 0; k < 3; k++ {
				lo[k] = math.Min(lo[k], float64(v[k]))
				hi[k] = math.Max(hi[k], float64(v[k]))
			}
		}
		fmt.Printf("  Mesh[%d]: verts=%d, tris=%d, material=%q, texture=%q\n", i, len(mesh.Verts), len(mesh.Tris), mesh.Material, mesh.TexPath)
		if len(mesh.Verts) > 0 {
			fmt.Printf("    BBox: X[%.1f, %.1f] Y[%.1f, %.1f] Z[%.1f, %.1f]\n", lo[0], hi[0], lo[1], hi[1], lo[2], hi[2])
		}
	}

	for i, a := range m.Actions {
		lock := ""
		if a.LockPositions {
			lock = ", locked"
		}
		fmt.Printf("  Action[%d]: keys=%d%s\n", i, a.Keys, lock)
	}
	if clip, ok := skeleton.NewClip(m, m.FirstAction()); ok {
		fmt.Printf("  Clip: %.1fs at %.0f keys/s\n", clip.Duration(), skeleton.KeyRate)
	} else {
		fmt.Println("  Clip: none (static)")
	}

	if !listBones {
		return
	}
	for i, b := range m.Bones {
		if b.IsDummy {
			fmt.Printf("  Bone[%d]: dummy\n", i)
			continue
		}
		bind := b.Bind()
		fmt.Printf("  Bone[%d]: %q parent=%d bind=(%.1f, %.1f, %.1f)\n", i, b.Name, b.Parent, bind.Position[0], bind.Position[1], bind.Position[2])
	}
}

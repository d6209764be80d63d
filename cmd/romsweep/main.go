// Romsweep - sweep one joint coordinate through its range of motion
//
// Poses the demo skeleton step by step across a coordinate's configured
// range, records every pose to a session, and prints the per-coordinate
// summary. Useful for sanity-checking joint definitions.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"text/tabwriter"
	"time"

	"github.com/biomechlab/go-biomech/internal/log"
	"github.com/biomechlab/go-biomech/pkg/anatomy"
	"github.com/biomechlab/go-biomech/pkg/biomech"
	"github.com/biomechlab/go-biomech/pkg/rig"
	"github.com/biomechlab/go-biomech/pkg/session"
)

func main() {
	jointName := flag.String("joint", "knee_l", "joint to sweep")
	coordName := flag.String("coordinate", "flexion", "coordinate within the joint")
	steps := flag.Int("steps", 50, "number of poses across the range")
	dbPath := flag.String("db", ":memory:", "session database path")
	flag.Parse()

	log.Init("warn")

	model := anatomy.Humanoid()
	joint := jointByName(model, *jointName)
	if joint == nil {
		fmt.Fprintf(os.Stderr, "unknown joint %q\n", *jointName)
		os.Exit(1)
	}
	slot := joint.CoordinateIndex(*coordName)
	if slot < 0 {
		fmt.Fprintf(os.Stderr, "joint %q has no coordinate %q\n", *jointName, *coordName)
		os.Exit(1)
	}
	coord := joint.Coordinates[slot]

	engine := biomech.New(model)
	if res := engine.Initialize(rig.DemoHumanoid()); len(res.Skipped) > 0 {
		fmt.Fprintf(os.Stderr, "%d joints unavailable on the demo skeleton\n", len(res.Skipped))
		os.Exit(1)
	}
	if _, err := engine.CalibrateNeutral("sweep"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if _, err := engine.Update(time.Millisecond); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	store, err := session.Open(*dbPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer store.Close()

	rec, err := store.Begin(fmt.Sprintf("rom sweep %s/%s", *jointName, *coordName))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Printf("Sweeping %s/%s over [%.1f°, %.1f°] in %d steps\n",
		*jointName, *coordName, deg(coord.Min), deg(coord.Max), *steps)

	for i := 0; i <= *steps; i++ {
		t := float64(i) / float64(*steps)
		target := coord.Min + t*(coord.Max-coord.Min)

		var values [3]float64
		state, _ := engine.JointState(joint.ID)
		for s := range joint.Coordinates {
			if cs, ok := state.Coordinates[joint.CoordinateID(s)]; ok {
				values[s] = cs.Value
			}
		}
		values[slot] = target

		if err := engine.ApplyCoordinates(joint.ID, values); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if err := rec.Record(engine.Snapshot()); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	summary, err := store.Summary(rec.Session().ID)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "COORDINATE\tSAMPLES\tMIN°\tMAX°\tSPAN°\tCLAMPED")
	for _, cs := range summary {
		fmt.Fprintf(w, "%s\t%d\t%.1f\t%.1f\t%.1f\t%d\n",
			cs.Coordinate, cs.Count, deg(cs.Min), deg(cs.Max), deg(cs.Span), cs.Clamped)
	}
	w.Flush()
}

func jointByName(m *anatomy.Model, name string) *anatomy.Joint {
	for i := range m.Joints {
		if m.Joints[i].ID.String() == name {
			return &m.Joints[i]
		}
	}
	return nil
}

func deg(rad float64) float64 { return rad * 180 / math.Pi }

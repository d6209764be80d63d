// Biomech - joint kinematics viewer daemon
//
// Drives the built-in demo skeleton through the joint engine and serves
// the viewer API on BIOMECH_ADDR. Set BIOMECH_DEMO=1 for continuous
// sinusoidal motion instead of a static calibration pose.
package main

import (
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/biomechlab/go-biomech/internal/config"
	"github.com/biomechlab/go-biomech/internal/log"
	"github.com/biomechlab/go-biomech/pkg/anatomy"
	"github.com/biomechlab/go-biomech/pkg/biomech"
	"github.com/biomechlab/go-biomech/pkg/qspace"
	"github.com/biomechlab/go-biomech/pkg/rig"
	"github.com/biomechlab/go-biomech/pkg/session"
	"github.com/biomechlab/go-biomech/pkg/web"
)

func main() {
	log.Init(config.LogLevel())

	skeleton := rig.DemoHumanoid()
	engine := biomech.New(anatomy.Humanoid(), biomech.DefaultCouplings()...)

	res := engine.Initialize(skeleton)
	log.Info("engine initialized", "joints", len(res.Constructed), "skipped", len(res.Skipped))
	for _, sk := range res.Skipped {
		log.Warn("joint unavailable", "joint", sk.Joint.String(), "reason", sk.Reason)
	}

	cal, err := engine.CalibrateNeutral("neutral")
	if err != nil {
		log.Error("calibration failed", "err", err)
		os.Exit(1)
	}
	log.Info("calibrated", "label", cal.Label, "joints", cal.Calibrated)

	store, err := session.Open(config.SessionDB())
	if err != nil {
		log.Error("session store", "err", err)
		os.Exit(1)
	}
	defer store.Close()

	rec, err := store.Begin("viewer " + time.Now().Format("2006-01-02 15:04"))
	if err != nil {
		log.Error("begin session", "err", err)
		os.Exit(1)
	}
	log.Info("recording session", "id", rec.Session().ID)

	srv := web.NewServer(config.Addr(), engine, store)
	srv.StartAsync()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	demo := config.DemoMotion()
	tick := config.Tick()
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	start := time.Now()
	for {
		select {
		case <-sigChan:
			log.Info("shutting down", "samples", rec.Samples())
			srv.Shutdown()
			return

		case <-ticker.C:
			srv.Do(func(e *biomech.Engine) {
				if demo {
					animate(skeleton, time.Since(start).Seconds())
				}
				if _, err := e.Update(tick); err != nil {
					log.Error("update", "err", err)
					return
				}
				if err := rec.Record(e.Snapshot()); err != nil {
					log.Error("record", "err", err)
				}
			})
			srv.PublishState()
		}
	}
}

// animate poses the demo skeleton along slow sinusoids: arm elevation
// through the scapulohumeral threshold, knee flexion, and a head turn.
func animate(r *rig.MemoryRig, t float64) {
	elevation := (45 + 45*math.Sin(t*0.5)) * math.Pi / 180 // 0..90°
	r.MustNode("LeftArm").SetLocalOrientation(qspace.AboutAxis(qspace.AxisZ, elevation))
	r.MustNode("RightArm").SetLocalOrientation(qspace.AboutAxis(qspace.AxisZ, -elevation))

	flexion := (40 + 40*math.Sin(t*0.8)) * math.Pi / 180 // 0..80°
	r.MustNode("LeftLeg").SetLocalOrientation(qspace.AboutAxis(qspace.AxisX, flexion))

	turn := 30 * math.Sin(t*0.3) * math.Pi / 180
	r.MustNode("Head").SetLocalOrientation(qspace.AboutAxis(qspace.AxisY, turn))
}

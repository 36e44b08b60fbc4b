// This file is part of Sketchbook.
//
// Sketchbook is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Sketchbook is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Sketchbook.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"context"
	"fmt"
	"image"
	_ "image/png"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/procgen/sketchbook/canvas"
	"github.com/procgen/sketchbook/checkpoint"
	"github.com/procgen/sketchbook/curated"
	"github.com/procgen/sketchbook/environment"
	"github.com/procgen/sketchbook/logger"
	"github.com/procgen/sketchbook/manifest"
	"github.com/procgen/sketchbook/modalflag"
	"github.com/procgen/sketchbook/paths"
	"github.com/procgen/sketchbook/prefs"
	"github.com/procgen/sketchbook/seed"
	"github.com/procgen/sketchbook/sketch"
	"github.com/procgen/sketchbook/snapshot"
	"github.com/procgen/sketchbook/statsview"
	"github.com/procgen/sketchbook/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	exitVal := launch(ctx, os.Args[1:], os.Stdout)
	stop()
	os.Exit(exitVal)
}

// launch the mode selected by the arguments and return the exit value for the
// process
func launch(ctx context.Context, args []string, output io.Writer) int {
	md := &modalflag.Modes{Output: output}
	md.NewArgs(args)
	md.AddSubModes("RUN", "LIST", "SHOW", "DIFF", "REPLAY", "RECOVER", "VERSION")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return 0

	case modalflag.ParseError:
		fmt.Fprintf(output, "* error: %v\n", err)
		return 10
	}

	switch md.Mode() {
	case "RUN":
		err = run(ctx, md, output)
	case "LIST":
		err = list(ctx, md, output)
	case "SHOW":
		err = show(ctx, md, output)
	case "DIFF":
		err = diff(md, output)
	case "REPLAY":
		err = replay(md, output)
	case "RECOVER":
		err = recoverSeeds(md, output)
	case "VERSION":
		fmt.Fprintln(output, version.String())
	}

	if err != nil {
		fmt.Fprintf(output, "* error in %s mode: %s\n", md.String(), err)
		return 20
	}

	return 0
}

// projectFlag adds the -root flag common to all modes that work with a
// project
func projectFlag(md *modalflag.Modes) *string {
	return md.AddString("root", "", "project root (default: nearest directory with sketchbook.yaml or go.mod)")
}

func project(root string) (paths.Layout, error) {
	if root == "" {
		var err error
		root, err = paths.FindRoot(".")
		if err != nil {
			return paths.Layout{}, err
		}
	}
	return paths.NewLayout(root)
}

// parse the flags of a mode. the bool return value is false if the mode
// should end without doing anything
func parse(md *modalflag.Modes, minArgs int, maxArgs int) (bool, error) {
	switch p, err := md.Parse(); p {
	case modalflag.ParseHelp:
		return false, nil
	case modalflag.ParseError:
		return false, err
	}
	if err := md.ExpectArgs(minArgs, maxArgs); err != nil {
		return false, err
	}
	return true, nil
}

func run(ctx context.Context, md *modalflag.Modes, output io.Writer) error {
	md.NewMode()

	root := projectFlag(md)
	frames := md.AddInt("frames", 0, "number of frames to produce (default from prefs)")
	requested := md.AddString("seed", "", "use seed for every checkpoint instead of minting new seeds")
	source := md.AddString("source", "", "root of the drawing logic to snapshot (default from prefs)")
	width := md.AddInt("width", 0, "canvas width (default from prefs)")
	height := md.AddInt("height", 0, "canvas height (default from prefs)")
	overwrite := md.AddBool("overwrite", false, "replace artifact bundles with the same name that have no image")
	log := md.AddBool("log", false, "echo log to stdout")
	override := md.AddString("prefs", "", "override prefs file with key::value pairs")

	var stats *bool
	if statsview.Available() {
		stats = md.AddBool("statsview", false, fmt.Sprintf("run stats server (%s)", statsview.Address))
	}

	md.AdditionalHelp(fmt.Sprintf("the seed can also be requested with the %s environment variable", seed.EnvVar))

	if ok, err := parse(md, 0, 0); !ok {
		return err
	}

	if *log {
		logger.SetEcho(output)
	} else {
		logger.SetEcho(nil)
	}

	layout, err := project(*root)
	if err != nil {
		return err
	}

	pref, err := prefs.NewSketchbook(layout)
	if err != nil {
		return err
	}

	if *override != "" {
		unused, err := pref.Override(*override)
		if err != nil {
			return err
		}
		if unused != "" {
			logger.Logf(logger.Allow, "prefs", "unused prefs: %s", unused)
		}
	}

	// flags take precedence over the prefs file
	var flagErr error
	md.Visit(func(flag string) {
		var err error
		switch flag {
		case "frames":
			err = pref.Frames.Set(*frames)
		case "width":
			err = pref.Width.Set(*width)
		case "height":
			err = pref.Height.Set(*height)
		case "source":
			err = pref.Source.Set(*source)
		}
		if err != nil && flagErr == nil {
			flagErr = fmt.Errorf("-%s: %w", flag, err)
		}
	})
	if flagErr != nil {
		return flagErr
	}

	if stats != nil && *stats {
		statsview.Launch(ctx, output)
	}

	seeds, err := seed.NewStore(layout)
	if err != nil {
		return err
	}
	if *requested != "" {
		s, err := seed.Parse(*requested)
		if err != nil {
			return err
		}
		seeds.Request = &s
	}

	snaps, err := snapshot.NewSnapshotter(layout, pref.Source.String())
	if err != nil {
		return err
	}
	snaps.Ignore = pref.Ignore.List()
	snaps.Overwrite = *overwrite

	mnfst, err := manifest.Open(ctx, layout)
	if err != nil {
		return err
	}
	defer mnfst.Close()
	mnfst.CopyEntries = pref.CopyEntries.Get().(bool)

	cnv, err := canvas.NewCanvas(pref.Width.Int(), pref.Height.Int())
	if err != nil {
		return err
	}

	creator := &checkpoint.Creator{
		Layout:    layout,
		Seeds:     seeds,
		Snapshots: snaps,
		Overwrite: *overwrite,
	}
	r := checkpoint.NewRun(creator, mnfst)

	for frame := 0; frame < pref.Frames.Int(); frame++ {
		if ctx.Err() != nil {
			fmt.Fprintln(output, "! interrupted")
			break
		}

		cp, err := r.Save(uint64(frame), cnv)
		if err != nil {
			// without a seed no frame can be drawn reproducibly
			if curated.Has(err, curated.SeedUnavailable) {
				return err
			}
			fmt.Fprintf(output, "! frame %d skipped: %v\n", frame, err)
			continue
		}

		sketch.Draw(environment.NewEnvironment(cp), cnv)
		cnv.EndFrame()

		fmt.Fprintf(output, "%s (seed %s)\n", cp.Name, cp.Seed)

		r.Consolidate(ctx)
	}

	exitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), pref.ExitTimeout.Duration())
	defer cancel()

	// cleanup failures are never fatal
	if err := r.Exit(exitCtx); err != nil {
		fmt.Fprintf(output, "! %v\n", err)
	}

	for _, cp := range r.Checkpoints() {
		if cp.State() != checkpoint.Consolidated {
			fmt.Fprintf(output, "! %s not consolidated (%s)\n", cp.Name, cp.State())
		}
	}

	return nil
}

func list(ctx context.Context, md *modalflag.Modes, output io.Writer) error {
	md.NewMode()
	root := projectFlag(md)
	runID := md.AddString("run", "", "list only the checkpoints of the run")
	if ok, err := parse(md, 0, 0); !ok {
		return err
	}

	layout, err := project(*root)
	if err != nil {
		return err
	}

	mnfst, err := manifest.Open(ctx, layout)
	if err != nil {
		return err
	}
	defer mnfst.Close()

	recs, err := mnfst.List(ctx)
	if err != nil {
		return err
	}

	latest, _ := mnfst.Latest()

	for _, r := range recs {
		if *runID != "" && r.RunID != *runID {
			continue
		}
		marker := " "
		if r.Name == latest {
			marker = "*"
		}
		fmt.Fprintf(output, "%s %s  seed %d  published %s\n", marker, r.Name, r.Seed, humanize.Time(r.Published))
	}

	return nil
}

func show(ctx context.Context, md *modalflag.Modes, output io.Writer) error {
	md.NewMode()
	root := projectFlag(md)
	if ok, err := parse(md, 1, 1); !ok {
		return err
	}
	name := md.GetArg(0)

	layout, err := project(*root)
	if err != nil {
		return err
	}

	rec, err := checkpoint.ReadRecord(layout, name)
	if err != nil {
		return err
	}

	fmt.Fprintf(output, "name:      %s\n", rec.Name)
	fmt.Fprintf(output, "frame:     %d\n", rec.Frame)
	fmt.Fprintf(output, "seed:      %d\n", rec.Seed)
	fmt.Fprintf(output, "generator: %s\n", rec.Algorithm)
	fmt.Fprintf(output, "created:   %s (%s)\n", rec.Created.Format("2006-01-02 15:04:05"), humanize.Time(rec.Created))
	fmt.Fprintf(output, "run:       %s\n", rec.RunID)
	fmt.Fprintf(output, "version:   %s\n", rec.Version)
	fmt.Fprintf(output, "source:    %d files (%s) %s\n", rec.Source.Files, humanize.Bytes(uint64(rec.Source.Bytes)), rec.Source.Digest)
	fmt.Fprintf(output, "image:     %s\n", layout.Image(name))

	mnfst, err := manifest.Open(ctx, layout)
	if err != nil {
		return err
	}
	defer mnfst.Close()

	r, ok, err := mnfst.Lookup(ctx, name)
	if err != nil {
		return err
	}
	if ok {
		fmt.Fprintf(output, "published: %s (image %016x)\n", humanize.Time(r.Published), r.ImageDigest)
	} else {
		fmt.Fprintln(output, "published: no")
	}

	return nil
}

func diff(md *modalflag.Modes, output io.Writer) error {
	md.NewMode()
	root := projectFlag(md)
	if ok, err := parse(md, 2, 2); !ok {
		return err
	}
	a, b := md.GetArg(0), md.GetArg(1)

	layout, err := project(*root)
	if err != nil {
		return err
	}

	ra, err := checkpoint.ReadRecord(layout, a)
	if err != nil {
		return err
	}
	rb, err := checkpoint.ReadRecord(layout, b)
	if err != nil {
		return err
	}
	if ra.Seed != rb.Seed {
		fmt.Fprintf(output, "seed %d -> %d\n", ra.Seed, rb.Seed)
	}
	if ra.Algorithm != rb.Algorithm {
		fmt.Fprintf(output, "generator %s -> %s\n", ra.Algorithm, rb.Algorithm)
	}

	changes, err := snapshot.Diff(layout, a, b)
	if err != nil {
		return err
	}
	if len(changes) == 0 {
		fmt.Fprintln(output, "logic is identical")
	}
	for _, c := range changes {
		fmt.Fprintln(output, c)
	}

	return nil
}

// replay draws a checkpoint again with the current drawing logic and compares
// the result with the captured image
func replay(md *modalflag.Modes, output io.Writer) error {
	md.NewMode()
	root := projectFlag(md)
	md.AdditionalHelp("the checkpoint is drawn with the drawing logic of this build. the logic that\n" +
		"produced the checkpoint is in the src directory of the artifact bundle")
	if ok, err := parse(md, 1, 1); !ok {
		return err
	}
	name := md.GetArg(0)

	layout, err := project(*root)
	if err != nil {
		return err
	}

	rec, err := checkpoint.ReadRecord(layout, name)
	if err != nil {
		return err
	}

	env, err := environment.NewReplay(rec)
	if err != nil {
		return err
	}

	f, err := os.Open(layout.Image(name))
	if err != nil {
		return err
	}
	cfg, _, err := image.DecodeConfig(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("%s: %w", layout.Image(name), err)
	}

	cnv, err := canvas.NewCanvas(cfg.Width, cfg.Height)
	if err != nil {
		return err
	}
	sketch.Draw(env, cnv)

	got, err := cnv.Digest()
	if err != nil {
		return err
	}
	want, err := snapshot.Digest(layout.Image(name))
	if err != nil {
		return err
	}

	if got != want {
		return fmt.Errorf("replay of %s differs from the captured image", name)
	}

	fmt.Fprintf(output, "%s reproduced (%d draws)\n", name, env.Random.Draws())

	return nil
}

// recoverSeeds lists the seed files left by checkpoints that did not complete
func recoverSeeds(md *modalflag.Modes, output io.Writer) error {
	md.NewMode()
	root := projectFlag(md)
	clean := md.AddBool("clean", false, "remove seed files of checkpoints that have a record")
	if ok, err := parse(md, 0, 0); !ok {
		return err
	}

	layout, err := project(*root)
	if err != nil {
		return err
	}

	seeds, err := seed.NewStore(layout)
	if err != nil {
		return err
	}

	names, err := seeds.Residual()
	if err != nil {
		return err
	}

	if len(names) == 0 {
		fmt.Fprintln(output, "no residual seed files")
		return nil
	}

	for _, name := range names {
		s, err := seeds.LoadFromFile(name)
		if err != nil {
			fmt.Fprintf(output, "%s  %v\n", name, err)
			continue
		}

		status := []string{fmt.Sprintf("seed %s", s)}
		if _, err := os.Stat(layout.Record(name)); err == nil {
			status = append(status, "record exists")
			if *clean {
				if err := seeds.CleanUpFile(name); err != nil {
					return err
				}
				status = append(status, "removed")
			}
		} else if _, err := os.Stat(layout.Bundle(name)); err == nil {
			status = append(status, "partial bundle")
		} else {
			status = append(status, "no bundle")
		}

		fmt.Fprintf(output, "%s  %s\n", name, strings.Join(status, ", "))
	}

	return nil
}

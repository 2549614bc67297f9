// Command avatar loads the avatar catalog, applies a selection from flags
// or the interactive picker, and prints the inventory data of the result.
package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"avatar-picker/internal/assets"
	"avatar-picker/internal/avatar"
	"avatar-picker/internal/catalog"
	"avatar-picker/internal/config"
	"avatar-picker/internal/inventory"
	"avatar-picker/internal/picker"
	"avatar-picker/internal/preview"
	"avatar-picker/internal/scene"
)

type selection struct {
	sex         string
	bodyNumber  int
	headNumber  int
	body        string
	skin        string
	items       []string
	remove      []string
	interactive bool
	timeout     time.Duration
}

func main() {
	fs := pflag.NewFlagSet("avatar", pflag.ExitOnError)
	config.RegisterFlags(fs)

	var sel selection
	fs.StringVar(&sel.sex, "sex", "", "select the body of this sex")
	fs.IntVar(&sel.bodyNumber, "body-number", 0, "select body number")
	fs.IntVar(&sel.headNumber, "head-number", 0, "select head number")
	fs.StringVar(&sel.body, "body", "", "select body by catalog name")
	fs.StringVar(&sel.skin, "skin", "", "apply skin by name")
	fs.StringSliceVar(&sel.items, "item", nil, "wear item by name (repeatable)")
	fs.StringSliceVar(&sel.remove, "remove", nil, "take off the item at location (repeatable)")
	fs.BoolVarP(&sel.interactive, "interactive", "i", false, "open the terminal picker")
	fs.DurationVar(&sel.timeout, "timeout", time.Minute, "how long to wait for every body to load")
	fs.Parse(os.Args[1:])

	cfg, err := config.Load(fs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, sel, log); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, sel selection, log *slog.Logger) error {
	cat, err := catalog.Load(cfg.Catalog)
	if err != nil {
		return err
	}
	loader, err := assets.NewFileLoader(cfg.AssetDir)
	if err != nil {
		return err
	}

	s, err := avatar.New(avatar.Options{
		Catalog:           cat,
		Models:            loader,
		Textures:          loader,
		RequiredLocations: cfg.RequiredLocations,
		Workers:           cfg.Workers,
		Log:               log,
	})
	if err != nil {
		return err
	}

	start := time.Now()
	if err := s.Start(ctx); err != nil {
		return err
	}
	log.Info("default body ready", "body", s.State().SelectedBody, "elapsed", time.Since(start).Round(time.Millisecond))

	waitCtx, cancel := context.WithTimeout(ctx, sel.timeout)
	defer cancel()
	if err := s.Wait(waitCtx); err != nil {
		settled, total := s.Progress()
		return fmt.Errorf("waiting for bodies (%d/%d settled): %w", settled, total, err)
	}
	for name, err := range s.Failed() {
		log.Warn("body unavailable", "body", name, "err", err)
	}

	if err := apply(s, sel); err != nil {
		return err
	}

	if sel.interactive {
		ok, err := picker.Run(ctx, s)
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("selection cancelled")
		}
	}

	if !s.Ready() {
		return fmt.Errorf("avatar incomplete: missing %s", strings.Join(s.Missing(), ", "))
	}

	data, err := s.PublishInvData()
	if err != nil {
		return err
	}
	fmt.Println(string(data))

	if cfg.Manifest != "" {
		if err := inventory.WriteManifest(cfg.Manifest, s.Manifest()); err != nil {
			return err
		}
		log.Info("manifest written", "path", cfg.Manifest)
	}
	if cfg.Output != "" {
		if err := snapshot(ctx, s, loader, cfg, log); err != nil {
			return err
		}
		log.Info("snapshot written", "path", cfg.Output)
	}
	return nil
}

// apply runs the flag selection in a fixed order: body, skin, items,
// removals. Every step runs; the first error is returned.
func apply(s *avatar.Session, sel selection) error {
	var errs []error
	if sel.sex != "" {
		errs = append(errs, s.SetSex(sel.sex))
	}
	if sel.bodyNumber > 0 {
		errs = append(errs, s.SetBodyByBodyNumber(sel.bodyNumber))
	}
	if sel.headNumber > 0 {
		errs = append(errs, s.SetBodyByHeadNumber(sel.headNumber))
	}
	if sel.body != "" {
		errs = append(errs, s.SetBodyByName(sel.body))
	}
	if sel.skin != "" {
		errs = append(errs, s.SetSkinByName(sel.skin))
	}
	for _, name := range sel.items {
		errs = append(errs, s.SetItemByName(name))
	}
	for _, loc := range sel.remove {
		errs = append(errs, s.RemoveItemByLocation(loc))
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func snapshot(ctx context.Context, s *avatar.Session, loader *assets.FileLoader, cfg config.Config, log *slog.Logger) error {
	cache := make(map[string]*image.NRGBA)
	opts := preview.Options{
		Size:        cfg.Preview.Size,
		Supersample: cfg.Preview.Supersample,
		Angle:       cfg.Preview.Angle,
		Textures: func(ref string) *image.NRGBA {
			if tex, ok := cache[ref]; ok {
				return tex
			}
			tex, err := loader.LoadTexture(ctx, ref)
			if err != nil {
				log.Debug("texture unavailable", "ref", ref, "err", err)
			}
			cache[ref] = tex
			return tex
		},
	}

	var img *image.NRGBA
	s.View(func(sc *scene.Scene) {
		img = preview.Render(sc, opts)
	})
	return preview.WriteWebP(cfg.Output, img)
}

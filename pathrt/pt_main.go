package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/gekko3d/progressive/pathrt/rt/app"
	"github.com/gekko3d/progressive/pathrt/rt/asset"
	"github.com/gekko3d/progressive/pathrt/rt/core"
	"github.com/gekko3d/progressive/pathrt/rt/gpu"
	"github.com/gekko3d/progressive/pathrt/rt/logging"
	"github.com/gekko3d/progressive/pathrt/rt/shaders"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/urfave/cli"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	defaults := app.DefaultConfig()

	a := cli.NewApp()
	a.Name = "pathrt"
	a.Usage = "progressive path tracer"
	a.Version = "0.1.0"
	a.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "debug",
			Usage: "enable debug logging and per-second frame stats",
		},
		cli.StringFlag{
			Name:  "scene",
			Value: defaults.Scene,
			Usage: "demo scene: " + strings.Join(core.DemoSceneNames(), ", "),
		},
		cli.StringFlag{
			Name:  "scene-file",
			Usage: "load the scene from a YAML file instead of a demo scene",
		},
		cli.Int64Flag{
			Name:  "seed",
			Value: defaults.Seed,
			Usage: "random seed for demo scenes",
		},
		cli.StringFlag{
			Name:  "env",
			Value: defaults.Environment,
			Usage: "environment image (.hdr or any 8-bit format); empty for a neutral sky",
		},
		cli.StringFlag{
			Name:  "kernel-dir",
			Usage: "load pathtrace.wgsl and present.wgsl from this directory",
		},
		cli.IntFlag{
			Name:  "width",
			Value: defaults.WindowWidth,
			Usage: "window width",
		},
		cli.IntFlag{
			Name:  "height",
			Value: defaults.WindowHeight,
			Usage: "window height",
		},
	}
	a.Action = runRenderer
	a.Commands = []cli.Command{
		{
			Name:   "run",
			Usage:  "open a window and render the scene progressively",
			Action: runRenderer,
		},
		{
			Name:  "inspect",
			Usage: "print the scene buffer plan without opening a window",
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "check-shaders",
					Usage: "also compile the kernels",
				},
			},
			Action: inspect,
		},
	}

	if err := a.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "pathrt: %v\n", err)
		os.Exit(1)
	}
}

func configFromContext(ctx *cli.Context) app.Config {
	cfg := app.DefaultConfig()
	cfg.Debug = ctx.GlobalBool("debug")
	cfg.Scene = ctx.GlobalString("scene")
	cfg.SceneFile = ctx.GlobalString("scene-file")
	cfg.Seed = ctx.GlobalInt64("seed")
	cfg.Environment = ctx.GlobalString("env")
	cfg.KernelDir = ctx.GlobalString("kernel-dir")
	cfg.WindowWidth = ctx.GlobalInt("width")
	cfg.WindowHeight = ctx.GlobalInt("height")
	return cfg
}

func runRenderer(ctx *cli.Context) error {
	cfg := configFromContext(ctx)
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := logging.NewDefaultLogger("pathrt", cfg.Debug)

	scene, err := app.LoadScene(cfg)
	if err != nil {
		return fmt.Errorf("scene: %w", err)
	}
	logger.Infof("%s", scene)

	src, err := shaders.Load(cfg.KernelDir)
	if err != nil {
		return err
	}
	env, err := asset.LoadEnvironment(cfg.Environment)
	if err != nil {
		return err
	}
	logger.Debugf("environment %dx%d", env.Width, env.Height)

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.False)
	window, err := glfw.CreateWindow(cfg.WindowWidth, cfg.WindowHeight, cfg.Title, nil, nil)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	defer window.Destroy()

	renderer := app.NewApp(window, cfg, scene, env, src, logger)
	defer renderer.Release()
	if err := renderer.Init(); err != nil {
		return fmt.Errorf("init: %w", err)
	}

	w, h := window.GetSize()
	camera := core.NewDefaultCamera(w, h)
	loop := app.NewRenderLoop(cfg, renderer, app.NewGlfwWindow(window), camera, glfw.GetTime, logger)
	return loop.Run()
}

func inspect(ctx *cli.Context) error {
	cfg := configFromContext(ctx)
	scene, err := app.LoadScene(cfg)
	if err != nil {
		return fmt.Errorf("scene: %w", err)
	}
	plan, err := gpu.PlanSceneBuffers(scene, gpu.DefaultBindings())
	if err != nil {
		return err
	}
	gpu.WritePlanReport(os.Stdout, plan)

	if !ctx.Bool("check-shaders") {
		return nil
	}
	src, err := shaders.Load(cfg.KernelDir)
	if err != nil {
		return err
	}
	if err := src.Check(); err != nil {
		return err
	}
	fmt.Println("kernels compile")
	return nil
}

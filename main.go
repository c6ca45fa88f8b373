// main.go - ZX81 emulator entry point

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"
)

// ZX81_FRAME_PERIOD paces frame requests at the PAL field rate.
const ZX81_FRAME_PERIOD = time.Second / 50

// ZX81_MAX_QUEUED_FRAMES keeps the pacer from piling work onto a runner
// that cannot keep up with real time.
const ZX81_MAX_QUEUED_FRAMES = 2

type zx81Options struct {
	romPath      string
	code         bool
	frameEvery   int
	statsEvery   int
	scale        int
	fullscreen   bool
	terminal     bool
	audio        bool
	wavPath      string
	scriptPath   string
	snapshotPath string
	loadSnapshot string
	frames       int
	verbose      bool
	statsView    bool
}

func boilerPlate() {
	fmt.Println("\n\033[38;2;255;20;147m ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████\033[0m\n\033[38;2;255;50;147m▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀\033[0m\n\033[38;2;255;80;147m▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███\033[0m\n\033[38;2;255;110;147m░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄\033[0m\n\033[38;2;255;140;147m░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒\033[0m\n\033[38;2;255;170;147m░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░\033[0m\n\033[38;2;255;200;147m ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░\033[0m\n\033[38;2;255;230;147m ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░\033[0m\n\033[38;2;255;255;147m ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░\033[0m")
	fmt.Println("\nSinclair ZX81: Z80 core and ULA raster timing on the Intuition Engine.")
	fmt.Println("(c) 2024 - 2026 Zayn Otley")
	fmt.Println("https://github.com/IntuitionAmiga/IntuitionZX81")
	fmt.Println("Buy me a coffee: https://ko-fi.com/intuition/tip")
	fmt.Println("License: GPLv3 or later")
}

func parseFlags(args []string) (zx81Options, string, error) {
	var opts zx81Options
	flagSet := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flagSet.StringVar(&opts.romPath, "rom", "zx81.rom", "Path to the 8K ZX81 system ROM")
	flagSet.BoolVar(&opts.code, "code", false, "Treat the image as raw code at 0x4009 instead of a .p program")
	flagSet.IntVar(&opts.frameEvery, "frame-every", 1, "Display every Nth emulated frame")
	flagSet.IntVar(&opts.statsEvery, "stats-every", 50, "Report runner statistics every N frames (0 disables)")
	flagSet.IntVar(&opts.scale, "scale", 2, "Window scale factor")
	flagSet.BoolVar(&opts.fullscreen, "fullscreen", false, "Start in fullscreen")
	flagSet.BoolVar(&opts.terminal, "terminal", false, "Render the display file as text on this terminal")
	flagSet.BoolVar(&opts.audio, "audio", false, "Play the sync signal through the sound card")
	flagSet.StringVar(&opts.wavPath, "wav", "", "Record the sync signal to a WAV file")
	flagSet.StringVar(&opts.scriptPath, "script", "", "Drive the machine from a Lua script, then exit")
	flagSet.StringVar(&opts.snapshotPath, "snapshot", "", "Write a machine snapshot here on exit")
	flagSet.StringVar(&opts.loadSnapshot, "load-snapshot", "", "Resume from a machine snapshot")
	flagSet.IntVar(&opts.frames, "frames", 0, "Stop after N frames (0 runs until closed)")
	flagSet.BoolVar(&opts.verbose, "v", false, "Verbose machine logging")
	flagSet.BoolVar(&opts.statsView, "statsview", false, "Serve runtime charts (needs -tags statsview)")
	flagSet.Usage = func() {
		fmt.Fprintf(flagSet.Output(), "Usage: %s [flags] [program.p | code.bin]\n", os.Args[0])
		flagSet.PrintDefaults()
	}
	if err := flagSet.Parse(args); err != nil {
		return opts, "", err
	}
	if flagSet.NArg() > 1 {
		return opts, "", fmt.Errorf("expected at most one image, got %d", flagSet.NArg())
	}
	if opts.frameEvery < 0 || opts.statsEvery < 0 || opts.frames < 0 {
		return opts, "", fmt.Errorf("frame counts must not be negative")
	}
	return opts, flagSet.Arg(0), nil
}

// imageKind picks how a file is loaded: .p files are BASIC programs,
// anything else is code unless -code says so explicitly.
func imageKind(filename string, forceCode bool) ZX81ImageKind {
	if forceCode {
		return ImageCode
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".p", ".81":
		return ImageProgram
	}
	return ImageCode
}

func main() {
	opts, filename, err := parseFlags(os.Args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if !opts.terminal {
		boilerPlate()
	}
	debugZX81 = opts.verbose
	if opts.statsView {
		launchStatsView(os.Stderr)
	}

	if err := run(opts, filename); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts zx81Options, filename string) error {
	machine, err := buildMachine(opts, filename)
	if err != nil {
		return err
	}

	var closers []func()
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}()

	audio := NewZX81Audio(ZX81_AUDIO_SAMPLE_RATE)
	if opts.audio {
		ring := newZX81SampleRing(ZX81_AUDIO_RING_SIZE)
		player, err := NewOtoPlayer(ZX81_AUDIO_SAMPLE_RATE)
		if err != nil {
			return err
		}
		player.SetupPlayer(ring)
		player.Start()
		closers = append(closers, player.Close)
		audio.AddSink(ring)
	}
	if opts.wavPath != "" {
		rec := NewZX81WavRecorder(opts.wavPath, ZX81_AUDIO_SAMPLE_RATE)
		closers = append(closers, func() {
			if err := rec.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
		})
		audio.AddSink(rec)
	}
	if audio.SinkCount() > 0 {
		machine.SetAudio(audio)
	}

	var video VideoOutput
	var termOut *TerminalOutput
	if opts.terminal {
		termOut = NewTerminalOutput(os.Stdout)
	} else if opts.scriptPath == "" {
		video, err = NewVideoOutput(VIDEO_BACKEND_EBITEN)
		if err != nil {
			return err
		}
		w, h := machine.ULA().GetDimensions()
		if err := video.SetDisplayConfig(DisplayConfig{
			Width:      w,
			Height:     h,
			Scale:      ClampScale(opts.scale),
			Title:      "IntuitionZX81",
			Fullscreen: opts.fullscreen,
		}); err != nil {
			return err
		}
	}

	faulted := make(chan struct{})
	runner := NewZX81Runner(machine, RunnerConfig{
		FrameEvery: opts.frameEvery,
		StatsEvery: opts.statsEvery,
		// Callbacks run on the worker, so reading the machine here is safe.
		OnFrame: func(frame []byte, number uint64) {
			if video != nil {
				_ = video.UpdateFrame(frame)
			}
			if termOut != nil {
				if err := termOut.Render(zx81DecodeDisplay(machine.Peek)); err != nil {
					zx81Debugf("terminal", "%v", err)
				}
			}
		},
		OnStats: func(s RunnerStats) {
			zx81Debugf("runner", "%d frames, %.1f fps, %v/frame, queue %d", s.Frames, s.FPS, s.AvgFrame, s.QueueDepth)
		},
		OnSnapshot: func(memory []byte) {
			if opts.snapshotPath == "" {
				return
			}
			if err := SaveZX81Snapshot(opts.snapshotPath, machine.TakeSnapshot()); err != nil {
				zx81Logf("snapshot", "%v", err)
				return
			}
			zx81Logf("snapshot", "saved %s (%d bytes of memory)", opts.snapshotPath, len(memory))
		},
		OnFault: func(err error, window []Z80DisasmLine) {
			close(faulted)
		},
	})
	runtimeStatus.setMachine(machine, runner)
	runner.Start()
	defer runner.Stop()

	if opts.scriptPath != "" {
		script := NewZX81Script(runner)
		defer script.Close()
		if err := script.RunFile(opts.scriptPath); err != nil {
			return err
		}
		return finish(runner, opts)
	}

	if video != nil {
		video.SetKeyHandler(func(name string, down bool) {
			var err error
			if down {
				err = runner.KeyDown(name)
			} else {
				err = runner.KeyUp(name)
			}
			if err != nil {
				zx81Debugf("keys", "%s: %v", name, err)
			}
		})
		video.SetPasteHandler(func(text string) {
			if err := runner.Type(text); err != nil {
				zx81Logf("paste", "%v", err)
			}
		})
		video.SetResetHandler(func() {
			if err := runner.Reset(); err != nil {
				zx81Logf("reset", "%v", err)
			}
		})
		if err := video.Start(); err != nil {
			return err
		}
		defer video.Close()
	}

	quit := make(chan struct{}, 1)
	if termOut != nil {
		host := NewTerminalHost(func(b byte) {
			if b == 0x03 {
				select {
				case quit <- struct{}{}:
				default:
				}
				return
			}
			if err := runner.Type(string(rune(b))); err != nil {
				zx81Debugf("terminal", "%v", err)
			}
		})
		if err := host.Start(); err != nil {
			return err
		}
		defer host.Stop()
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signals)

	var videoDone <-chan struct{}
	if video != nil {
		videoDone = video.Done()
	}

	ticker := time.NewTicker(ZX81_FRAME_PERIOD)
	defer ticker.Stop()
	requested := 0
	for opts.frames == 0 || requested < opts.frames {
		select {
		case <-ticker.C:
			if runner.QueueDepth() >= ZX81_MAX_QUEUED_FRAMES {
				continue
			}
			if err := runner.RequestFrame(); err != nil {
				return err
			}
			requested++
		case <-faulted:
			return runner.Fault()
		case <-videoDone:
			return finish(runner, opts)
		case <-quit:
			return finish(runner, opts)
		case <-signals:
			return finish(runner, opts)
		}
	}
	return finish(runner, opts)
}

func buildMachine(opts zx81Options, filename string) (*ZX81Machine, error) {
	rom, err := os.ReadFile(opts.romPath)
	if err != nil {
		return nil, &ZX81Error{Operation: "load ROM", Details: opts.romPath, Err: err}
	}
	machine := NewZX81Machine()
	if err := machine.LoadROM(rom); err != nil {
		return nil, err
	}

	switch {
	case opts.loadSnapshot != "":
		snap, err := LoadZX81Snapshot(opts.loadSnapshot)
		if err != nil {
			return nil, err
		}
		if err := machine.RestoreSnapshot(snap); err != nil {
			return nil, err
		}
		zx81Logf("snapshot", "resumed %s", opts.loadSnapshot)
	case filename != "":
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, &ZX81Error{Operation: "load image", Details: filename, Err: err}
		}
		kind := imageKind(filename, opts.code)
		if err := machine.LoadImage(data, kind); err != nil {
			return nil, err
		}
		zx81Logf("image", "loaded %s as %s (%d bytes)", filename, kind, len(data))
	}
	return machine, nil
}

// finish pauses the runner so queued frames complete and the pause
// snapshot is written, then reports any fault that stopped it early.
func finish(runner *ZX81Runner, opts zx81Options) error {
	if err := runner.Pause(); err != nil {
		return err
	}
	if err := runner.Call(func(m *ZX81Machine) error { return nil }); err != nil {
		return err
	}
	return runner.Fault()
}

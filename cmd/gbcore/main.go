// Command gbcore runs a Game Boy cartridge headless for a number of
// frames or cycles, then prints the cartridge header and the final
// register state.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/pkg/profile"
	"golang.org/x/term"

	"github.com/thelolagemann/gbcore/internal/boot"
	"github.com/thelolagemann/gbcore/internal/gameboy"
	"github.com/thelolagemann/gbcore/internal/opcode"
	"github.com/thelolagemann/gbcore/pkg/log"
	"github.com/thelolagemann/gbcore/pkg/utils"
)

var (
	romFile     = flag.String("rom", "", "The rom file to load (.gb, .gbc, .gz, .zip or .7z)")
	bootROM     = flag.String("boot", "", "The boot rom file to load")
	opcodes     = flag.String("opcodes", "", "An opcode table in JSON to decode instructions with, instead of the embedded one")
	frames      = flag.Int("frames", 60, "The number of frames to run")
	cycles      = flag.Uint64("cycles", 0, "The number of cycles to run after the frames")
	serialOut   = flag.Bool("serial", false, "Print every byte sent over the link port to stdout, as test roms report their results")
	trace       = flag.Bool("trace", false, "Log every executed instruction (requires -log-level debug)")
	logLevel    = flag.String("log-level", "info", "The log level: debug, info, warn or error")
	snapshot    = flag.String("snapshot", "", "Write a snapshot of the final state to this file")
	restore     = flag.String("restore", "", "Restore a snapshot from this file before running")
	profileMode = flag.String("profile", "off", "Profile the run: cpu, mem or off")
)

func main() {
	flag.Parse()
	os.Exit(realMain())
}

// realMain returns the exit code, so deferred profile writers run
// before the process exits.
func realMain() int {
	logger, err := log.NewWithLevel(os.Stderr, *logLevel, term.IsTerminal(int(os.Stderr.Fd())))
	if err != nil {
		fmt.Fprintf(os.Stderr, "gbcore: %v\n", err)
		return 2
	}

	switch *profileMode {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "off":
	default:
		logger.Errorf("unknown profile mode %q", *profileMode)
		return 2
	}

	if err := run(logger); err != nil {
		logger.Errorf("%v", err)
		return 1
	}
	return 0
}

func run(logger log.Logger) error {
	if *romFile == "" {
		return errors.New("no rom file given, use -rom")
	}

	opts := []gameboy.Opt{gameboy.WithLogger(logger), gameboy.WithTrace(*trace)}
	if *serialOut {
		opts = append(opts, gameboy.WithSerialOutput(os.Stdout))
	}
	if *bootROM != "" {
		raw, err := utils.LoadFile(*bootROM)
		if err != nil {
			return err
		}
		b, err := boot.Load(raw)
		if err != nil {
			return err
		}
		logger.Infof("boot rom: %s (%s)", b.Model(), b.Checksum())
		opts = append(opts, gameboy.WithBootROM(b))
	}
	if *opcodes != "" {
		f, err := os.Open(*opcodes)
		if err != nil {
			return err
		}
		table, err := opcode.Load(f)
		f.Close()
		if err != nil {
			return err
		}
		opts = append(opts, gameboy.WithOpcodeTable(table))
	}

	rom, err := utils.LoadFile(*romFile)
	if err != nil {
		return err
	}
	gb := gameboy.New(opts...)
	if err := gb.Load(rom); err != nil {
		return err
	}
	fmt.Println(gb.Cartridge().Header.String())

	if *restore != "" {
		b, err := os.ReadFile(*restore)
		if err != nil {
			return err
		}
		if err := gb.Restore(b); err != nil {
			return err
		}
	}

	for i := 0; i < utils.Clamp(0, *frames, 1<<30); i++ {
		if err := gb.RunFrame(); err != nil {
			return err
		}
	}
	if _, err := gb.RunCycles(*cycles); err != nil {
		return err
	}

	c := gb.CPU
	if *serialOut {
		fmt.Println()
	}
	fmt.Printf("AF=%04X BC=%04X DE=%04X HL=%04X SP=%04X PC=%04X IME=%t halted=%t locked=%t\n",
		c.AF.Uint16(), c.BC.Uint16(), c.DE.Uint16(), c.HL.Uint16(), c.SP, c.PC, c.IME(), c.Halted(), c.Locked())
	fmt.Printf("frames=%d cycles=%d\n", gb.Frames(), gb.Cycles())

	if *snapshot != "" {
		b, err := gb.Snapshot()
		if err != nil {
			return err
		}
		if err := os.WriteFile(*snapshot, b, 0o644); err != nil {
			return err
		}
		logger.Infof("snapshot written to %s", *snapshot)
	}
	return nil
}

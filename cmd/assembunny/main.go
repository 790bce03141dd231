// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"fmt"
	"log"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/ezrec/assembunny/cpu"
	"github.com/ezrec/assembunny/emulator"
	"github.com/ezrec/assembunny/io"
)

func main() {
	var compile string
	var dialectName string
	var seed int32
	var repeatHalt bool
	var maxTicks int
	var search int
	var clock int
	var output string
	var verbose bool

	flag.StringVarP(&compile, "compile", "c", "-", "Program file to run, - for stdin")
	flag.StringVarP(&dialectName, "dialect", "d", "all", "Instruction set: all, base, toggle, or clock")
	flag.Int32VarP(&seed, "seed", "a", 0, "Initial value of register a, or first seed to search")
	flag.BoolVar(&repeatHalt, "repeat-halt", false, "Halt when out emits the same value twice in a row (default on for the clock dialect)")
	flag.IntVar(&maxTicks, "max-ticks", 0, "Maximum ticks per run, 0 for unlimited")
	flag.IntVarP(&search, "search", "s", 0, "Search this many seeds for one producing the clock signal")
	flag.IntVar(&clock, "clock", 32, "Length of the clock signal a search must produce")
	flag.StringVarP(&output, "output", "o", "-", "Output of out instructions, - for stdout")
	flag.BoolVarP(&verbose, "verbose", "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	dialect, err := cpu.ParseDialect(dialectName)
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}

	if !flag.CommandLine.Changed("repeat-halt") {
		repeatHalt = dialect == cpu.DIALECT_CLOCK
	}

	inf := os.Stdin
	if compile != "-" {
		inf, err = os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()
	}

	asm := &cpu.Assembler{Dialect: dialect, Verbose: verbose}
	prog, err := asm.Parse(inf)
	if err != nil {
		log.Fatalf("%v: %v", compile, err)
	}

	emu := emulator.NewEmulator()
	emu.Program = prog
	emu.Verbose = verbose
	emu.RepeatHalt = repeatHalt
	emu.MaxTicks = maxTicks

	if search > 0 {
		if maxTicks == 0 {
			emu.MaxTicks = 1_000_000
		}
		found, err := emu.Search(seed, search, io.Alternating(clock))
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("a=%d\n", found)
		return
	}

	tape := &io.Tape{Output: os.Stdout}
	if output != "-" {
		ouf, err := os.Create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		defer ouf.Close()
		tape.Output = ouf
	}
	emu.Cpu.Channel = tape

	emu.Seed[cpu.REG_A] = seed
	err = emu.Reset()
	if err != nil {
		log.Fatal(err)
	}

	halt, err := emu.Run()
	if err != nil {
		log.Fatal(err)
	}

	if verbose {
		log.Printf("halted: %v", halt)
	}

	fmt.Print(emu.Cpu.String())
}

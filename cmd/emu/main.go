// Command emu runs an iNES ROM.
//
// Grounded on the teacher's gintendo.go: flag-parsed ROM path, loaded into a
// mapper, wired into the machine, and handed to ebiten.RunGame. Unlike the
// teacher, this machine drives its own master clock from Update (one frame
// per call) rather than a separate goroutine racing ebiten's loop, since
// nes.NES.RunFrame is already bounded by FrameComplete.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/wbarlow/nescore/cartridge"
	"github.com/wbarlow/nescore/nes"
)

func main() {
	romPath := flag.String("rom", "", "path to an iNES ROM file")
	trace := flag.Bool("trace", false, "log a disassembly line of the current CPU instruction after every CPU cycle")
	flag.Parse()

	if *romPath == "" {
		log.Fatal("emu: -rom is required")
	}

	f, err := os.Open(*romPath)
	if err != nil {
		log.Fatalf("emu: %v", err)
	}
	defer f.Close()

	cart, err := cartridge.Load(f)
	if err != nil {
		log.Fatalf("emu: invalid ROM: %v", err)
	}
	log.Printf("emu: loaded %s", cart.Header)

	machine := nes.New(cart)
	machine.SetTrace(*trace)

	if err := ebiten.RunGame(machine); err != nil {
		log.Fatal(err)
	}
}

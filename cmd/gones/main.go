// Command gones hosts the core in an ebiten window: it drives one emulated
// frame per Update call, blits the PPU's frame buffer, and maps the keyboard
// onto the two controller ports.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/tpeterson/gones"
	"github.com/tpeterson/gones/internal/controller"
	"github.com/tpeterson/gones/internal/trace"
)

const (
	screenWidth  = 256
	screenHeight = 240
)

var (
	romPath          = flag.String("rom", "", "path to an iNES ROM to run")
	dumpInstructions = flag.Bool("dump-instructions", false, "log every executed instruction to stderr")
	historyLength    = flag.Int("history-length", 64, "number of instructions retained in the trace history ring")
)

// game adapts *gones.System to the ebiten.Game interface.
type game struct {
	sys *gones.System
	img *ebiten.Image
}

var keymap = map[ebiten.Key]controller.Button{
	ebiten.KeyZ:         controller.ButtonA,
	ebiten.KeyX:         controller.ButtonB,
	ebiten.KeyBackspace: controller.ButtonSelect,
	ebiten.KeyEnter:     controller.ButtonStart,
	ebiten.KeyUp:        controller.ButtonUp,
	ebiten.KeyDown:      controller.ButtonDown,
	ebiten.KeyLeft:      controller.ButtonLeft,
	ebiten.KeyRight:     controller.ButtonRight,
}

func (g *game) Update() error {
	for key, btn := range keymap {
		if err := g.sys.SetControllerButton(1, btn, ebiten.IsKeyPressed(key)); err != nil {
			return err
		}
	}
	if _, err := g.sys.AdvanceFrame(); err != nil {
		return err
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	fb := g.sys.FrameBuffer()
	for y := 0; y < screenHeight; y++ {
		for x := 0; x < screenWidth; x++ {
			px := fb[y*screenWidth+x]
			g.img.Set(x, y, color.NRGBA{
				R: uint8(px >> 16),
				G: uint8(px >> 8),
				B: uint8(px),
				A: 0xFF,
			})
		}
	}
	op := &ebiten.DrawImageOptions{}
	screen.DrawImage(g.img, op)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	flag.Parse()
	if *romPath == "" {
		log.Fatal("usage: gones -rom path/to/game.nes")
	}

	data, err := os.ReadFile(*romPath)
	if err != nil {
		log.Fatalf("reading ROM: %v", err)
	}

	opts := gones.Options{HistoryLength: *historyLength}
	if *dumpInstructions {
		opts.DumpInstructions = func(e trace.Entry) {
			fmt.Fprintln(os.Stderr, e.String())
		}
	}

	sys, err := gones.New(data, opts)
	if err != nil {
		log.Fatalf("loading cartridge: %v", err)
	}

	ebiten.SetWindowSize(screenWidth*2, screenHeight*2)
	ebiten.SetWindowTitle("gones")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	g := &game{sys: sys, img: ebiten.NewImage(screenWidth, screenHeight)}
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}

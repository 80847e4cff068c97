package main

import (
	"context"
	"fmt"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/photon/pkg/render"
)

// settleTimeout bounds how long the finished progress bar may animate.
const settleTimeout = 2 * time.Second

// runPreview runs draw while showing its progress in the alternate screen.
// Esc, q or ctrl+c cancel the render.
func runPreview(ctx context.Context, preview *render.Preview, fps int, draw func(context.Context) error) error {
	if fps <= 0 {
		fps = 30
	}
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	cleanup := func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sizes := make(chan uv.WindowSizeEvent, 1)
	go func() {
		for ev := range term.Events() {
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				select {
				case sizes <- ev:
				default:
				}
			case uv.KeyPressEvent:
				if ev.MatchString("escape", "q", "ctrl+c") {
					cancel()
					return
				}
			}
		}
	}()

	done := make(chan error, 1)
	go func() {
		done <- draw(ctx)
	}()

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	var (
		finished bool
		deadline <-chan time.Time
	)
	for {
		select {
		case err := <-done:
			if err != nil {
				return err
			}
			finished = true
			deadline = time.After(settleTimeout)
		case <-deadline:
			return nil
		case ev := <-sizes:
			term.Erase()
			term.Resize(ev.Width, ev.Height)
		case <-ticker.C:
			term.Draw(preview)
			if err := term.Display(); err != nil {
				cancel()
				if !finished {
					<-done
				}
				return fmt.Errorf("display: %w", err)
			}
			if finished && preview.Settled() {
				return nil
			}
		}
	}
}

package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"cxxfront/internal/driver"
	"cxxfront/internal/ui"
)

type lowerOutcome struct {
	results []driver.Result
	err     error
}

func runLowerWithUI(ctx context.Context, title string, loader *driver.Loader, files []string, opts driver.Options) ([]driver.Result, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan lowerOutcome, 1)

	go func() {
		opts.Sink = driver.ChannelSink{Ch: events}
		res, err := driver.LowerFiles(ctx, loader, files, opts)
		outcomeCh <- lowerOutcome{results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	if uiErr != nil {
		// keep the producer from blocking on a full channel
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}

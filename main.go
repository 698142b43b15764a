// SPDX-License-Identifier: MIT
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sigviz/cmd"
	"sigviz/internal/analysis"
	"sigviz/internal/capture"
	"sigviz/internal/config"
	"sigviz/internal/dsp"
	"sigviz/internal/log"
	"sigviz/internal/session"
	sig "sigviz/internal/signal"
	"sigviz/internal/transport"
	"sigviz/internal/tuner"
	"sigviz/pkg/build"
)

func main() {
	build.Initialize()

	options, err := cmd.ParseArgs()
	if err != nil {
		log.Fatalf("%v", err)
	}
	if options.Command == "" {
		return
	}

	cfg, err := config.Load(options.ConfigPath)
	if err != nil {
		log.Fatalf("%v", err)
	}
	applyOverrides(cfg, options)

	if level, ok := log.ParseLevel(cfg.LogLevel); ok {
		log.SetLevel(level)
	}

	switch options.Command {
	case "list":
		err = runList()
	case "techniques":
		err = runTechniques()
	case "analyze":
		err = runAnalyze(cfg, options)
	case "tuner":
		err = runTuner(cfg, options)
	}
	if err != nil {
		log.Fatalf("%v", err)
	}
}

func applyOverrides(cfg *config.Config, options *cmd.Options) {
	if options.Verbose {
		cfg.LogLevel = "debug"
	}
	if options.DeviceID != -1 {
		cfg.Audio.InputDevice = options.DeviceID
	}
	if options.SampleRate != 0 {
		cfg.Audio.SampleRate = options.SampleRate
	}
	if options.Instrument != "" {
		cfg.Tuner.Instrument = options.Instrument
	}
	if options.Record {
		cfg.Recording.Enabled = true
	}
}

func runList() error {
	if err := capture.Initialize(); err != nil {
		return err
	}
	defer capture.Terminate()

	devices, err := capture.ListDevices()
	if err != nil {
		return err
	}
	for _, d := range devices {
		marker := " "
		if d.IsDefaultInput {
			marker = "*"
		}
		fmt.Printf("%s [%2d] %-40s %-13s %d in / %d out @ %.0f Hz\n",
			marker, d.ID, d.Name, d.Kind(), d.InputChannels, d.OutputChannels, d.SampleRate)
	}
	return nil
}

func runTechniques() error {
	for _, info := range analysis.Catalog() {
		fmt.Printf("%-12s %s\n", info.ID, info.Label)
		for _, spec := range analysis.ParamSpecs(info.Kind) {
			switch spec.Type {
			case analysis.ParamEnum:
				fmt.Printf("    %-24s one of %v (default %v)\n", spec.Name, spec.Options, spec.Default)
			default:
				fmt.Printf("    %-24s %g to %g (default %v)\n", spec.Name, spec.Min, spec.Max, spec.Default)
			}
		}
	}
	return nil
}

func runAnalyze(cfg *config.Config, options *cmd.Options) error {
	kind, err := analysis.ParseKind(options.Technique)
	if err != nil {
		return err
	}

	buf, err := sig.LoadWAV(options.InputFile)
	if err != nil {
		return err
	}
	log.Infof("loaded %s: %d samples at %d Hz (%.2fs)",
		buf.Label(), buf.Len(), buf.Rate(), buf.Duration().Seconds())

	window, err := dsp.ParseWindowFunc(cfg.Analysis.Window)
	if err != nil {
		return err
	}

	registry := session.NewRegistry()
	s := registry.Open(kind)
	s.BindSignal(buf)
	if err := s.SetWindowConfig(dsp.WindowConfig{
		Window: window,
		Length: cfg.Analysis.WindowLength,
		Hop:    cfg.Analysis.HopLength,
	}); err != nil {
		return err
	}

	result, err := s.Result()
	if err != nil {
		return err
	}

	if options.AsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	printSummary(result)
	return nil
}

func printSummary(result *analysis.Result) {
	switch result.Kind {
	case analysis.Waveform:
		fmt.Printf("waveform: %d samples\n", len(result.Waveform.Amplitudes))
	case analysis.FourierTransform:
		hz, mag := result.Spectrum.Spectrum.Peak()
		fmt.Printf("spectrum peak: %.2f Hz (magnitude %.4f)\n", hz, mag)
	case analysis.STFT:
		bins := 0
		if len(result.STFT.Spectra) > 0 {
			bins = result.STFT.Spectra[0].Bins()
		}
		fmt.Printf("stft: %d frames x %d bins\n", len(result.STFT.Spectra), bins)
	case analysis.Spectrogram:
		fmt.Printf("spectrogram: %d frames x %d bins\n",
			len(result.Spectrogram.MagnitudesDB), len(result.Spectrogram.Freqs))
	case analysis.ShortTimeEnergy:
		fmt.Printf("energy: %d frames\n", len(result.Energy.Energies))
	case analysis.Pitch:
		voiced := 0
		for _, v := range result.Pitch.Voiced {
			if v {
				voiced++
			}
		}
		fmt.Printf("pitch: %d frames, %d voiced\n", len(result.Pitch.Frequencies), voiced)
	case analysis.SpectralCentroid:
		fmt.Printf("centroid: %d frames\n", len(result.Centroid.Centroids))
	case analysis.Filter:
		hz, _ := result.Filter.Response.Peak()
		fmt.Printf("filtered: %s, response peak %.2f Hz\n",
			result.Filter.Filtered.Label(), hz)
	case analysis.Tuner:
		if result.Tuner.Voiced {
			fmt.Printf("tuner: %.2f Hz -> %s (%+.1f cents)\n",
				result.Tuner.Freq, result.Tuner.Note, result.Tuner.Cents)
		} else {
			fmt.Println("tuner: no pitch detected")
		}
	}
}

func runTuner(cfg *config.Config, options *cmd.Options) error {
	if err := capture.Initialize(); err != nil {
		return err
	}
	defer capture.Terminate()

	src, err := capture.NewPortAudioSource(
		cfg.Audio.InputDevice, cfg.Audio.SampleRate, cfg.Audio.FramesPerBuffer, cfg.Audio.LowLatency)
	if err != nil {
		return err
	}

	window, err := dsp.ParseWindowFunc(cfg.Analysis.Window)
	if err != nil {
		return err
	}
	windowCfg := dsp.WindowConfig{
		Window: window,
		Length: cfg.Analysis.WindowLength,
		Hop:    cfg.Analysis.HopLength,
	}

	var forward capture.Publisher
	if cfg.Transport.WebSocketEnabled {
		ws := transport.NewWebSocketTransport(cfg.Transport.WebSocketPort, cfg.Transport.MinSendInterval)
		defer ws.Close()
		forward = ws
	}

	tun, err := tuner.New(src, windowCfg, forward,
		capture.WithReferenceA4(cfg.Tuner.ReferenceA4),
		capture.WithGateThreshold(cfg.Tuner.GateThreshold),
		capture.WithDetector(analysis.PitchDetector{
			MinHz:      cfg.Tuner.MinHz,
			MaxHz:      cfg.Tuner.MaxHz,
			SilenceRMS: cfg.Tuner.SilenceThreshold,
		}))
	if err != nil {
		return err
	}
	if cfg.Tuner.Instrument != "" {
		if err := tun.SetInstrument(cfg.Tuner.Instrument); err != nil {
			return err
		}
	}

	var rec *capture.Recorder
	if cfg.Recording.Enabled {
		rec = capture.NewRecorder(cfg.Audio.SampleRate)
		tun.Tap(rec.Write)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	if err := tun.Start(); err != nil {
		return err
	}
	log.Infof("tuner listening on %s; Ctrl-C to stop", src.DeviceName())

	if rec != nil {
		outFile := options.OutputFile
		if outFile == "" {
			outFile = "recording-" + time.Now().UTC().Format("02-01-2006-150405") + ".wav"
		}
		if err := rec.Start(outFile); err != nil {
			return err
		}
		defer func() {
			if err := rec.Stop(); err != nil {
				log.Errorf("stop recording: %v", err)
			} else {
				fmt.Printf("\nrecording saved to: %s\n", outFile)
			}
		}()
	}

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			fmt.Println()
			return tun.Stop()
		case <-ticker.C:
			printReading(tun.Latest())
		}
	}
}

func printReading(r *tuner.Reading) {
	if r == nil {
		return
	}
	if !r.Voiced {
		fmt.Printf("\r%-60s", "listening...")
		return
	}
	if r.String != "" {
		fmt.Printf("\r%7.2f Hz  %-3s %+6.1f cents  (target %s %.2f Hz)      ",
			r.Pitch, r.Note, r.StringCents, r.String, r.StringFreq)
		return
	}
	fmt.Printf("\r%7.2f Hz  %-3s %+6.1f cents%24s", r.Pitch, r.Note, r.Cents, "")
}

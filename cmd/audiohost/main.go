// Command audiohost is the standalone launcher described in spec §6.4: a
// host for the slot chain that needs no real sound card to demonstrate
// itself, reading its device/session preferences from a YAML file,
// accepting flag overrides, and driving the chain with a synthetic input
// signal while logging progress and meter readings.
//
// The audio-core specification itself imposes no CLI — this binary is an
// external collaborator, grounded on doismellburning-samoyed's
// cmd/direwolf daemon launcher: pflag for the command-line surface,
// charmbracelet/log for supervisory (never audio-thread) diagnostics.
package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/phoenix-chimera/audiocore/aiclient"
	"github.com/phoenix-chimera/audiocore/chain"
	"github.com/phoenix-chimera/audiocore/config"
	"github.com/phoenix-chimera/audiocore/fx"
	"github.com/phoenix-chimera/audiocore/preset"
)

func main() {
	var (
		configPath  = pflag.StringP("config", "c", "audiohost.yaml", "Path to the session/device preference file.")
		audioDevice = pflag.StringP("device", "d", "", "Audio device name override.")
		sampleRate  = pflag.Float64P("sample-rate", "r", 0, "Sample rate override, in Hz.")
		blockSize   = pflag.IntP("block-size", "b", 0, "Block size override, in frames.")
		logDir      = pflag.StringP("log-dir", "l", "", "Directory for progress/health log files.")
		aiEndpoint  = pflag.StringP("ai-endpoint", "a", "", "AI preset-generation service URL override.")
		promptFlag  = pflag.StringP("prompt", "p", "", "If set, request a preset from the AI service with this prompt before processing.")
		blocks      = pflag.IntP("blocks", "n", 100, "Number of synthetic blocks to process, then exit.")
		help        = pflag.BoolP("help", "h", false, "Display help text.")
	)

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "audiohost - standalone launcher for the slot chain host.\n\n")
		fmt.Fprintf(os.Stderr, "Usage: audiohost [options]\n\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if *help {
		pflag.Usage()
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("loading configuration", "path", *configPath, "err", err)
	}
	cfg.ApplyOverrides(*audioDevice, *sampleRate, *blockSize, *logDir, *aiEndpoint)

	if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
		log.Fatal("creating log directory", "dir", cfg.LogDir, "err", err)
	}
	healthPath := filepath.Join(cfg.LogDir, "audiohost.health")
	progressPath := filepath.Join(cfg.LogDir, "audiohost.progress")

	log.Info("starting audiohost", "device", cfg.AudioDevice, "sample_rate", cfg.SampleRate, "block_size", cfg.MaxBlockSize)

	fault := chain.LogFaultHandler{}
	c := chain.New(fault)
	defer c.Close()
	c.Prepare(cfg.SampleRate, cfg.MaxBlockSize)

	if err := c.InstallEngine(0, 0); err != nil {
		log.Fatal("installing initial engine", "err", err)
	}

	if *promptFlag != "" {
		applyAIPreset(c, cfg, *promptFlag)
	}

	writeHealth(healthPath, "starting")

	buf := &fx.Buffer{
		L: make([]float32, cfg.MaxBlockSize),
		R: make([]float32, cfg.MaxBlockSize),
	}

	phase := 0.0
	const toneHz = 220.0
	phaseInc := 2 * math.Pi * toneHz / cfg.SampleRate

	progress, err := os.Create(progressPath)
	if err != nil {
		log.Fatal("creating progress log", "err", err)
	}
	defer progress.Close()

	for block := 0; block < *blocks; block++ {
		fillSineBlock(buf, &phase, phaseInc)
		c.ProcessBlock(buf)

		fmt.Fprintf(progress, "block=%d in_peak=%.4f out_peak=%.4f reclaimed=%d\n",
			block, c.In.Peak(), c.Out.Peak(), c.ReclaimedCount())

		if block%10 == 0 {
			log.Info("processed block", "block", block, "out_peak", c.Out.Peak(), "out_rms", c.Out.RMS())
		}
	}

	writeHealth(healthPath, "done")
	log.Info("audiohost finished", "blocks", *blocks)
}

// fillSineBlock overwrites buf with a low-level test tone, advancing
// phase in place. This stands in for a real audio device callback so the
// launcher is fully demonstrable without one (spec §6.1 describes the
// plugin boundary; this launcher supplies the synthetic side of it).
func fillSineBlock(buf *fx.Buffer, phase *float64, inc float64) {
	const amplitude = 0.2
	for i := range buf.L {
		s := float32(amplitude * math.Sin(*phase))
		buf.L[i] = s
		buf.R[i] = s
		*phase += inc
		if *phase > 2*math.Pi {
			*phase -= 2 * math.Pi
		}
	}
}

// applyAIPreset requests a preset from the configured AI service and
// installs it, logging but not aborting the launcher on failure (spec
// §7: an AI-service failure must leave the chain's current state
// running, not crash the host).
func applyAIPreset(c *chain.Chain, cfg *config.Config, prompt string) {
	if cfg.AIEndpoint == "" {
		log.Warn("no AI endpoint configured, skipping preset generation", "prompt", prompt)
		return
	}
	client := aiclient.New(cfg.AIEndpoint)
	ctx, cancel := context.WithTimeout(context.Background(), aiclient.DefaultTimeout)
	defer cancel()

	p, err := client.Generate(ctx, prompt)
	if err != nil {
		log.Error("AI preset generation failed, continuing with current chain state", "err", err)
		return
	}
	if errs := preset.Apply(c, p); len(errs) != 0 {
		log.Error("applying generated preset", "errs", errs)
		return
	}
	log.Info("installed AI-generated preset", "name", p.Name, "install_id", p.InstallID)
}

func writeHealth(path, status string) {
	line := fmt.Sprintf("%s %s\n", time.Now().UTC().Format(time.RFC3339), status)
	if err := os.WriteFile(path, []byte(line), 0o644); err != nil {
		log.Warn("writing health file", "path", path, "err", err)
	}
}

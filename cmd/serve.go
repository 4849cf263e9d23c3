package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cyberquestjr/cyberquest/internal/ayora"
	"github.com/cyberquestjr/cyberquest/internal/catalog"
	"github.com/cyberquestjr/cyberquest/internal/game"
	"github.com/cyberquestjr/cyberquest/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		st, cfg, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Addr = addr
		}

		cat, err := catalog.Load()
		if err != nil {
			return fmt.Errorf("load content: %w", err)
		}

		provider := newProvider(ctx, cfg, st)
		synth, closeCache := newSynthesizer(ctx, cfg, provider)
		defer closeCache()

		publisher := newPublisher(cfg)
		defer publisher.Close()

		var speaker ayora.Speaker
		if cfg.ElevenLabs.APIKey != "" {
			speaker = ayora.NewElevenLabs(ayora.ElevenLabsConfig{
				APIKey:  cfg.ElevenLabs.APIKey,
				VoiceID: cfg.ElevenLabs.VoiceID,
			})
		}

		gameOpts := []game.Option{game.WithPublisher(publisher)}
		if provider != nil {
			gameOpts = append(gameOpts, game.WithGenerator(game.NewGenerator(provider, cfg.GenerationTimeout)))
		}

		srv := server.New(server.Deps{
			Catalog:   cat,
			Store:     st,
			Courses:   synth,
			Game:      game.NewService(cat, game.ReposFrom(st), gameOpts...),
			Ayora:     ayora.New(provider, speaker, cfg.GenerationTimeout),
			Publisher: publisher,
		}, server.Options{
			CORSOrigins: cfg.CORSOrigins,
			GinMode:     cfg.GinMode,
			AccessLog:   !quietFlag(cmd),
		})

		return srv.Run(ctx, cfg.Addr)
	},
}

func quietFlag(cmd *cobra.Command) bool {
	q, _ := cmd.Flags().GetBool("quiet")
	return q
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides CYBERQUEST_ADDR)")
	serveCmd.Flags().BoolP("quiet", "q", false, "Disable the request log")
}

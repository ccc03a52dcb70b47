package main

import (
	"context"
	"fmt"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	"tokeval/backends"
	"tokeval/harness"
)

type tokenizeRequest struct {
	Text string `json:"text"`
}

type tokenizeResponse struct {
	Text    string   `json:"text"`
	Pieces  []string `json:"pieces"`
	IDs     []int    `json:"ids"`
	Count   int      `json:"count"`
	Decoded string   `json:"decoded"`
}

func serveCmd() *cli.Command {
	var addr string

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve single-call tokenization of the primary model over HTTP",
		Flags: append(commonModelFlags(),
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Value:       "127.0.0.1:8080",
				Destination: &addr,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := loadConfig()
			applyCommonConfig(cmd, cfg)
			if cfg.ServerAddress != "" && !cmd.IsSet("addr") {
				addr = cfg.ServerAddress
			}
			log := newLogger()

			primary, err := backends.NewHF(modelPath)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: primary tokenizer: %v", err), 1)
			}
			defer primary.Close()

			target := harness.NewAdapter(primaryName, harness.KindUnigram, primary,
				harness.WithNormalizedInput(),
			)

			e := echo.New()
			e.Use(middleware.Recover())
			e.GET("/healthz", func(c *echo.Context) error {
				return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
			})
			e.POST("/tokenize", handleTokenize(target))

			log.Info("starting server", "address", addr, "model", modelPath)
			sc := echo.StartConfig{Address: addr}
			return sc.Start(ctx, e)
		},
	}
}

// handleTokenize is a stateless pass-through to the primary adapter: no
// decision logic lives here.
func handleTokenize(target *harness.Adapter) func(c *echo.Context) error {
	return func(c *echo.Context) error {
		var req tokenizeRequest
		if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		}
		if req.Text == "" {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "text is required"})
		}

		pieces, err := target.Encode(req.Text, harness.RepPieces)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		ids, err := target.Encode(req.Text, harness.RepIDs)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		decoded, err := target.Decode(ids)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}

		return c.JSON(http.StatusOK, tokenizeResponse{
			Text:    req.Text,
			Pieces:  pieces.Pieces,
			IDs:     ids.IDs,
			Count:   ids.Len(),
			Decoded: decoded,
		})
	}
}

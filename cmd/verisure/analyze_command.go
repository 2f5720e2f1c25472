package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"verisure/internal/analyzer"
	"verisure/internal/config"
	"verisure/internal/fusion"
	"verisure/internal/history"
	"verisure/internal/logging"
	"verisure/internal/opinion"
)

// analyzeOutput is the JSON shape of one analysis run.
type analyzeOutput struct {
	File           string         `json:"file"`
	MediaType      string         `json:"media_type"`
	SHA256         string         `json:"sha256"`
	Verdict        fusion.Verdict `json:"verdict"`
	HumanSignals   []string       `json:"human_signals"`
	AISignals      []string       `json:"ai_signals"`
	Manipulation   []string       `json:"manipulation_signals"`
	Inconclusive   []string       `json:"inconclusive_notes"`
	CompositeScore float64        `json:"composite_score,omitempty"`
}

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var kindFlag string
	var opinionFlag string
	var jsonFlag bool
	var noHistoryFlag bool

	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Run forensic analysis on an image, video, or audio file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("configure logging: %w", err)
			}

			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read media file: %w", err)
			}

			kind := strings.ToLower(strings.TrimSpace(kindFlag))
			if kind == "" {
				kind, err = inferKind(path)
				if err != nil {
					return err
				}
			}

			a := analyzer.New(cfg, logger)
			var result *analyzer.ForensicResult
			switch kind {
			case analyzer.MediaImage:
				result, err = a.AnalyzeImage(cmd.Context(), data)
			case analyzer.MediaVideo:
				result, err = a.AnalyzeVideo(cmd.Context(), data, filepath.Base(path))
			case analyzer.MediaAudio:
				result, err = a.AnalyzeAudio(cmd.Context(), data, filepath.Base(path))
			default:
				return fmt.Errorf("unknown media kind %q (expected image, video, or audio)", kind)
			}
			if err != nil {
				return fmt.Errorf("analyze %s: %w", kind, err)
			}

			secondOpinion := gatherOpinion(cmd, cfg, logger, opinionFlag, data, kind, result)
			verdict := fusion.Fuse(result.Bucket, secondOpinion)

			digest := sha256.Sum256(data)
			out := analyzeOutput{
				File:         filepath.Base(path),
				MediaType:    result.MediaType,
				SHA256:       hex.EncodeToString(digest[:]),
				Verdict:      verdict,
				HumanSignals: result.Bucket.Human,
				AISignals:    result.Bucket.AI,
				Manipulation: result.Bucket.Manipulation,
				Inconclusive: result.Bucket.Inconclusive,
			}
			if result.Image != nil {
				out.CompositeScore = result.Image.CompositeScore
			}

			if cfg.History.Enabled && !noHistoryFlag {
				recordVerdict(cfg, logger, out)
			}

			if jsonFlag {
				return writeJSON(cmd, out)
			}
			renderVerdict(cmd, out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&kindFlag, "kind", "k", "", "Media kind override: image, video, or audio")
	cmd.Flags().StringVar(&opinionFlag, "opinion", "", "Path to a JSON second-opinion file to fuse instead of calling the API")
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit the verdict as JSON")
	cmd.Flags().BoolVar(&noHistoryFlag, "no-history", false, "Skip recording this verdict in history")
	return cmd
}

var kindByExtension = map[string]string{
	".jpg": analyzer.MediaImage, ".jpeg": analyzer.MediaImage, ".png": analyzer.MediaImage,
	".gif": analyzer.MediaImage, ".webp": analyzer.MediaImage, ".bmp": analyzer.MediaImage,
	".mp4": analyzer.MediaVideo, ".mov": analyzer.MediaVideo, ".m4v": analyzer.MediaVideo,
	".mkv": analyzer.MediaVideo, ".avi": analyzer.MediaVideo, ".webm": analyzer.MediaVideo,
	".wav": analyzer.MediaAudio, ".mp3": analyzer.MediaAudio, ".flac": analyzer.MediaAudio,
	".ogg": analyzer.MediaAudio, ".m4a": analyzer.MediaAudio, ".aac": analyzer.MediaAudio,
}

func inferKind(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if kind, ok := kindByExtension[ext]; ok {
		return kind, nil
	}
	return "", fmt.Errorf("cannot infer media kind from %q (use --kind image|video|audio)", filepath.Base(path))
}

// gatherOpinion resolves the secondary opinion. A file supplied with
// --opinion wins; otherwise the configured collaborator is called for
// visual media. Every failure path degrades to the neutral opinion so
// the forensic verdict still lands.
func gatherOpinion(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, opinionPath string, data []byte, kind string, result *analyzer.ForensicResult) fusion.SecondaryOpinion {
	if opinionPath != "" {
		raw, err := os.ReadFile(opinionPath)
		if err != nil {
			logger.Warn("opinion file unreadable", logging.Error(err))
			return fusion.NeutralOpinion()
		}
		return fusion.ParseOpinion(raw)
	}

	if !cfg.Opinion.Enabled {
		return fusion.NeutralOpinion()
	}

	var image []byte
	mimeType := "image/jpeg"
	switch kind {
	case analyzer.MediaImage:
		image = data
		mimeType = ""
	case analyzer.MediaVideo:
		if len(result.KeyFrames) > 0 {
			image = result.KeyFrames[0]
		}
	}
	if len(image) == 0 {
		return fusion.NeutralOpinion()
	}

	client, err := opinion.NewClient(cfg.Opinion, logger)
	if err != nil {
		logger.Warn("opinion collaborator unavailable", logging.Error(err))
		return fusion.NeutralOpinion()
	}
	got, err := client.ImageOpinion(cmd.Context(), image, mimeType)
	if err != nil {
		logger.Warn("opinion request failed", logging.Error(err))
		return fusion.NeutralOpinion()
	}
	return got
}

// recordVerdict persists the outcome. History failures are logged and
// swallowed so a broken database never masks a completed analysis.
func recordVerdict(cfg *config.Config, logger *slog.Logger, out analyzeOutput) {
	store, err := history.Open(cfg)
	if err != nil {
		logger.Warn("history unavailable", logging.Error(err))
		return
	}
	defer store.Close()

	rec := history.NewRecord(out.MediaType, out.File, out.SHA256, out.Verdict, out.CompositeScore)
	if _, err := store.Save(context.Background(), rec); err != nil {
		logger.Warn("history save failed", logging.Error(err))
	}
}

func renderVerdict(cmd *cobra.Command, out analyzeOutput) {
	w := cmd.OutOrStdout()

	rows := [][]string{
		{"File", out.File},
		{"Media type", out.MediaType},
		{"Classification", out.Verdict.Classification},
		{"Confidence", string(out.Verdict.Confidence)},
		{"Reason", out.Verdict.Reason},
	}
	if out.CompositeScore > 0 {
		rows = append(rows, []string{"Composite score", strconv.FormatFloat(out.CompositeScore, 'f', 2, 64)})
	}
	fmt.Fprintln(w, renderTable([]string{"Field", "Value"}, rows, nil))

	if len(out.Verdict.Indicators) > 0 {
		fmt.Fprintln(w, "Indicators:")
		for _, indicator := range out.Verdict.Indicators {
			fmt.Fprintf(w, "  - %s\n", indicator)
		}
	}
	if len(out.Inconclusive) > 0 {
		fmt.Fprintln(w, "Notes:")
		for _, note := range out.Inconclusive {
			fmt.Fprintf(w, "  - %s\n", note)
		}
	}
}
